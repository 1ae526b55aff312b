package resolver

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"internmatch/internal/domain/profile"
	"internmatch/internal/repository"

	"github.com/google/uuid"
)

type stubProfileRepo struct {
	byUser map[uuid.UUID]profile.Profile
	err    error
}

func (s stubProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.Profile, error) {
	if s.err != nil {
		return profile.Profile{}, s.err
	}
	if p, ok := s.byUser[userID]; ok {
		return p, nil
	}
	return profile.Profile{}, repository.ErrNotFound
}

func (s stubProfileRepo) Insert(context.Context, uuid.UUID, profile.Type) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not implemented")
}

func (s stubProfileRepo) RepairPolicies(context.Context) error { return nil }

type stubStudentRepo struct {
	byUser map[uuid.UUID]profile.StudentRecord
}

func (s stubStudentRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.StudentRecord, error) {
	if r, ok := s.byUser[userID]; ok {
		return r, nil
	}
	return profile.StudentRecord{}, repository.ErrNotFound
}

func (s stubStudentRepo) Insert(context.Context, repository.StudentInsert) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not implemented")
}

func (s stubStudentRepo) Update(context.Context, uuid.UUID, repository.StudentUpdate) (profile.StudentRecord, error) {
	return profile.StudentRecord{}, repository.ErrNotFound
}

func (s stubStudentRepo) ReplaceProjects(context.Context, uuid.UUID, []profile.Project) (profile.StudentRecord, error) {
	return profile.StudentRecord{}, repository.ErrNotFound
}

func (s stubStudentRepo) SetAvatarURL(context.Context, uuid.UUID, string) error { return nil }

func (s stubStudentRepo) Search(context.Context, string, []string, int) ([]profile.StudentRecord, error) {
	return nil, nil
}

type stubCompanyRepo struct {
	byUser map[uuid.UUID]profile.CompanyRecord
}

func (s stubCompanyRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.CompanyRecord, error) {
	if r, ok := s.byUser[userID]; ok {
		return r, nil
	}
	return profile.CompanyRecord{}, repository.ErrNotFound
}

func (s stubCompanyRepo) GetByID(context.Context, uuid.UUID) (profile.CompanyRecord, error) {
	return profile.CompanyRecord{}, repository.ErrNotFound
}

func (s stubCompanyRepo) Insert(context.Context, repository.CompanyInsert) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not implemented")
}

func (s stubCompanyRepo) Update(context.Context, uuid.UUID, repository.CompanyUpdate) (profile.CompanyRecord, error) {
	return profile.CompanyRecord{}, repository.ErrNotFound
}

func (s stubCompanyRepo) SetLogoURL(context.Context, uuid.UUID, string) error { return nil }

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestResolve_NoProfileReturnsNil(t *testing.T) {
	svc := NewService(stubProfileRepo{byUser: map[uuid.UUID]profile.Profile{}}, stubStudentRepo{}, stubCompanyRepo{}, nil, testLogger())

	if v := svc.Resolve(context.Background(), uuid.New()); v != nil {
		t.Fatalf("expected nil view for unknown user, got %+v", v)
	}
}

func TestResolve_LookupErrorReturnsNilNotPanic(t *testing.T) {
	svc := NewService(stubProfileRepo{err: errors.New("connection refused")}, stubStudentRepo{}, stubCompanyRepo{}, nil, testLogger())

	if v := svc.Resolve(context.Background(), uuid.New()); v != nil {
		t.Fatalf("expected nil view on lookup error, got %+v", v)
	}
	if v := svc.Resolve(context.Background(), uuid.Nil); v != nil {
		t.Fatalf("expected nil view for nil user id")
	}
}

func TestResolve_StudentWithRoleRecord(t *testing.T) {
	userID := uuid.New()
	studentID := uuid.New()
	profiles := stubProfileRepo{byUser: map[uuid.UUID]profile.Profile{
		userID: {ID: uuid.New(), UserID: userID, Type: profile.TypeStudent},
	}}
	students := stubStudentRepo{byUser: map[uuid.UUID]profile.StudentRecord{
		userID: {ID: studentID, UserID: userID},
	}}

	svc := NewService(profiles, students, stubCompanyRepo{}, nil, testLogger())
	v := svc.Resolve(context.Background(), userID)
	if v == nil {
		t.Fatalf("expected view")
	}
	if v.Type != profile.TypeStudent || v.RoleID != studentID {
		t.Fatalf("unexpected view: %+v", v)
	}
	if !v.HasRoleRecord() {
		t.Fatalf("expected role record present")
	}
}

func TestResolve_ProfileWithoutRoleRecordStillResolves(t *testing.T) {
	userID := uuid.New()
	profiles := stubProfileRepo{byUser: map[uuid.UUID]profile.Profile{
		userID: {ID: uuid.New(), UserID: userID, Type: profile.TypeCompany},
	}}

	svc := NewService(profiles, stubStudentRepo{}, stubCompanyRepo{}, nil, testLogger())
	v := svc.Resolve(context.Background(), userID)
	if v == nil {
		t.Fatalf("profile row is authoritative; expected a view despite missing company record")
	}
	if v.Type != profile.TypeCompany {
		t.Fatalf("unexpected type %s", v.Type)
	}
	if v.HasRoleRecord() {
		t.Fatalf("expected missing role record")
	}
}

func TestResolve_UnknownTypeReturnsNil(t *testing.T) {
	userID := uuid.New()
	profiles := stubProfileRepo{byUser: map[uuid.UUID]profile.Profile{
		userID: {ID: uuid.New(), UserID: userID, Type: "admin"},
	}}

	svc := NewService(profiles, stubStudentRepo{}, stubCompanyRepo{}, nil, testLogger())
	if v := svc.Resolve(context.Background(), userID); v != nil {
		t.Fatalf("expected nil for unknown type, got %+v", v)
	}
}

type recordingSink struct {
	last   *profile.View
	userID uuid.UUID
	calls  int
}

func (r *recordingSink) SetProfile(userID uuid.UUID, v *profile.View) {
	r.userID = userID
	r.last = v
	r.calls++
}

func TestResolve_UpdatesSink(t *testing.T) {
	userID := uuid.New()
	profiles := stubProfileRepo{byUser: map[uuid.UUID]profile.Profile{
		userID: {ID: uuid.New(), UserID: userID, Type: profile.TypeStudent},
	}}
	students := stubStudentRepo{byUser: map[uuid.UUID]profile.StudentRecord{
		userID: {ID: uuid.New(), UserID: userID},
	}}

	sink := &recordingSink{}
	svc := NewService(profiles, students, stubCompanyRepo{}, nil, testLogger())
	svc.SetSink(sink)

	v := svc.Resolve(context.Background(), userID)
	if sink.calls != 1 || sink.last != v || sink.userID != userID {
		t.Fatalf("sink not updated: calls=%d", sink.calls)
	}

	svc.Resolve(context.Background(), uuid.New())
	if sink.calls != 2 || sink.last != nil {
		t.Fatalf("sink should be cleared for unknown user")
	}
}
