package application

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

type memApplicationRepo struct {
	byID map[uuid.UUID]repository.Application
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{byID: make(map[uuid.UUID]repository.Application)}
}

func (m *memApplicationRepo) Insert(_ context.Context, internshipID, studentID uuid.UUID, coverLetter string) (uuid.UUID, error) {
	for _, a := range m.byID {
		if a.InternshipID == internshipID && a.StudentID == studentID {
			return uuid.Nil, repository.ErrDuplicate
		}
	}
	id := uuid.New()
	m.byID[id] = repository.Application{
		ID:           id,
		InternshipID: internshipID,
		StudentID:    studentID,
		Status:       "pending",
		CoverLetter:  coverLetter,
	}
	return id, nil
}

func (m *memApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Application, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return repository.Application{}, repository.ErrNotFound
}

func (m *memApplicationRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]repository.Application, error) {
	out := make([]repository.Application, 0)
	for _, a := range m.byID {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApplicationRepo) ListByInternship(_ context.Context, internshipID uuid.UUID) ([]repository.Application, error) {
	out := make([]repository.Application, 0)
	for _, a := range m.byID {
		if a.InternshipID == internshipID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApplicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	m.byID[id] = a
	return nil
}

type stubInternshipRepo struct {
	byID map[uuid.UUID]repository.Internship
}

func (s stubInternshipRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Internship, error) {
	if it, ok := s.byID[id]; ok {
		return it, nil
	}
	return repository.Internship{}, repository.ErrNotFound
}

func (s stubInternshipRepo) Insert(context.Context, repository.InternshipInsert) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not implemented")
}

func (s stubInternshipRepo) List(context.Context, repository.InternshipFilter) ([]repository.Internship, error) {
	return nil, nil
}

func (s stubInternshipRepo) UpdateStatus(context.Context, uuid.UUID, string) error { return nil }
func (s stubInternshipRepo) Delete(context.Context, uuid.UUID) error               { return nil }

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

type fixture struct {
	svc         *Service
	studentUser uuid.UUID
	studentID   uuid.UUID
	companyUser uuid.UUID
	companyID   uuid.UUID
	openID      uuid.UUID
	closedID    uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		studentUser: uuid.New(),
		studentID:   uuid.New(),
		companyUser: uuid.New(),
		companyID:   uuid.New(),
		openID:      uuid.New(),
		closedID:    uuid.New(),
	}

	students := stubStudentRepo{byUser: map[uuid.UUID]profile.StudentRecord{
		f.studentUser: {ID: f.studentID, UserID: f.studentUser},
	}}
	companies := stubCompanyRepo{byUser: map[uuid.UUID]profile.CompanyRecord{
		f.companyUser: {ID: f.companyID, UserID: f.companyUser},
	}}
	internships := stubInternshipRepo{byID: map[uuid.UUID]repository.Internship{
		f.openID:   {ID: f.openID, CompanyID: f.companyID, Status: "open"},
		f.closedID: {ID: f.closedID, CompanyID: f.companyID, Status: "closed"},
	}}

	f.svc = NewService(newMemApplicationRepo(), internships, students, companies, log.New(io.Discard, "", 0))
	return f
}

func TestApply_HappyPath(t *testing.T) {
	f := newFixture()

	app, err := f.svc.Apply(context.Background(), f.studentUser, f.openID, "I would love to join.")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != "pending" || app.StudentID != f.studentID {
		t.Fatalf("unexpected application: %+v", app)
	}

	mine, err := f.svc.ListForStudent(context.Background(), f.studentUser)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListForStudent = %v, %v", mine, err)
	}
}

func TestApply_Rejections(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Apply(context.Background(), uuid.New(), f.openID, ""); !errors.Is(err, ErrNotStudent) {
		t.Fatalf("err = %v, want ErrNotStudent", err)
	}
	if _, err := f.svc.Apply(context.Background(), f.studentUser, f.closedID, ""); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
	if _, err := f.svc.Apply(context.Background(), f.studentUser, uuid.New(), ""); !errors.Is(err, ErrInternshipGone) {
		t.Fatalf("err = %v, want ErrInternshipGone", err)
	}

	if _, err := f.svc.Apply(context.Background(), f.studentUser, f.openID, ""); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), f.studentUser, f.openID, ""); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
}

func TestUpdateStatus_CompanyOwnershipAndValidation(t *testing.T) {
	f := newFixture()

	app, err := f.svc.Apply(context.Background(), f.studentUser, f.openID, "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if err := f.svc.UpdateStatus(context.Background(), f.companyUser, app.ID, "shortlisted"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if err := f.svc.UpdateStatus(context.Background(), uuid.New(), app.ID, "accepted"); !errors.Is(err, ErrNotCompany) {
		t.Fatalf("err = %v, want ErrNotCompany", err)
	}
	if err := f.svc.UpdateStatus(context.Background(), f.companyUser, app.ID, "accepted"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	apps, err := f.svc.ListForInternship(context.Background(), f.companyUser, f.openID)
	if err != nil {
		t.Fatalf("ListForInternship: %v", err)
	}
	if len(apps) != 1 || apps[0].Status != "accepted" {
		t.Fatalf("unexpected applications: %+v", apps)
	}
}
