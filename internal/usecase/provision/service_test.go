package provision

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"internmatch/internal/domain/profile"
	"internmatch/internal/repository"

	"github.com/google/uuid"
)

type fakeProfileRepo struct {
	existing map[uuid.UUID]profile.Profile

	insertFailures int
	insertCalls    int
	repairCalls    int
	repairErr      error
	insertErr      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{existing: make(map[uuid.UUID]profile.Profile)}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.Profile, error) {
	if p, ok := f.existing[userID]; ok {
		return p, nil
	}
	return profile.Profile{}, repository.ErrNotFound
}

func (f *fakeProfileRepo) Insert(_ context.Context, userID uuid.UUID, t profile.Type) (uuid.UUID, error) {
	f.insertCalls++
	if _, ok := f.existing[userID]; ok {
		return uuid.Nil, repository.ErrDuplicate
	}
	if f.insertCalls <= f.insertFailures {
		err := f.insertErr
		if err == nil {
			err = repository.ErrPermissionDenied
		}
		return uuid.Nil, err
	}
	p := profile.Profile{ID: uuid.New(), UserID: userID, Type: t}
	f.existing[userID] = p
	return p.ID, nil
}

func (f *fakeProfileRepo) RepairPolicies(context.Context) error {
	f.repairCalls++
	return f.repairErr
}

type fakeStudentRepo struct {
	records   map[uuid.UUID]profile.StudentRecord
	insertErr error
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{records: make(map[uuid.UUID]profile.StudentRecord)}
}

func (f *fakeStudentRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.StudentRecord, error) {
	if r, ok := f.records[userID]; ok {
		return r, nil
	}
	return profile.StudentRecord{}, repository.ErrNotFound
}

func (f *fakeStudentRepo) Insert(_ context.Context, in repository.StudentInsert) (uuid.UUID, error) {
	if f.insertErr != nil {
		return uuid.Nil, f.insertErr
	}
	rec := profile.StudentRecord{
		ID:         uuid.New(),
		UserID:     in.UserID,
		FullName:   in.FullName,
		University: in.University,
		Department: in.Department,
	}
	f.records[in.UserID] = rec
	return rec.ID, nil
}

func (f *fakeStudentRepo) Update(context.Context, uuid.UUID, repository.StudentUpdate) (profile.StudentRecord, error) {
	return profile.StudentRecord{}, repository.ErrNotFound
}

func (f *fakeStudentRepo) ReplaceProjects(context.Context, uuid.UUID, []profile.Project) (profile.StudentRecord, error) {
	return profile.StudentRecord{}, repository.ErrNotFound
}

func (f *fakeStudentRepo) SetAvatarURL(context.Context, uuid.UUID, string) error { return nil }

func (f *fakeStudentRepo) Search(context.Context, string, []string, int) ([]profile.StudentRecord, error) {
	return nil, nil
}

type fakeCompanyRepo struct {
	records   map[uuid.UUID]profile.CompanyRecord
	insertErr error
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{records: make(map[uuid.UUID]profile.CompanyRecord)}
}

func (f *fakeCompanyRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.CompanyRecord, error) {
	if r, ok := f.records[userID]; ok {
		return r, nil
	}
	return profile.CompanyRecord{}, repository.ErrNotFound
}

func (f *fakeCompanyRepo) GetByID(context.Context, uuid.UUID) (profile.CompanyRecord, error) {
	return profile.CompanyRecord{}, repository.ErrNotFound
}

func (f *fakeCompanyRepo) Insert(_ context.Context, in repository.CompanyInsert) (uuid.UUID, error) {
	if f.insertErr != nil {
		return uuid.Nil, f.insertErr
	}
	rec := profile.CompanyRecord{ID: uuid.New(), UserID: in.UserID, Name: in.Name}
	f.records[in.UserID] = rec
	return rec.ID, nil
}

func (f *fakeCompanyRepo) Update(context.Context, uuid.UUID, repository.CompanyUpdate) (profile.CompanyRecord, error) {
	return profile.CompanyRecord{}, repository.ErrNotFound
}

func (f *fakeCompanyRepo) SetLogoURL(context.Context, uuid.UUID, string) error { return nil }

func newTestService(profiles *fakeProfileRepo, students *fakeStudentRepo, companies *fakeCompanyRepo) (*Service, *[]time.Duration) {
	svc := NewService(profiles, students, companies, nil, DefaultOptions(), log.New(io.Discard, "", 0))
	slept := &[]time.Duration{}
	svc.sleep = func(_ context.Context, d time.Duration) {
		*slept = append(*slept, d)
	}
	return svc, slept
}

func TestProvisionStudent_FreshRegistration(t *testing.T) {
	profiles := newFakeProfileRepo()
	students := newFakeStudentRepo()
	svc, _ := newTestService(profiles, students, newFakeCompanyRepo())

	userID := uuid.New()
	roleID, err := svc.ProvisionStudent(context.Background(), StudentInput{
		UserID:     userID,
		FullName:   "A B",
		University: "U",
		Department: "CS",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if roleID == uuid.Nil {
		t.Fatalf("expected student id")
	}

	p, ok := profiles.existing[userID]
	if !ok {
		t.Fatalf("expected profile row")
	}
	if p.Type != profile.TypeStudent {
		t.Fatalf("expected student profile, got %s", p.Type)
	}

	rec := students.records[userID]
	if rec.ID != roleID || rec.FullName != "A B" || rec.University != "U" || rec.Department != "CS" {
		t.Fatalf("student record mismatch: %+v", rec)
	}
}

func TestProvisionStudent_Idempotent(t *testing.T) {
	profiles := newFakeProfileRepo()
	students := newFakeStudentRepo()
	svc, _ := newTestService(profiles, students, newFakeCompanyRepo())

	userID := uuid.New()
	in := StudentInput{UserID: userID, FullName: "A B", University: "U", Department: "CS"}

	first, err := svc.ProvisionStudent(context.Background(), in)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.ProvisionStudent(context.Background(), in)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if len(profiles.existing) != 1 {
		t.Fatalf("expected exactly one profile row, got %d", len(profiles.existing))
	}
	if first != second {
		t.Fatalf("expected second call to return the existing student id")
	}
}

func TestProvisionCompany_RetryBound(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.insertFailures = 2 // first two direct attempts rejected
	svc, slept := newTestService(profiles, newFakeStudentRepo(), newFakeCompanyRepo())

	_, err := svc.ProvisionCompany(context.Background(), CompanyInput{UserID: uuid.New(), Name: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if profiles.insertCalls != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", profiles.insertCalls)
	}
	if profiles.repairCalls != 0 {
		t.Fatalf("repair should not run when a direct attempt succeeds")
	}

	var retrySleep time.Duration
	for _, d := range (*slept)[:len(*slept)-1] { // last sleep is the settling delay
		retrySleep += d
	}
	if retrySleep != 2*500*time.Millisecond {
		t.Fatalf("expected 1000ms of retry backoff, got %s", retrySleep)
	}
	if (*slept)[len(*slept)-1] != time.Second {
		t.Fatalf("expected 1s settling delay, got %s", (*slept)[len(*slept)-1])
	}
}

func TestProvisionCompany_BypassAfterExhaustion(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.insertFailures = 3 // all direct attempts rejected; post-repair retry succeeds
	svc, _ := newTestService(profiles, newFakeStudentRepo(), newFakeCompanyRepo())

	_, err := svc.ProvisionCompany(context.Background(), CompanyInput{UserID: uuid.New(), Name: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if profiles.repairCalls != 1 {
		t.Fatalf("expected one policy repair, got %d", profiles.repairCalls)
	}
	if profiles.insertCalls != 4 {
		t.Fatalf("expected 3 direct + 1 post-repair insert, got %d", profiles.insertCalls)
	}
}

func TestProvisionCompany_ProfileCreationFailed(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.insertFailures = 4 // direct attempts and post-repair retry all fail
	svc, _ := newTestService(profiles, newFakeStudentRepo(), newFakeCompanyRepo())

	_, err := svc.ProvisionCompany(context.Background(), CompanyInput{UserID: uuid.New(), Name: "Acme"})
	if !errors.Is(err, ErrProfileCreationFailed) {
		t.Fatalf("expected ErrProfileCreationFailed, got %v", err)
	}
	if errors.Is(err, ErrRoleRecordCreationFailed) {
		t.Fatalf("error kinds must be distinguishable")
	}
}

func TestProvisionCompany_PartialFailureSurfaced(t *testing.T) {
	profiles := newFakeProfileRepo()
	companies := newFakeCompanyRepo()
	companies.insertErr = errors.New("disk full")
	svc, _ := newTestService(profiles, newFakeStudentRepo(), companies)

	userID := uuid.New()
	_, err := svc.ProvisionCompany(context.Background(), CompanyInput{UserID: userID, Name: "Acme"})
	if !errors.Is(err, ErrRoleRecordCreationFailed) {
		t.Fatalf("expected ErrRoleRecordCreationFailed, got %v", err)
	}
	if errors.Is(err, ErrProfileCreationFailed) {
		t.Fatalf("error kinds must be distinguishable")
	}

	// The dangling profile row is the documented partial state.
	if _, ok := profiles.existing[userID]; !ok {
		t.Fatalf("profile row should remain after role insert failure")
	}
}

func TestProvisionStudent_RoleInsertNotRetried(t *testing.T) {
	students := newFakeStudentRepo()
	calls := 0
	students.insertErr = errors.New("boom")
	svc, _ := newTestService(newFakeProfileRepo(), students, newFakeCompanyRepo())

	// Count insert attempts through a wrapper.
	base := students.insertErr
	students.insertErr = nil
	svcStudents := &countingStudentRepo{inner: students, err: base, calls: &calls}
	svc.students = svcStudents

	_, err := svc.ProvisionStudent(context.Background(), StudentInput{UserID: uuid.New(), FullName: "X"})
	if !errors.Is(err, ErrRoleRecordCreationFailed) {
		t.Fatalf("expected ErrRoleRecordCreationFailed, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("role insert must not be retried, got %d calls", calls)
	}
}

type countingStudentRepo struct {
	inner repository.StudentRepository
	err   error
	calls *int
}

func (c *countingStudentRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.StudentRecord, error) {
	return c.inner.GetByUserID(ctx, userID)
}

func (c *countingStudentRepo) Insert(ctx context.Context, in repository.StudentInsert) (uuid.UUID, error) {
	*c.calls++
	if c.err != nil {
		return uuid.Nil, c.err
	}
	return c.inner.Insert(ctx, in)
}

func (c *countingStudentRepo) Update(ctx context.Context, userID uuid.UUID, in repository.StudentUpdate) (profile.StudentRecord, error) {
	return c.inner.Update(ctx, userID, in)
}

func (c *countingStudentRepo) ReplaceProjects(ctx context.Context, userID uuid.UUID, projects []profile.Project) (profile.StudentRecord, error) {
	return c.inner.ReplaceProjects(ctx, userID, projects)
}

func (c *countingStudentRepo) SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) error {
	return c.inner.SetAvatarURL(ctx, userID, url)
}

func (c *countingStudentRepo) Search(ctx context.Context, q string, skills []string, limit int) ([]profile.StudentRecord, error) {
	return c.inner.Search(ctx, q, skills, limit)
}
