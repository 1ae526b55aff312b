// Package provision creates the profile row and its matching role record
// for a new user. The two inserts are not atomic: the profile insert is
// retried against the permission layer with a policy-repair fallback, the
// role insert is not retried, and a failure between the two leaves a
// dangling profile the resolver is built to tolerate.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"internmatch/internal/domain/profile"
	"internmatch/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrProfileCreationFailed means the profile row could not be written
	// even after retries and the policy-repair fallback.
	ErrProfileCreationFailed = errors.New("profile creation failed")
	// ErrRoleRecordCreationFailed means the profile row exists but the
	// student/company record insert failed; the account is only partially
	// provisioned.
	ErrRoleRecordCreationFailed = errors.New("role record creation failed")

	ErrInvalidInput = errors.New("invalid input")
)

type StudentInput struct {
	UserID     uuid.UUID
	FullName   string
	University string
	Department string
	Bio        string
	Skills     []string
	AvatarURL  string
}

type CompanyInput struct {
	UserID      uuid.UUID
	Name        string
	Industry    string
	Location    string
	Description string
	LogoURL     string
	Website     string
	Size        string
}

type Provisioner interface {
	ProvisionStudent(ctx context.Context, in StudentInput) (uuid.UUID, error)
	ProvisionCompany(ctx context.Context, in CompanyInput) (uuid.UUID, error)
}

// Options tune the insert retry loop and the settling delay that lets the
// permission layer's asynchronous side effects land before the role insert.
type Options struct {
	ProfileInsertAttempts int
	RetryDelay            time.Duration
	SettleDelay           time.Duration
}

func DefaultOptions() Options {
	return Options{
		ProfileInsertAttempts: 3,
		RetryDelay:            500 * time.Millisecond,
		SettleDelay:           time.Second,
	}
}

// Invalidator clears any cached profile view after provisioning writes.
type Invalidator interface {
	InvalidateProfile(ctx context.Context, userID string) error
}

type Service struct {
	profiles  repository.ProfileRepository
	students  repository.StudentRepository
	companies repository.CompanyRepository
	cache     Invalidator
	opts      Options
	logger    *log.Logger

	sleep func(ctx context.Context, d time.Duration)
}

func NewService(
	profiles repository.ProfileRepository,
	students repository.StudentRepository,
	companies repository.CompanyRepository,
	cache Invalidator,
	opts Options,
	logger *log.Logger,
) *Service {
	if opts.ProfileInsertAttempts <= 0 {
		opts.ProfileInsertAttempts = DefaultOptions().ProfileInsertAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultOptions().RetryDelay
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = DefaultOptions().SettleDelay
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		profiles:  profiles,
		students:  students,
		companies: companies,
		cache:     cache,
		opts:      opts,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// ProvisionStudent creates the student profile pair. The profile insert is
// a single attempt with the policy-repair fallback; students sign up far
// more often and their insert path has never tripped the permission layer
// the way the company path has.
func (s *Service) ProvisionStudent(ctx context.Context, in StudentInput) (uuid.UUID, error) {
	if in.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalidInput
	}

	existed, err := s.ensureProfile(ctx, in.UserID, profile.TypeStudent, 1)
	if err != nil {
		return uuid.Nil, err
	}

	if existed {
		if rec, err := s.students.GetByUserID(ctx, in.UserID); err == nil {
			return rec.ID, nil
		}
	}

	s.settle(ctx)

	roleID, err := s.students.Insert(ctx, repository.StudentInsert{
		UserID:     in.UserID,
		FullName:   in.FullName,
		University: in.University,
		Department: in.Department,
		Bio:        in.Bio,
		Skills:     in.Skills,
		AvatarURL:  in.AvatarURL,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrRoleRecordCreationFailed, err)
	}

	s.verifyStudent(ctx, in.UserID)
	s.invalidate(ctx, in.UserID)
	return roleID, nil
}

// ProvisionCompany creates the company profile pair with the full retry
// ladder on the profile insert.
func (s *Service) ProvisionCompany(ctx context.Context, in CompanyInput) (uuid.UUID, error) {
	if in.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalidInput
	}

	existed, err := s.ensureProfile(ctx, in.UserID, profile.TypeCompany, s.opts.ProfileInsertAttempts)
	if err != nil {
		return uuid.Nil, err
	}

	if existed {
		if rec, err := s.companies.GetByUserID(ctx, in.UserID); err == nil {
			return rec.ID, nil
		}
	}

	s.settle(ctx)

	roleID, err := s.companies.Insert(ctx, repository.CompanyInsert{
		UserID:      in.UserID,
		Name:        in.Name,
		Industry:    in.Industry,
		Location:    in.Location,
		Description: in.Description,
		LogoURL:     in.LogoURL,
		Website:     in.Website,
		Size:        in.Size,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrRoleRecordCreationFailed, err)
	}

	s.verifyCompany(ctx, in.UserID)
	s.invalidate(ctx, in.UserID)
	return roleID, nil
}

// ensureProfile writes the profile row unless one already exists. Returns
// whether a profile predated this call (the idempotency guard against
// retried registrations and the signed-in race).
func (s *Service) ensureProfile(ctx context.Context, userID uuid.UUID, t profile.Type, attempts int) (existed bool, err error) {
	if _, err := s.profiles.GetByUserID(ctx, userID); err == nil {
		s.logger.Printf("provision | profile already exists, skipping insert | user=%s", userID)
		return true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Printf("provision | profile pre-check failed, proceeding to insert | user=%s error=%v", userID, err)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			s.sleep(ctx, s.opts.RetryDelay)
		}

		_, err := s.profiles.Insert(ctx, userID, t)
		if err == nil {
			return false, nil
		}
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent provisioning attempt; the row
			// is there, which is all this step needs.
			return true, nil
		}
		lastErr = err
		s.logger.Printf("provision | profile insert attempt %d/%d failed | user=%s error=%v", attempt, attempts, userID, err)
	}

	// Direct inserts exhausted. Repair the row-level policies through the
	// privileged procedure and try once more.
	s.logger.Printf("provision | direct inserts exhausted, repairing policies | user=%s", userID)
	if err := s.profiles.RepairPolicies(ctx); err != nil {
		s.logger.Printf("provision | policy repair failed | user=%s error=%v", userID, err)
		return false, fmt.Errorf("%w: %w", ErrProfileCreationFailed, lastErr)
	}

	if _, err := s.profiles.Insert(ctx, userID, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return true, nil
		}
		return false, fmt.Errorf("%w: %w", ErrProfileCreationFailed, err)
	}
	return false, nil
}

func (s *Service) settle(ctx context.Context) {
	if s.opts.SettleDelay > 0 {
		s.sleep(ctx, s.opts.SettleDelay)
	}
}

func (s *Service) verifyStudent(ctx context.Context, userID uuid.UUID) {
	if _, err := s.students.GetByUserID(ctx, userID); err != nil {
		s.logger.Printf("provision | student verification failed (non-fatal) | user=%s error=%v", userID, err)
	}
}

func (s *Service) verifyCompany(ctx context.Context, userID uuid.UUID) {
	if _, err := s.companies.GetByUserID(ctx, userID); err != nil {
		s.logger.Printf("provision | company verification failed (non-fatal) | user=%s error=%v", userID, err)
	}
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, userID.String()); err != nil {
		s.logger.Printf("provision | cache invalidation failed | user=%s error=%v", userID, err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
