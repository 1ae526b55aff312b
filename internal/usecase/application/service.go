// Package application handles students applying to internships and
// companies reviewing those applications.
package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	"internmatch/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrNotStudent     = errors.New("user has no student profile")
	ErrNotCompany     = errors.New("user has no company profile")
	ErrNotOwner       = errors.New("internship belongs to another company")
	ErrAlreadyApplied = errors.New("already applied to this internship")
	ErrInternshipGone = errors.New("internship not found")
	ErrNotOpen        = errors.New("internship is not accepting applications")
	ErrInvalidStatus  = errors.New("invalid application status")
)

var allowedStatuses = map[string]struct{}{
	"pending":  {},
	"reviewed": {},
	"accepted": {},
	"rejected": {},
}

type Service struct {
	applications repository.ApplicationRepository
	internships  repository.InternshipRepository
	students     repository.StudentRepository
	companies    repository.CompanyRepository
	logger       *log.Logger
}

func NewService(
	applications repository.ApplicationRepository,
	internships repository.InternshipRepository,
	students repository.StudentRepository,
	companies repository.CompanyRepository,
	logger *log.Logger,
) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		applications: applications,
		internships:  internships,
		students:     students,
		companies:    companies,
		logger:       logger,
	}
}

// Apply submits an application from the student behind userID.
func (s *Service) Apply(ctx context.Context, userID, internshipID uuid.UUID, coverLetter string) (repository.Application, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Application{}, ErrNotStudent
		}
		return repository.Application{}, fmt.Errorf("student lookup: %w", err)
	}

	it, err := s.internships.GetByID(ctx, internshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Application{}, ErrInternshipGone
		}
		return repository.Application{}, fmt.Errorf("internship lookup: %w", err)
	}
	if it.Status != "open" {
		return repository.Application{}, ErrNotOpen
	}

	id, err := s.applications.Insert(ctx, internshipID, student.ID, coverLetter)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return repository.Application{}, ErrAlreadyApplied
		}
		return repository.Application{}, fmt.Errorf("insert application: %w", err)
	}

	s.logger.Printf("application | submitted | id=%s internship=%s student=%s", id, internshipID, student.ID)
	return s.applications.GetByID(ctx, id)
}

// ListForStudent returns the caller's own applications.
func (s *Service) ListForStudent(ctx context.Context, userID uuid.UUID) ([]repository.Application, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotStudent
		}
		return nil, fmt.Errorf("student lookup: %w", err)
	}
	return s.applications.ListByStudent(ctx, student.ID)
}

// ListForInternship returns applications for a posting owned by the
// caller's company.
func (s *Service) ListForInternship(ctx context.Context, userID, internshipID uuid.UUID) ([]repository.Application, error) {
	if err := s.authorizeCompany(ctx, userID, internshipID); err != nil {
		return nil, err
	}
	return s.applications.ListByInternship(ctx, internshipID)
}

// UpdateStatus moves an application through the review pipeline.
func (s *Service) UpdateStatus(ctx context.Context, userID, applicationID uuid.UUID, status string) error {
	if _, ok := allowedStatuses[status]; !ok {
		return ErrInvalidStatus
	}

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get application: %w", err)
	}
	if err := s.authorizeCompany(ctx, userID, app.InternshipID); err != nil {
		return err
	}

	return s.applications.UpdateStatus(ctx, applicationID, status)
}

func (s *Service) authorizeCompany(ctx context.Context, userID, internshipID uuid.UUID) error {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotCompany
		}
		return fmt.Errorf("company lookup: %w", err)
	}

	it, err := s.internships.GetByID(ctx, internshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInternshipGone
		}
		return fmt.Errorf("internship lookup: %w", err)
	}
	if it.CompanyID != company.ID {
		return ErrNotOwner
	}
	return nil
}
