// Package internship covers the company-side posting lifecycle and the
// public listing students browse.
package internship

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"internmatch/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("internship not found")
	ErrNotCompany   = errors.New("user has no company profile")
	ErrNotOwner     = errors.New("internship belongs to another company")
	ErrInvalidInput = errors.New("invalid internship input")
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

type CreateInput struct {
	Title       string
	Description string
	Location    string
	IsRemote    bool
	Duration    string
	Deadline    *time.Time
}

type Service struct {
	internships repository.InternshipRepository
	companies   repository.CompanyRepository
	logger      *log.Logger
}

func NewService(
	internships repository.InternshipRepository,
	companies repository.CompanyRepository,
	logger *log.Logger,
) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{internships: internships, companies: companies, logger: logger}
}

// Create posts a new internship for the company behind userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (repository.Internship, error) {
	company, err := s.companyOf(ctx, userID)
	if err != nil {
		return repository.Internship{}, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return repository.Internship{}, fmt.Errorf("%w: title required", ErrInvalidInput)
	}
	if in.Deadline != nil && in.Deadline.Before(time.Now()) {
		return repository.Internship{}, fmt.Errorf("%w: deadline in the past", ErrInvalidInput)
	}

	id, err := s.internships.Insert(ctx, repository.InternshipInsert{
		CompanyID:   company,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		IsRemote:    in.IsRemote,
		Duration:    in.Duration,
		Deadline:    in.Deadline,
	})
	if err != nil {
		return repository.Internship{}, fmt.Errorf("insert internship: %w", err)
	}

	s.logger.Printf("internship | posted | id=%s company=%s", id, company)
	return s.internships.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Internship, error) {
	it, err := s.internships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Internship{}, ErrNotFound
		}
		return repository.Internship{}, fmt.Errorf("get internship: %w", err)
	}
	return it, nil
}

func (s *Service) List(ctx context.Context, f repository.InternshipFilter) ([]repository.Internship, error) {
	return s.internships.List(ctx, f)
}

// ListMine lists the postings of the caller's company, any status.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]repository.Internship, error) {
	company, err := s.companyOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.internships.List(ctx, repository.InternshipFilter{CompanyID: company})
}

// Close stops a posting from accepting applications.
func (s *Service) Close(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	return s.internships.UpdateStatus(ctx, id, StatusClosed)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	return s.internships.Delete(ctx, id)
}

func (s *Service) companyOf(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	rec, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, ErrNotCompany
		}
		return uuid.Nil, fmt.Errorf("company lookup: %w", err)
	}
	return rec.ID, nil
}

func (s *Service) authorize(ctx context.Context, userID, internshipID uuid.UUID) error {
	company, err := s.companyOf(ctx, userID)
	if err != nil {
		return err
	}
	it, err := s.internships.GetByID(ctx, internshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get internship: %w", err)
	}
	if it.CompanyID != company {
		return ErrNotOwner
	}
	return nil
}
