// Package company exposes the company's own profile plus the public
// company page, including logo upload.
package company

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"internmatch/internal/domain/profile"
	"internmatch/internal/repository"

	"github.com/google/uuid"
)

var ErrNoProfile = errors.New("company profile not found")

// LogoUploader stores the uploaded image and returns its public URL.
// storage.Uploader satisfies it.
type LogoUploader interface {
	UploadLogo(ctx context.Context, companyID uuid.UUID, filename, contentType string, body io.Reader) (string, error)
}

// Invalidator drops any cached profile view after a write.
type Invalidator interface {
	InvalidateProfile(ctx context.Context, userID string) error
}

type UpdateInput struct {
	Name        *string
	Industry    *string
	Location    *string
	Description *string
	Website     *string
	Size        *string
}

type Service struct {
	companies repository.CompanyRepository
	uploader  LogoUploader
	cache     Invalidator
	logger    *log.Logger
}

func NewService(companies repository.CompanyRepository, uploader LogoUploader, cache Invalidator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{companies: companies, uploader: uploader, cache: cache, logger: logger}
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (profile.CompanyRecord, error) {
	rec, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.CompanyRecord{}, ErrNoProfile
		}
		return profile.CompanyRecord{}, fmt.Errorf("get company: %w", err)
	}
	return rec, nil
}

// GetPublic is the company page students see.
func (s *Service) GetPublic(ctx context.Context, companyID uuid.UUID) (profile.CompanyRecord, error) {
	rec, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.CompanyRecord{}, ErrNoProfile
		}
		return profile.CompanyRecord{}, fmt.Errorf("get company: %w", err)
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (profile.CompanyRecord, error) {
	rec, err := s.Me(ctx, userID)
	if err != nil {
		return profile.CompanyRecord{}, err
	}

	updated, err := s.companies.Update(ctx, rec.ID, repository.CompanyUpdate{
		Name:        in.Name,
		Industry:    in.Industry,
		Location:    in.Location,
		Description: in.Description,
		Website:     in.Website,
		Size:        in.Size,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.CompanyRecord{}, ErrNoProfile
		}
		return profile.CompanyRecord{}, fmt.Errorf("update company: %w", err)
	}
	s.invalidate(ctx, userID)
	return updated, nil
}

// UploadLogo stores the image, then persists its URL on the record.
func (s *Service) UploadLogo(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("storage not configured")
	}
	rec, err := s.Me(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.uploader.UploadLogo(ctx, rec.ID, filename, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}
	if err := s.companies.SetLogoURL(ctx, rec.ID, url); err != nil {
		return "", fmt.Errorf("persist logo url: %w", err)
	}
	s.invalidate(ctx, userID)
	return url, nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, userID.String()); err != nil {
		s.logger.Printf("company | cache invalidation failed | user=%s error=%v", userID, err)
	}
}
