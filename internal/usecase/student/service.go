// Package student exposes the student's own profile: reading, editing,
// project management, and avatar upload.
package student

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

var ErrNoProfile = errors.New("student profile not found")

// AvatarUploader stores the uploaded image and returns its public URL.
// storage.Uploader satisfies it.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (string, error)
}

// Invalidator drops any cached profile view after a write.
type Invalidator interface {
	InvalidateProfile(ctx context.Context, userID string) error
}

type UpdateInput struct {
	FullName   *string
	University *string
	Department *string
	Bio        *string
	Skills     []string
}

type Service struct {
	students repository.StudentRepository
	uploader AvatarUploader
	cache    Invalidator
	logger   *log.Logger
}

func NewService(students repository.StudentRepository, uploader AvatarUploader, cache Invalidator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{students: students, uploader: uploader, cache: cache, logger: logger}
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (profile.StudentRecord, error) {
	rec, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.StudentRecord{}, ErrNoProfile
		}
		return profile.StudentRecord{}, fmt.Errorf("get student: %w", err)
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (profile.StudentRecord, error) {
	rec, err := s.students.Update(ctx, userID, repository.StudentUpdate{
		FullName:   in.FullName,
		University: in.University,
		Department: in.Department,
		Bio:        in.Bio,
		Skills:     in.Skills,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.StudentRecord{}, ErrNoProfile
		}
		return profile.StudentRecord{}, fmt.Errorf("update student: %w", err)
	}
	s.invalidate(ctx, userID)
	return rec, nil
}

func (s *Service) ReplaceProjects(ctx context.Context, userID uuid.UUID, projects []profile.Project) (profile.StudentRecord, error) {
	rec, err := s.students.ReplaceProjects(ctx, userID, projects)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.StudentRecord{}, ErrNoProfile
		}
		return profile.StudentRecord{}, fmt.Errorf("replace projects: %w", err)
	}
	s.invalidate(ctx, userID)
	return rec, nil
}

// UploadAvatar stores the image, then persists its URL on the record.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("storage not configured")
	}
	if _, err := s.Me(ctx, userID); err != nil {
		return "", err
	}

	url, err := s.uploader.UploadAvatar(ctx, userID, filename, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.students.SetAvatarURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("persist avatar url: %w", err)
	}
	s.invalidate(ctx, userID)
	return url, nil
}

// Search is the company-facing candidate lookup.
func (s *Service) Search(ctx context.Context, query string, skills []string, limit int) ([]profile.StudentRecord, error) {
	return s.students.Search(ctx, query, skills, limit)
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, userID.String()); err != nil {
		s.logger.Printf("student | cache invalidation failed | user=%s error=%v", userID, err)
	}
}
