// Package resolver turns a user id into a typed profile view. Resolution
// fails soft: every lookup problem is logged and collapsed into a nil view
// so callers always have a defined value to branch on.
package resolver

import (
	"context"
	"errors"
	"log"
	"time"

	"internmatch/internal/domain/profile"
	"internmatch/internal/infrastructure/cache"
	"internmatch/internal/repository"

	"github.com/google/uuid"
)

const viewCacheTTL = 5 * time.Minute

// Sink receives the resolved view so the orchestrator's local cache stays
// in step with resolution. A nil view clears the cached entry.
type Sink interface {
	SetProfile(userID uuid.UUID, v *profile.View)
}

// ViewCache is the optional shared-cache mirror; cache.Redis satisfies it.
type ViewCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	profiles  repository.ProfileRepository
	students  repository.StudentRepository
	companies repository.CompanyRepository
	views     ViewCache
	sink      Sink
	logger    *log.Logger
}

func NewService(
	profiles repository.ProfileRepository,
	students repository.StudentRepository,
	companies repository.CompanyRepository,
	views ViewCache,
	logger *log.Logger,
) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		profiles:  profiles,
		students:  students,
		companies: companies,
		views:     views,
		logger:    logger,
	}
}

// SetSink attaches the orchestrator cache. Wired after construction because
// the orchestrator and resolver reference each other.
func (s *Service) SetSink(sink Sink) {
	s.sink = sink
}

// Resolve looks up the profile row and its role record. A missing profile
// row means "new user, needs provisioning" and yields nil; a missing role
// record under an existing profile is logged as an inconsistency but still
// yields a view, because the profile row alone decides routing.
func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) *profile.View {
	if userID == uuid.Nil {
		s.emit(userID, nil)
		return nil
	}

	if v, ok := s.cachedView(ctx, userID); ok {
		s.emit(userID, v)
		return v
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Printf("resolver | profile lookup failed | user=%s error=%v", userID, err)
		}
		s.emit(userID, nil)
		return nil
	}

	v := &profile.View{ProfileID: p.ID, UserID: userID, Type: p.Type}

	switch p.Type {
	case profile.TypeStudent:
		rec, err := s.students.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Printf("resolver | student record missing for profile | user=%s error=%v", userID, err)
		} else {
			v.RoleID = rec.ID
		}
	case profile.TypeCompany:
		rec, err := s.companies.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Printf("resolver | company record missing for profile | user=%s error=%v", userID, err)
		} else {
			v.RoleID = rec.ID
		}
	default:
		s.logger.Printf("resolver | unknown profile type | user=%s type=%q", userID, p.Type)
		s.emit(userID, nil)
		return nil
	}

	s.storeView(ctx, userID, v)
	s.emit(userID, v)
	return v
}

// HasProfileRow is the defensive direct check the orchestrator runs before
// provisioning a first-time social login; it skips the cache on purpose.
func (s *Service) HasProfileRow(ctx context.Context, userID uuid.UUID) bool {
	_, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Printf("resolver | direct profile check failed | user=%s error=%v", userID, err)
	}
	return false
}

func (s *Service) cachedView(ctx context.Context, userID uuid.UUID) (*profile.View, bool) {
	if s.views == nil {
		return nil, false
	}
	var v profile.View
	found, err := s.views.GetJSON(ctx, cache.ProfileViewKey(userID.String()), &v)
	if err != nil || !found {
		return nil, false
	}
	if !v.Type.Valid() {
		return nil, false
	}
	return &v, true
}

func (s *Service) storeView(ctx context.Context, userID uuid.UUID, v *profile.View) {
	if s.views == nil || v == nil {
		return
	}
	if err := s.views.SetJSON(ctx, cache.ProfileViewKey(userID.String()), v, viewCacheTTL); err != nil {
		s.logger.Printf("resolver | view cache write failed | user=%s error=%v", userID, err)
	}
}

func (s *Service) emit(userID uuid.UUID, v *profile.View) {
	if s.sink != nil {
		s.sink.SetProfile(userID, v)
	}
}
