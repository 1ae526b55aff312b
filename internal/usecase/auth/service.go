// Package auth implements account lifecycle: credential and social sign-up,
// sign-in, token refresh, and sign-out. Every state change is published on
// the session event bus so the orchestrator can react.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"internmatch/internal/domain/identity"
	"internmatch/internal/infrastructure/oauth"
	"internmatch/internal/pkg/jwt"
	"internmatch/internal/session"
	"internmatch/internal/usecase/provision"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or revoked token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
)

type RegisterStudentInput struct {
	Email      string
	Password   string
	FullName   string
	University string
	Department string
}

type RegisterCompanyInput struct {
	Email       string
	Password    string
	CompanyName string
	Industry    string
	Location    string
}

type Service struct {
	users       identity.Repository
	tokens      session.TokenStore
	jwt         jwt.Service
	provisioner provision.Provisioner
	providers   *oauth.Registry
	events      *session.Events
	logger      *log.Logger
}

func NewService(
	users identity.Repository,
	tokens session.TokenStore,
	jwtSvc jwt.Service,
	provisioner provision.Provisioner,
	providers *oauth.Registry,
	events *session.Events,
	logger *log.Logger,
) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		users:       users,
		tokens:      tokens,
		jwt:         jwtSvc,
		provisioner: provisioner,
		providers:   providers,
		events:      events,
		logger:      logger,
	}
}

// RegisterStudent creates the account, provisions the student profile pair,
// and signs the user in. Provisioning errors surface to the caller; the
// account itself stays, so a retried registration hits the email guard and
// the provisioner's idempotency guard instead of duplicating rows.
func (s *Service) RegisterStudent(ctx context.Context, in RegisterStudentInput) (identity.Session, error) {
	u, err := s.createAccount(ctx, in.Email, in.Password, identity.Metadata{"full_name": in.FullName})
	if err != nil {
		return identity.Session{}, err
	}

	if _, err := s.provisioner.ProvisionStudent(ctx, provision.StudentInput{
		UserID:     u.ID,
		FullName:   in.FullName,
		University: in.University,
		Department: in.Department,
	}); err != nil {
		return identity.Session{}, err
	}

	return s.signIn(ctx, u, session.EventSignedIn)
}

// RegisterCompany is the company-side counterpart of RegisterStudent.
func (s *Service) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (identity.Session, error) {
	u, err := s.createAccount(ctx, in.Email, in.Password, identity.Metadata{"full_name": in.CompanyName})
	if err != nil {
		return identity.Session{}, err
	}

	if _, err := s.provisioner.ProvisionCompany(ctx, provision.CompanyInput{
		UserID:   u.ID,
		Name:     in.CompanyName,
		Industry: in.Industry,
		Location: in.Location,
	}); err != nil {
		return identity.Session{}, err
	}

	return s.signIn(ctx, u, session.EventSignedIn)
}

func (s *Service) Login(ctx context.Context, email, password string) (identity.Session, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.Session{}, ErrInvalidCredentials
		}
		return identity.Session{}, fmt.Errorf("login lookup: %w", err)
	}
	if u.PasswordHash == "" {
		// Social-only account; no password to check against.
		return identity.Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return identity.Session{}, ErrInvalidCredentials
	}

	return s.signIn(ctx, u, session.EventSignedIn)
}

// Refresh trades a valid refresh token for a new token pair. The stored
// token must match: a revoked or superseded token is rejected even when its
// signature still verifies.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (identity.Session, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return identity.Session{}, ErrInvalidToken
	}

	ok, err := s.tokens.RefreshTokenMatches(ctx, claims.UserID, refreshToken)
	if err != nil {
		return identity.Session{}, fmt.Errorf("refresh token check: %w", err)
	}
	if !ok {
		return identity.Session{}, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.Session{}, ErrInvalidToken
		}
		return identity.Session{}, fmt.Errorf("refresh lookup: %w", err)
	}

	return s.signIn(ctx, u, session.EventTokenRefreshed)
}

// LoginURL builds the provider authorization URL for the social flow.
func (s *Service) LoginURL(provider, state string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}
	return p.LoginURL(state), nil
}

// OAuthCallback finishes the social flow: exchange the code, find or create
// the account, sign in. No profile work here; a first-time social login is
// detected and provisioned by the orchestrator after the SIGNED_IN event.
func (s *Service) OAuthCallback(ctx context.Context, provider, code string) (identity.Session, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return identity.Session{}, err
	}

	info, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return identity.Session{}, fmt.Errorf("code exchange with %s: %w", provider, err)
	}

	u, err := s.users.GetByProvider(ctx, info.Provider, info.ProviderUserID)
	switch {
	case err == nil:
		// Known account; refresh the metadata the provider reported.
		md := socialMetadata(info)
		if len(md) > 0 {
			if err := s.users.UpdateMetadata(ctx, u.ID, md); err != nil {
				s.logger.Printf("auth | metadata refresh failed | user=%s error=%v", u.ID, err)
			} else {
				u.Metadata = md
			}
		}
	case errors.Is(err, identity.ErrNotFound):
		u = identity.AuthUser{
			ID:             uuid.New(),
			Email:          normalizeEmail(info.Email),
			Provider:       info.Provider,
			ProviderUserID: info.ProviderUserID,
			Metadata:       socialMetadata(info),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return identity.Session{}, fmt.Errorf("create social account: %w", err)
		}
		s.logger.Printf("auth | social account created | user=%s provider=%s", u.ID, provider)
	default:
		return identity.Session{}, fmt.Errorf("provider lookup: %w", err)
	}

	return s.signIn(ctx, u, session.EventSignedIn)
}

func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RevokeRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	s.publish(session.EventSignedOut, identity.Session{UserID: userID})
	return nil
}

// UpdateMetadata persists new account attributes and announces the change.
func (s *Service) UpdateMetadata(ctx context.Context, userID uuid.UUID, md identity.Metadata) error {
	if err := s.users.UpdateMetadata(ctx, userID, md); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("reload account: %w", err)
	}
	s.publish(session.EventUserUpdated, identity.Session{UserID: u.ID, Email: u.Email, Metadata: u.Metadata})
	return nil
}

// ResetPassword issues a reset token. Delivery is a logging stub; the
// response is identical whether or not the email exists.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			s.logger.Printf("auth | password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("reset lookup: %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("reset token: %w", err)
	}
	s.logger.Printf("auth | password reset token issued | email=%s token=%s", email, hex.EncodeToString(buf))
	return nil
}

func (s *Service) createAccount(ctx context.Context, email, password string, md identity.Metadata) (identity.AuthUser, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return identity.AuthUser{}, ErrInvalidEmail
	}
	if len(password) < 8 {
		return identity.AuthUser{}, ErrWeakPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return identity.AuthUser{}, ErrEmailTaken
	} else if !errors.Is(err, identity.ErrNotFound) {
		return identity.AuthUser{}, fmt.Errorf("email check: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return identity.AuthUser{}, fmt.Errorf("hash password: %w", err)
	}

	u := identity.AuthUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     md,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return identity.AuthUser{}, fmt.Errorf("create account: %w", err)
	}
	return u, nil
}

// signIn issues the token pair, persists the refresh token, and publishes
// the given lifecycle event.
func (s *Service) signIn(ctx context.Context, u identity.AuthUser, kind session.EventKind) (identity.Session, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return identity.Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return identity.Session{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.SaveRefreshToken(ctx, u.ID, refresh, s.jwt.RefreshTTL()); err != nil {
		return identity.Session{}, fmt.Errorf("persist refresh token: %w", err)
	}

	claims, err := s.jwt.ValidateAccessToken(access)
	if err != nil {
		return identity.Session{}, fmt.Errorf("validate issued token: %w", err)
	}

	sess := identity.Session{
		UserID:       u.ID,
		Email:        u.Email,
		Metadata:     u.Metadata,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt.Time,
	}
	s.publish(kind, sess)
	return sess, nil
}

func (s *Service) publish(kind session.EventKind, sess identity.Session) {
	if s.events != nil {
		s.events.Publish(session.Event{Kind: kind, Session: sess})
	}
}

func socialMetadata(info oauth.UserInfo) identity.Metadata {
	md := identity.Metadata{}
	if info.FullName != "" {
		md["full_name"] = info.FullName
	}
	if info.Name != "" {
		md["name"] = info.Name
	}
	if info.PreferredUsername != "" {
		md["preferred_username"] = info.PreferredUsername
	}
	return md
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
