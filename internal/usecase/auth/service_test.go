package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"internmatch/internal/domain/identity"
	"internmatch/internal/infrastructure/oauth"
	"internmatch/internal/pkg/jwt"
	"internmatch/internal/session"
	"internmatch/internal/usecase/provision"

	"github.com/google/uuid"
)

type memUserRepo struct {
	byID map[uuid.UUID]identity.AuthUser
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[uuid.UUID]identity.AuthUser)}
}

func (m *memUserRepo) Create(_ context.Context, u identity.AuthUser) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (identity.AuthUser, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return identity.AuthUser{}, identity.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (identity.AuthUser, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return identity.AuthUser{}, identity.ErrNotFound
}

func (m *memUserRepo) GetByProvider(_ context.Context, provider, providerUserID string) (identity.AuthUser, error) {
	for _, u := range m.byID {
		if u.Provider == provider && u.ProviderUserID == providerUserID {
			return u, nil
		}
	}
	return identity.AuthUser{}, identity.ErrNotFound
}

func (m *memUserRepo) UpdateMetadata(_ context.Context, id uuid.UUID, md identity.Metadata) error {
	u, ok := m.byID[id]
	if !ok {
		return identity.ErrNotFound
	}
	u.Metadata = md
	m.byID[id] = u
	return nil
}

type memTokenStore struct {
	tokens map[uuid.UUID]string
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[uuid.UUID]string)}
}

func (m *memTokenStore) SaveRefreshToken(_ context.Context, userID uuid.UUID, token string, _ time.Duration) error {
	m.tokens[userID] = token
	return nil
}

func (m *memTokenStore) RefreshTokenMatches(_ context.Context, userID uuid.UUID, token string) (bool, error) {
	return m.tokens[userID] == token, nil
}

func (m *memTokenStore) RevokeRefreshToken(_ context.Context, userID uuid.UUID) error {
	delete(m.tokens, userID)
	return nil
}

type fakeProvisioner struct {
	studentCalls int
	companyCalls int
	err          error
}

func (f *fakeProvisioner) ProvisionStudent(context.Context, provision.StudentInput) (uuid.UUID, error) {
	f.studentCalls++
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return uuid.New(), nil
}

func (f *fakeProvisioner) ProvisionCompany(context.Context, provision.CompanyInput) (uuid.UUID, error) {
	f.companyCalls++
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return uuid.New(), nil
}

type fakeProvider struct {
	name string
	info oauth.UserInfo
	err  error
}

func (f fakeProvider) Name() string                 { return f.name }
func (f fakeProvider) LoginURL(state string) string { return "https://auth.test/login?state=" + state }

func (f fakeProvider) ExchangeCode(context.Context, string) (oauth.UserInfo, error) {
	return f.info, f.err
}

type fixture struct {
	svc         *Service
	users       *memUserRepo
	tokens      *memTokenStore
	provisioner *fakeProvisioner
	eventCh     <-chan session.Event
}

func newFixture(t *testing.T, providers ...oauth.Provider) *fixture {
	t.Helper()
	users := newMemUserRepo()
	tokens := newMemTokenStore()
	prov := &fakeProvisioner{}
	events := session.NewEvents(log.New(io.Discard, "", 0))
	ch, unsubscribe := events.Subscribe()
	t.Cleanup(unsubscribe)

	jwtSvc := jwt.NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	svc := NewService(users, tokens, jwtSvc, prov, oauth.NewRegistry(providers...), events, log.New(io.Discard, "", 0))
	return &fixture{svc: svc, users: users, tokens: tokens, provisioner: prov, eventCh: ch}
}

func (f *fixture) nextEvent(t *testing.T) session.Event {
	t.Helper()
	select {
	case ev := <-f.eventCh:
		return ev
	default:
		t.Fatalf("expected a published session event")
		return session.Event{}
	}
}

func TestRegisterStudent_ProvisionsAndSignsIn(t *testing.T) {
	f := newFixture(t)

	sess, err := f.svc.RegisterStudent(context.Background(), RegisterStudentInput{
		Email:    "Jane@Example.com",
		Password: "correct-horse",
		FullName: "Jane Doe",
	})
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	if f.provisioner.studentCalls != 1 {
		t.Fatalf("expected one provisioning call, got %d", f.provisioner.studentCalls)
	}
	if sess.Email != "jane@example.com" {
		t.Fatalf("email not normalized: %q", sess.Email)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}

	ev := f.nextEvent(t)
	if ev.Kind != session.EventSignedIn || ev.Session.UserID != sess.UserID {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRegisterStudent_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	in := RegisterStudentInput{Email: "jane@example.com", Password: "correct-horse", FullName: "Jane"}

	if _, err := f.svc.RegisterStudent(context.Background(), in); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := f.svc.RegisterStudent(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterStudent_InputValidation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.RegisterStudent(context.Background(), RegisterStudentInput{Email: "jane@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
	if _, err := f.svc.RegisterStudent(context.Background(), RegisterStudentInput{Email: "not-an-email", Password: "correct-horse"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("err = %v, want ErrInvalidEmail", err)
	}
}

func TestRegisterCompany_ProvisionsCompany(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		Email:       "hr@acme.test",
		Password:    "correct-horse",
		CompanyName: "Acme",
	}); err != nil {
		t.Fatalf("RegisterCompany: %v", err)
	}
	if f.provisioner.companyCalls != 1 || f.provisioner.studentCalls != 0 {
		t.Fatalf("wrong provisioning: student=%d company=%d", f.provisioner.studentCalls, f.provisioner.companyCalls)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.RegisterStudent(context.Background(), RegisterStudentInput{
		Email: "jane@example.com", Password: "correct-horse", FullName: "Jane",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.svc.Login(context.Background(), "jane@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := f.svc.Login(context.Background(), "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}

	if _, err := f.svc.Login(context.Background(), "jane@example.com", "correct-horse"); err != nil {
		t.Fatalf("valid login: %v", err)
	}
}

func TestRefresh_RotatesPair(t *testing.T) {
	f := newFixture(t)
	sess, err := f.svc.RegisterStudent(context.Background(), RegisterStudentInput{
		Email: "jane@example.com", Password: "correct-horse", FullName: "Jane",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	f.nextEvent(t)

	renewed, err := f.svc.Refresh(context.Background(), sess.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if renewed.UserID != sess.UserID {
		t.Fatalf("refresh changed user: %s != %s", renewed.UserID, sess.UserID)
	}
	if ev := f.nextEvent(t); ev.Kind != session.EventTokenRefreshed {
		t.Fatalf("event = %s, want TOKEN_REFRESHED", ev.Kind)
	}

	// The old token was superseded by the rotation.
	if renewed.RefreshToken != sess.RefreshToken {
		if _, err := f.svc.Refresh(context.Background(), sess.RefreshToken); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("superseded token: err = %v, want ErrInvalidToken", err)
		}
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Refresh(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestLogout_RevokesRefresh(t *testing.T) {
	f := newFixture(t)
	sess, err := f.svc.RegisterStudent(context.Background(), RegisterStudentInput{
		Email: "jane@example.com", Password: "correct-horse", FullName: "Jane",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	f.nextEvent(t)

	if err := f.svc.Logout(context.Background(), sess.UserID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if ev := f.nextEvent(t); ev.Kind != session.EventSignedOut {
		t.Fatalf("event = %s, want SIGNED_OUT", ev.Kind)
	}
	if _, err := f.svc.Refresh(context.Background(), sess.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token: err = %v, want ErrInvalidToken", err)
	}
}

func TestOAuthCallback_FirstLoginCreatesAccountNotProfile(t *testing.T) {
	provider := fakeProvider{name: "github", info: oauth.UserInfo{
		Provider:          "github",
		ProviderUserID:    "gh-123",
		Email:             "jdoe@example.com",
		PreferredUsername: "jdoe42",
	}}
	f := newFixture(t, provider)

	sess, err := f.svc.OAuthCallback(context.Background(), "github", "code-abc")
	if err != nil {
		t.Fatalf("OAuthCallback: %v", err)
	}
	if f.provisioner.studentCalls+f.provisioner.companyCalls != 0 {
		t.Fatalf("callback must not provision; that is the orchestrator's job")
	}
	if sess.Metadata.Get("preferred_username") != "jdoe42" {
		t.Fatalf("metadata not carried: %+v", sess.Metadata)
	}
	if ev := f.nextEvent(t); ev.Kind != session.EventSignedIn {
		t.Fatalf("event = %s, want SIGNED_IN", ev.Kind)
	}

	// Second callback resolves to the same account.
	again, err := f.svc.OAuthCallback(context.Background(), "github", "code-def")
	if err != nil {
		t.Fatalf("second callback: %v", err)
	}
	if again.UserID != sess.UserID {
		t.Fatalf("same provider identity produced a new account")
	}
}

func TestOAuthCallback_UnknownProvider(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.OAuthCallback(context.Background(), "myspace", "code"); !errors.Is(err, oauth.ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestResetPassword_SilentForUnknownEmail(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.ResetPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("reset must not reveal unknown emails: %v", err)
	}
}
