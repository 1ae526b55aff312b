// Package orchestrator reacts to session lifecycle events: it resolves the
// signed-in user's profile, provisions a default student profile on a first
// social login, and tells the delivery layer where to route the client.
package orchestrator

import (
	"context"
	"errors"
	"log"
	"time"

	"internmatch/internal/domain/profile"
	"internmatch/internal/session"
	"internmatch/internal/usecase/provision"

	"github.com/google/uuid"
)

const (
	RouteLanding          = "/"
	RouteStudentDashboard = "/student-dashboard"
	RouteCompanyDashboard = "/company-dashboard"
)

// profilePlaceholder seeds the fields a first social login cannot fill,
// so the complete-your-profile nudge has something visible to point at.
const profilePlaceholder = "Please update"

// Resolver is the slice of the profile resolver the orchestrator needs.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) *profile.View
	HasProfileRow(ctx context.Context, userID uuid.UUID) bool
}

// Navigator receives the route a user should land on after an event.
type Navigator interface {
	Navigate(userID uuid.UUID, route string)
}

// Notifier surfaces user-facing notices (profile nudges, failures).
type Notifier interface {
	Notify(userID uuid.UUID, message string)
}

// SessionSource yields a previously persisted session for startup hydration,
// if one exists. May be nil when the deployment has no such store.
type SessionSource interface {
	Current(ctx context.Context) (session.Event, bool)
}

type Orchestrator struct {
	events      *session.Events
	resolver    Resolver
	provisioner provision.Provisioner
	cache       *LocalProfileCache
	nav         Navigator
	notifier    Notifier
	source      SessionSource
	settleDelay time.Duration
	logger      *log.Logger

	sleep func(ctx context.Context, d time.Duration)
}

func New(
	events *session.Events,
	resolver Resolver,
	provisioner provision.Provisioner,
	cache *LocalProfileCache,
	nav Navigator,
	notifier Notifier,
	settleDelay time.Duration,
	logger *log.Logger,
) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		events:      events,
		resolver:    resolver,
		provisioner: provisioner,
		cache:       cache,
		nav:         nav,
		notifier:    notifier,
		settleDelay: settleDelay,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// SetSessionSource attaches an optional startup-hydration source.
func (o *Orchestrator) SetSessionSource(src SessionSource) {
	o.source = src
}

// Run subscribes to the event bus and processes events until ctx is done.
// The subscription is released on return, so a restarted orchestrator does
// not leak channels on the bus.
func (o *Orchestrator) Run(ctx context.Context) {
	ch, unsubscribe := o.events.Subscribe()
	defer unsubscribe()

	o.hydrate(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			o.handle(ctx, ev)
		}
	}
}

// hydrate restores cache state from a persisted session. No navigation: a
// returning user stays wherever they were.
func (o *Orchestrator) hydrate(ctx context.Context) {
	if o.source == nil {
		return
	}
	ev, ok := o.source.Current(ctx)
	if !ok {
		return
	}
	o.cache.SetSession(ev.Session)
	o.resolver.Resolve(ctx, ev.Session.UserID)
	o.logger.Printf("orchestrator | session restored | user=%s", ev.Session.UserID)
}

func (o *Orchestrator) handle(ctx context.Context, ev session.Event) {
	switch ev.Kind {
	case session.EventSignedIn:
		o.handleSignedIn(ctx, ev)
	case session.EventTokenRefreshed, session.EventUserUpdated:
		o.cache.SetSession(ev.Session)
	case session.EventSignedOut:
		o.handleSignedOut(ev)
	default:
		o.logger.Printf("orchestrator | ignoring unknown event | kind=%s", ev.Kind)
	}
}

// handleSignedIn waits out the settle delay (registration writes may still
// be landing), resolves the profile, and routes. A user with no profile row
// after a direct re-check is a first social login: provision them as a
// student and send them to complete their profile.
func (o *Orchestrator) handleSignedIn(ctx context.Context, ev session.Event) {
	o.cache.SetSession(ev.Session)
	userID := ev.Session.UserID

	if o.settleDelay > 0 {
		o.sleep(ctx, o.settleDelay)
	}

	if v := o.resolver.Resolve(ctx, userID); v != nil {
		o.navigateByType(userID, v.Type)
		return
	}

	if o.resolver.HasProfileRow(ctx, userID) {
		// The resolver saw a transient failure but the row is there; resolve
		// again rather than provisioning on top of an existing profile.
		if v := o.resolver.Resolve(ctx, userID); v != nil {
			o.navigateByType(userID, v.Type)
			return
		}
		o.logger.Printf("orchestrator | profile row present but unresolvable | user=%s", userID)
		o.notify(userID, "We could not load your profile. Please try again.")
		return
	}

	name := DisplayName(ev.Session.Metadata, ev.Session.Email)
	o.logger.Printf("orchestrator | first sign-in, provisioning student profile | user=%s name=%q", userID, name)

	if _, err := o.provisioner.ProvisionStudent(ctx, provision.StudentInput{
		UserID:     userID,
		FullName:   name,
		University: profilePlaceholder,
		Department: profilePlaceholder,
	}); err != nil {
		o.logger.Printf("orchestrator | provisioning failed | user=%s error=%v", userID, err)
		o.notify(userID, provisionFailureNotice(err))
		return
	}

	o.resolver.Resolve(ctx, userID)
	o.notify(userID, "Welcome! Please complete your profile.")
	o.nav.Navigate(userID, RouteStudentDashboard)
}

func (o *Orchestrator) handleSignedOut(ev session.Event) {
	o.cache.Clear()
	o.nav.Navigate(ev.Session.UserID, RouteLanding)
}

func (o *Orchestrator) navigateByType(userID uuid.UUID, t profile.Type) {
	switch t {
	case profile.TypeStudent:
		o.nav.Navigate(userID, RouteStudentDashboard)
	case profile.TypeCompany:
		o.nav.Navigate(userID, RouteCompanyDashboard)
	}
}

func (o *Orchestrator) notify(userID uuid.UUID, message string) {
	if o.notifier != nil {
		o.notifier.Notify(userID, message)
	}
}

func provisionFailureNotice(err error) string {
	switch {
	case errors.Is(err, provision.ErrRoleRecordCreationFailed):
		return "Your account was created but the profile setup did not finish. Please complete it from settings."
	case errors.Is(err, provision.ErrProfileCreationFailed):
		return "We could not set up your profile. Please try again."
	default:
		return "Something went wrong while setting up your account."
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
