package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/guard"
	"github.com/willfong/bankfront/internal/models"
	"go.uber.org/zap"
)

// AuthBackend is the part of the backend the manager talks to
type AuthBackend interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (api.UserProfile, error)
}

// EventKind identifies a principal change
type EventKind int

const (
	EventReady EventKind = iota
	EventSignedIn
	EventSignedOut
	EventExpired
	EventUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	case EventExpired:
		return "expired"
	case EventUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after each change
type Event struct {
	Kind      EventKind
	Principal models.Principal
	// RedirectTo is set when the change signed the user out
	RedirectTo string
}

// Manager owns the principal. All other components read it through Current.
type Manager struct {
	mu        sync.Mutex
	store     Store
	backend   AuthBackend
	log       *zap.SugaredLogger
	now       func() time.Time
	principal models.Principal
	ready     bool

	listeners map[int]func(Event)
	nextID    int
}

// NewManager creates a manager over store and backend. Call Initialize before use.
func NewManager(store Store, backend AuthBackend, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		store:     store,
		backend:   backend,
		log:       log,
		now:       time.Now,
		principal: models.SignedOut(),
		listeners: make(map[int]func(Event)),
	}
}

// Initialize restores the principal from the store. An absent, malformed or
// expired record leaves the session signed out; a bad record is removed.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	m.principal = m.restoreLocked(ctx)
	m.ready = true
	p := m.principal
	m.mu.Unlock()

	m.log.Debugw("session initialized", "kind", p.Kind, "user_id", p.UserID)
	m.notify(Event{Kind: EventReady, Principal: p})
}

func (m *Manager) restoreLocked(ctx context.Context) models.Principal {
	raw, err := m.store.Load(ctx)
	if errors.Is(err, ErrNoRecord) {
		return models.SignedOut()
	}
	if err != nil {
		m.log.Warnw("session store unavailable", "error", err)
		return models.SignedOut()
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		m.log.Warnw("discarding session record", "error", err)
		m.clearLocked(ctx)
		return models.SignedOut()
	}

	p := rec.Principal()
	if p.TokenExpired(m.now()) {
		m.log.Infow("discarding expired session", "user_id", p.UserID, "expired_at", p.TokenExpiry)
		m.clearLocked(ctx)
		return models.SignedOut()
	}
	return p
}

// ErrKindMismatch is returned by LoginAs when the account has another role
var ErrKindMismatch = errors.New("account role does not match")

// Login authenticates and persists the new principal. On failure the previous
// principal is left as it was.
func (m *Manager) Login(ctx context.Context, creds api.Credentials) (models.Principal, error) {
	return m.login(ctx, creds, nil)
}

// LoginAs is Login for an entry point that admits only one kind of principal.
// An account of another kind is refused before anything is persisted.
func (m *Manager) LoginAs(ctx context.Context, creds api.Credentials, kind models.PrincipalKind) (models.Principal, error) {
	return m.login(ctx, creds, &kind)
}

func (m *Manager) login(ctx context.Context, creds api.Credentials, want *models.PrincipalKind) (models.Principal, error) {
	resp, err := m.backend.Login(ctx, creds)
	if err != nil {
		m.log.Infow("login rejected", "identifier", creds.Identifier, "error", err)
		return models.Principal{}, err
	}
	if resp.Token == "" {
		return models.Principal{}, fmt.Errorf("%w: login response carried no token", api.ErrAuthenticationFailed)
	}

	rec := Record{
		UserID:        resp.UserID,
		Username:      resp.Username,
		Name:          resp.Name,
		Role:          models.Role(resp.Role),
		Token:         resp.Token,
		AccountStatus: resp.AccountStatus,
		CreatedTime:   resp.CreatedTime,
		LastLoginTime: resp.LastLoginTime,
	}
	p := rec.Principal()
	if want != nil && p.Kind != *want {
		m.log.Infow("login refused for role", "user_id", p.UserID, "kind", p.Kind, "want", *want)
		return models.Principal{}, fmt.Errorf("%w: %s is not %s", ErrKindMismatch, p.Kind, *want)
	}

	m.mu.Lock()
	if err := m.persistLocked(ctx, p); err != nil {
		m.mu.Unlock()
		return models.Principal{}, err
	}
	m.principal = p
	m.ready = true
	m.mu.Unlock()

	m.log.Infow("signed in", "user_id", p.UserID, "kind", p.Kind)
	m.notify(Event{Kind: EventSignedIn, Principal: p})
	return p, nil
}

// Logout notifies the backend when it can and always signs out locally
func (m *Manager) Logout(ctx context.Context) {
	if m.Current().IsSignedIn() {
		if err := m.backend.Logout(ctx); err != nil {
			m.log.Debugw("backend logout failed", "error", err)
		}
	}
	m.signOut(ctx, EventSignedOut)
}

// HandleAuthorizationExpired signs out after a non-login request was refused
// with 401. The logout call itself is excluded since Logout is already running.
func (m *Manager) HandleAuthorizationExpired(ctx context.Context, endpoint string) {
	if endpoint == api.PathLogin || endpoint == api.PathLogout {
		return
	}
	if !m.Current().IsSignedIn() {
		return
	}
	m.log.Warnw("authorization expired, signing out", "endpoint", endpoint)
	m.signOut(ctx, EventExpired)
}

func (m *Manager) signOut(ctx context.Context, kind EventKind) {
	m.mu.Lock()
	prev := m.principal
	m.clearLocked(ctx)
	m.principal = models.SignedOut()
	m.mu.Unlock()

	m.notify(Event{Kind: kind, Principal: models.SignedOut(), RedirectTo: guard.EntryPoint(prev.Kind)})
}

// UpdatePrincipalFields merges u into the principal and persists it. It does
// nothing when signed out.
func (m *Manager) UpdatePrincipalFields(ctx context.Context, u models.PrincipalUpdate) error {
	m.mu.Lock()
	if !m.principal.IsSignedIn() || u.IsEmpty() {
		m.mu.Unlock()
		return nil
	}
	next := u.Apply(m.principal)
	if err := m.persistLocked(ctx, next); err != nil {
		m.mu.Unlock()
		return err
	}
	m.principal = next
	m.mu.Unlock()

	m.notify(Event{Kind: EventUpdated, Principal: next})
	return nil
}

// RefreshProfile re-reads the profile from the backend and merges it
func (m *Manager) RefreshProfile(ctx context.Context) error {
	if !m.Current().IsSignedIn() {
		return nil
	}
	profile, err := m.backend.Me(ctx)
	if err != nil {
		return err
	}
	return m.UpdatePrincipalFields(ctx, models.PrincipalUpdate{
		DisplayName:   &profile.Name,
		AccountStatus: &profile.AccountStatus,
		LastLoginTime: &profile.LastLoginTime,
	})
}

// Current returns a copy of the principal
func (m *Manager) Current() models.Principal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.principal
}

// Ready reports whether Initialize (or a login) has resolved the principal
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Token returns the bearer token, or "" when signed out
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.principal.AuthToken
}

// Subscribe registers fn for change events and returns a function that removes it
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(ev Event) {
	m.mu.Lock()
	fns := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (m *Manager) persistLocked(ctx context.Context, p models.Principal) error {
	raw, err := recordFromPrincipal(p).encode()
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := m.store.Save(ctx, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// clearLocked removes the record even when ctx is already cancelled
func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.log.Warnw("failed to clear session record", "error", err)
	}
}
