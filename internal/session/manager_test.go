package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/guard"
	"github.com/willfong/bankfront/internal/models"
)

type fakeBackend struct {
	loginResp api.LoginResponse
	loginErr  error
	logoutErr error
	profile   api.UserProfile

	logoutCalls int
}

func (f *fakeBackend) Login(context.Context, api.Credentials) (api.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeBackend) Me(context.Context) (api.UserProfile, error) {
	return f.profile, nil
}

func saveRecord(t *testing.T, store Store, rec Record) {
	t.Helper()
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), raw); err != nil {
		t.Fatal(err)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "exp": exp.Unix()}).SignedString([]byte("test"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestInitialize(t *testing.T) {
	t.Run("absent record", func(t *testing.T) {
		m := NewManager(NewMemoryStore(), &fakeBackend{}, nil)
		m.Initialize(context.Background())
		if m.Current().IsSignedIn() || !m.Ready() {
			t.Errorf("Expected ready and signed out, got %+v ready=%v", m.Current(), m.Ready())
		}
	})

	t.Run("malformed record is cleared", func(t *testing.T) {
		store := NewMemoryStore()
		store.Save(context.Background(), []byte("{not json"))
		m := NewManager(store, &fakeBackend{}, nil)
		m.Initialize(context.Background())

		if m.Current().IsSignedIn() {
			t.Error("Expected signed out")
		}
		if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoRecord) {
			t.Errorf("Expected corrupt record to be cleared, got %v", err)
		}
	})

	t.Run("record without token is cleared", func(t *testing.T) {
		store := NewMemoryStore()
		saveRecord(t, store, Record{UserID: 1, Role: models.RoleCustomer})
		m := NewManager(store, &fakeBackend{}, nil)
		m.Initialize(context.Background())
		if m.Current().IsSignedIn() {
			t.Error("Expected signed out")
		}
	})

	t.Run("valid administrator record", func(t *testing.T) {
		store := NewMemoryStore()
		saveRecord(t, store, Record{UserID: 9, Username: "root", Name: "管理员", Role: models.RoleAdministrator, Token: "opaque"})
		m := NewManager(store, &fakeBackend{}, nil)
		m.Initialize(context.Background())

		p := m.Current()
		if !p.IsAdministrator() || p.UserID != 9 || p.DisplayName != "管理员" || !p.Valid() {
			t.Errorf("Unexpected principal: %+v", p)
		}
		if m.Token() != "opaque" {
			t.Errorf("Expected token opaque, got %q", m.Token())
		}
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		store := NewMemoryStore()
		saveRecord(t, store, Record{UserID: 7, Role: models.RoleCustomer, Token: signedToken(t, time.Now().Add(-time.Hour))})
		m := NewManager(store, &fakeBackend{}, nil)
		m.Initialize(context.Background())

		if m.Current().IsSignedIn() {
			t.Error("Expected expired session to be signed out")
		}
		if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoRecord) {
			t.Errorf("Expected expired record to be cleared, got %v", err)
		}
	})

	t.Run("unexpired token is kept", func(t *testing.T) {
		store := NewMemoryStore()
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		saveRecord(t, store, Record{UserID: 7, Role: models.RoleCustomer, Token: signedToken(t, exp)})
		m := NewManager(store, &fakeBackend{}, nil)
		m.Initialize(context.Background())

		if !m.Current().IsSignedIn() || !m.Current().TokenExpiry.Equal(exp) {
			t.Errorf("Expected signed-in customer expiring at %v, got %+v", exp, m.Current())
		}
	})
}

func TestLogin(t *testing.T) {
	store := NewMemoryStore()
	backend := &fakeBackend{loginResp: api.LoginResponse{
		UserProfile: api.UserProfile{UserID: 3, Username: "alice", Name: "Alice", Role: 0},
		Token:       "tok-3",
	}}
	m := NewManager(store, backend, nil)
	m.Initialize(context.Background())

	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })

	p, err := m.Login(context.Background(), api.Credentials{Type: api.LoginByUsername, Identifier: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if p.Kind != models.KindCustomer || p.AuthToken != "tok-3" {
		t.Errorf("Unexpected principal: %+v", p)
	}

	raw, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected persisted record: %v", err)
	}
	var rec Record
	json.Unmarshal(raw, &rec)
	if rec.UserID != 3 || rec.Token != "tok-3" || rec.Role != models.RoleCustomer || rec.Name != "Alice" {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if len(events) != 1 || events[0].Kind != EventSignedIn {
		t.Errorf("Expected one signed-in event, got %v", events)
	}
}

func TestLoginFailureKeepsPriorPrincipal(t *testing.T) {
	store := NewMemoryStore()
	saveRecord(t, store, Record{UserID: 1, Role: models.RoleCustomer, Token: "old"})
	backend := &fakeBackend{loginErr: &api.RejectedError{Kind: api.ErrAuthenticationFailed, Code: 401, Message: "密码错误"}}
	m := NewManager(store, backend, nil)
	m.Initialize(context.Background())

	_, err := m.Login(context.Background(), api.Credentials{Type: api.LoginByPhone, Identifier: "1", Password: "x"})
	if !errors.Is(err, api.ErrAuthenticationFailed) || api.UserMessage(err) != "密码错误" {
		t.Fatalf("Expected authentication failure with server message, got %v", err)
	}
	if m.Token() != "old" || m.Current().UserID != 1 {
		t.Errorf("Expected prior principal untouched, got %+v", m.Current())
	}
}

func TestLoginAsRefusesOtherKindWithoutPersisting(t *testing.T) {
	store := NewMemoryStore()
	saveRecord(t, store, Record{UserID: 1, Role: models.RoleCustomer, Token: "old"})
	backend := &fakeBackend{loginResp: api.LoginResponse{
		UserProfile: api.UserProfile{UserID: 3, Username: "bob", Role: 0},
		Token:       "tok-3",
	}}
	m := NewManager(store, backend, nil)
	m.Initialize(context.Background())

	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err := m.LoginAs(context.Background(), api.Credentials{Type: api.LoginByUsername, Identifier: "bob", Password: "pw"}, models.KindAdministrator)
	if !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("Expected ErrKindMismatch, got %v", err)
	}
	if m.Token() != "old" || m.Current().UserID != 1 {
		t.Errorf("Expected prior principal untouched, got %+v", m.Current())
	}
	raw, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected prior record kept: %v", err)
	}
	var rec Record
	json.Unmarshal(raw, &rec)
	if rec.Token != "old" {
		t.Errorf("Expected stored token old, got %q", rec.Token)
	}
	if len(events) != 0 {
		t.Errorf("Expected no events, got %v", events)
	}

	p, err := m.LoginAs(context.Background(), api.Credentials{Type: api.LoginByUsername, Identifier: "bob", Password: "pw"}, models.KindCustomer)
	if err != nil || p.AuthToken != "tok-3" {
		t.Errorf("Expected customer login, got %+v, %v", p, err)
	}
}

func TestLogoutAlwaysSucceedsLocally(t *testing.T) {
	store := NewMemoryStore()
	saveRecord(t, store, Record{UserID: 9, Role: models.RoleAdministrator, Token: "a"})
	backend := &fakeBackend{logoutErr: api.ErrNetworkFailure}
	m := NewManager(store, backend, nil)
	m.Initialize(context.Background())

	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })

	m.Logout(context.Background())

	if backend.logoutCalls != 1 {
		t.Errorf("Expected one backend logout call, got %d", backend.logoutCalls)
	}
	if m.Current().IsSignedIn() || m.Token() != "" {
		t.Error("Expected signed out")
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected record cleared, got %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventSignedOut || events[0].RedirectTo != guard.RouteAdminLogin {
		t.Errorf("Expected signed-out event to admin login, got %+v", events)
	}
}

func TestUpdatePrincipalFields(t *testing.T) {
	name := "New Name"

	t.Run("no-op when signed out", func(t *testing.T) {
		store := NewMemoryStore()
		m := NewManager(store, &fakeBackend{}, nil)
		m.Initialize(context.Background())
		if err := m.UpdatePrincipalFields(context.Background(), models.PrincipalUpdate{DisplayName: &name}); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoRecord) {
			t.Error("Expected nothing persisted while signed out")
		}
	})

	t.Run("merged and persisted", func(t *testing.T) {
		store := NewMemoryStore()
		saveRecord(t, store, Record{UserID: 1, Name: "Old", Role: models.RoleCustomer, Token: "t"})
		m := NewManager(store, &fakeBackend{}, nil)
		m.Initialize(context.Background())

		if err := m.UpdatePrincipalFields(context.Background(), models.PrincipalUpdate{DisplayName: &name}); err != nil {
			t.Fatal(err)
		}
		if m.Current().DisplayName != name {
			t.Errorf("Expected %q in memory, got %q", name, m.Current().DisplayName)
		}
		raw, _ := store.Load(context.Background())
		var rec Record
		json.Unmarshal(raw, &rec)
		if rec.Name != name || rec.Token != "t" {
			t.Errorf("Expected persisted update, got %+v", rec)
		}
	})
}

func TestRefreshProfile(t *testing.T) {
	store := NewMemoryStore()
	saveRecord(t, store, Record{UserID: 1, Name: "Old", Role: models.RoleCustomer, Token: "t"})
	m := NewManager(store, &fakeBackend{profile: api.UserProfile{UserID: 1, Name: "Fresh", AccountStatus: 1}}, nil)
	m.Initialize(context.Background())

	if err := m.RefreshProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p := m.Current(); p.DisplayName != "Fresh" || p.AccountStatus != 1 {
		t.Errorf("Expected refreshed profile, got %+v", p)
	}
}

// wireClient connects a real API client to a manager the way the CLI does
func wireClient(t *testing.T, r chi.Router, store Store) (*Manager, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	var m *Manager
	client := api.NewClient(srv.URL, time.Second,
		api.WithTokenSource(func() string { return m.Token() }),
		api.WithUnauthorizedHandler(func(ctx context.Context, endpoint string) {
			m.HandleAuthorizationExpired(ctx, endpoint)
		}),
	)
	m = NewManager(store, client, nil)
	m.Initialize(context.Background())
	return m, client
}

func TestForcedLogoutOnlyForNonLoginEndpoints(t *testing.T) {
	unauthorized := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"code": 401, "message": "unauthorized"})
	}

	t.Run("401 from cards signs out", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get(api.PathCards, unauthorized)
		store := NewMemoryStore()
		saveRecord(t, store, Record{UserID: 9, Role: models.RoleAdministrator, Token: "a"})
		m, client := wireClient(t, r, store)

		var events []Event
		m.Subscribe(func(ev Event) { events = append(events, ev) })

		_, err := client.ListCards(context.Background())
		if !errors.Is(err, api.ErrAuthorizationExpired) {
			t.Fatalf("Expected ErrAuthorizationExpired, got %v", err)
		}
		if m.Current().IsSignedIn() {
			t.Error("Expected forced logout")
		}
		if len(events) != 1 || events[0].Kind != EventExpired || events[0].RedirectTo != guard.RouteAdminLogin {
			t.Errorf("Expected expired event to admin login, got %+v", events)
		}
		if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoRecord) {
			t.Error("Expected record cleared")
		}
	})

	t.Run("401 from login keeps prior principal", func(t *testing.T) {
		r := chi.NewRouter()
		r.Post(api.PathLogin, unauthorized)
		store := NewMemoryStore()
		saveRecord(t, store, Record{UserID: 1, Role: models.RoleCustomer, Token: "c"})
		m, _ := wireClient(t, r, store)

		var events []Event
		m.Subscribe(func(ev Event) { events = append(events, ev) })

		_, err := m.Login(context.Background(), api.Credentials{Type: api.LoginByUsername, Identifier: "x", Password: "y"})
		if !errors.Is(err, api.ErrAuthenticationFailed) {
			t.Fatalf("Expected ErrAuthenticationFailed, got %v", err)
		}
		if m.Token() != "c" || len(events) != 0 {
			t.Errorf("Expected prior principal untouched and no events, got %+v / %v", m.Current(), events)
		}
	})

	t.Run("401 from logout does not recurse", func(t *testing.T) {
		r := chi.NewRouter()
		r.Post(api.PathLogout, unauthorized)
		store := NewMemoryStore()
		saveRecord(t, store, Record{UserID: 1, Role: models.RoleCustomer, Token: "c"})
		m, _ := wireClient(t, r, store)

		var events []Event
		m.Subscribe(func(ev Event) { events = append(events, ev) })

		m.Logout(context.Background())
		if len(events) != 1 || events[0].Kind != EventSignedOut || events[0].RedirectTo != guard.RouteLogin {
			t.Errorf("Expected a single signed-out event to general login, got %+v", events)
		}
	})
}

func TestUnsubscribe(t *testing.T) {
	m := NewManager(NewMemoryStore(), &fakeBackend{}, nil)
	calls := 0
	unsubscribe := m.Subscribe(func(Event) { calls++ })
	m.Initialize(context.Background())
	unsubscribe()
	m.Logout(context.Background())
	if calls != 1 {
		t.Errorf("Expected 1 call before unsubscribe, got %d", calls)
	}
}
