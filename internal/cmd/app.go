package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/config"
	"github.com/willfong/bankfront/internal/database"
	"github.com/willfong/bankfront/internal/guard"
	"github.com/willfong/bankfront/internal/logging"
	"github.com/willfong/bankfront/internal/session"
	"github.com/willfong/bankfront/internal/ui"
	"github.com/willfong/bankfront/internal/wizard"
	"go.uber.org/zap"
)

// App is everything a command needs for one invocation
type App struct {
	Config  *config.Config
	Log     *zap.SugaredLogger
	UI      *ui.UI
	Client  *api.Client
	Session *session.Manager
	Nav     *guard.Navigator
	Limits  wizard.Limits
	Now     func() time.Time

	logger      *zap.Logger
	closers     []func() error
	unsubscribe func()
}

func newApp(ctx context.Context, cfg *config.Config, u *ui.UI) (*App, error) {
	logger := logging.Init(logging.Config{Level: cfg.Log.Level, Dev: cfg.Log.Dev})
	log := logger.Sugar()

	a := &App{
		Config: cfg,
		Log:    log,
		UI:     u,
		Limits: wizard.LimitsFromConfig(cfg.Wizard),
		Now:    time.Now,
		logger: logger,
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// The client and the manager refer to each other; the closures are only
	// called once both exist.
	var manager *session.Manager
	a.Client = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout,
		api.WithLogger(log),
		api.WithTokenSource(func() string { return manager.Token() }),
		api.WithUnauthorizedHandler(func(ctx context.Context, endpoint string) {
			manager.HandleAuthorizationExpired(ctx, endpoint)
		}),
	)
	manager = session.NewManager(store, a.Client, log)
	a.Session = manager

	a.Nav = guard.NewNavigator(manager, a.redirected)
	a.unsubscribe = manager.Subscribe(a.sessionChanged)

	manager.Initialize(ctx)
	return a, nil
}

// openStore builds the session store selected by configuration
func (a *App) openStore(ctx context.Context) (session.Store, error) {
	sc := a.Config.Session
	switch sc.Store {
	case config.StoreMemory:
		return session.NewMemoryStore(), nil
	case config.StoreRedis:
		client, err := session.ConnectRedis(sc.RedisURL)
		if err != nil {
			return nil, err
		}
		store := session.NewRedisStore(client, sc.Profile, sc.TTL)
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.StoreMySQL:
		pool, err := database.NewPool(sc.Database)
		if err != nil {
			return nil, err
		}
		store := session.NewSQLStore(pool, sc.Profile)
		a.closers = append(a.closers, func() error {
			st := store.Stats()
			a.Log.Debugw("session database",
				"queries", st.TotalQueries,
				"failed", st.FailedQueries,
				"open_connections", st.OpenConnections,
			)
			return store.Close()
		})
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare session table: %w", err)
		}
		return store, nil
	default:
		return session.NewFileStore(sc.Path), nil
	}
}

// sessionChanged re-runs the guard whenever the session signs out underneath a command
func (a *App) sessionChanged(ev session.Event) {
	a.Log.Debugw("session event", "kind", ev.Kind, "redirect_to", ev.RedirectTo)
	switch ev.Kind {
	case session.EventExpired:
		a.UI.Println(a.UI.Warning(api.SessionExpiredMessage))
		if d := a.Nav.Reevaluate(); d.RedirectTo != "" {
			a.UI.Println(a.UI.Muted("请重新登录：" + loginCommand(d.RedirectTo)))
		}
	case session.EventSignedOut:
		a.Nav.Reevaluate()
	}
}

// redirected tells the user where the guard is sending them
func (a *App) redirected(d guard.Decision) {
	a.Log.Debugw("redirect", "surface", d.Surface.Name, "state", d.State, "to", d.RedirectTo)
}

// Close releases the store connection and flushes logs
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.Log.Debugw("close failed", "error", err)
		}
	}
	_ = a.logger.Sync()
}
