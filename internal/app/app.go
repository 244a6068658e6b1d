package app

import (
	"context"
	"fmt"
	"log/slog"

	"broadcaster/internal/adapters/backend"
	"broadcaster/internal/adapters/memory"
	"broadcaster/internal/adapters/redis"
	"broadcaster/internal/config"
	"broadcaster/internal/logging"
	"broadcaster/internal/metrics"
	"broadcaster/internal/ports"
	"broadcaster/internal/service"
	"broadcaster/internal/session"
)

// App is the main application container.
type App struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	cache   ports.TemplateCache
	redis   *redis.Client
}

// Options configures the App.
type Options struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Cache overrides the configured template cache.
	Cache ports.TemplateCache
}

// Services are the operations available to one signed-in session.
type Services struct {
	Backend  ports.Backend
	Catalog  *service.Catalog
	Composer *service.Composer
	History  *service.History
}

// New creates an App. Without an explicit cache it connects to Redis when
// configured and falls back to an in-process cache otherwise.
func New(ctx context.Context, opts Options) (*App, error) {
	a := &App{
		cfg:     opts.Config,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		cache:   opts.Cache,
	}

	if a.cache != nil {
		return a, nil
	}

	if !a.cfg.RedisEnabled() {
		a.logger.Debug("redis not configured, using in-memory template cache")
		a.cache = memory.NewTemplateCache(a.cfg.Cache.TemplateTTL)
		return a, nil
	}

	client, err := redis.NewClient(ctx, a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.logger.Info("connected to redis", "addr", a.cfg.Redis.Addr, "cluster", a.cfg.Redis.ClusterMode)

	a.redis = client
	a.cache = redis.NewTemplateCache(client, a.cfg.Cache.TemplateTTL)
	return a, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.AppConfig {
	return a.cfg
}

// Logger returns the root logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Metrics returns the collectors, possibly nil.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Services wires the backend client and services for one session.
func (a *App) Services(sessions ports.SessionProvider) *Services {
	client := backend.NewClient(
		backend.Config{
			BaseURL: a.cfg.Backend.BaseURL,
			Timeout: a.cfg.Backend.Timeout,
		},
		sessions,
		a.metrics,
		logging.WithComponent(a.logger, "backend"),
	)

	return &Services{
		Backend:  client,
		Catalog:  service.NewCatalog(client, a.cache, sessions, logging.WithComponent(a.logger, "catalog")),
		Composer: service.NewComposer(client, a.metrics, logging.WithComponent(a.logger, "composer")),
		History:  service.NewHistory(client, a.metrics, logging.WithComponent(a.logger, "history")),
	}
}

// SessionProvider builds the configured session source. A static access
// token wins; otherwise credentials come from the environment or from
// Secrets Manager and are exchanged for a session on first use.
func (a *App) SessionProvider(ctx context.Context) (ports.SessionProvider, error) {
	auth := a.cfg.Auth
	if auth.AccessToken != "" {
		return session.NewStatic(auth.AccessToken, ""), nil
	}

	if auth.SecretName != "" {
		sm, err := config.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, err
		}
		if err := auth.ResolveCredentials(ctx, sm); err != nil {
			return nil, err
		}
	}

	if auth.Email == "" {
		a.logger.Warn("no access token or credentials configured")
		return session.NewStatic("", ""), nil
	}

	return session.NewPasswordProvider(session.PasswordConfig{
		URL:      auth.URL,
		APIKey:   auth.APIKey,
		Email:    auth.Email,
		Password: auth.Password,
		Timeout:  auth.Timeout,
	}, logging.WithComponent(a.logger, "session")), nil
}

// Close releases the Redis connection when one was opened.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
