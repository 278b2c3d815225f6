package app

import (
	"context"
	"fmt"
	"net"

	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/db"
	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	"github.com/yungbote/mindbridge-backend/internal/http"
	"github.com/yungbote/mindbridge-backend/internal/observability"
	"github.com/yungbote/mindbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

const serviceName = "mindbridge-backend"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Repos
	Services Services
	Metrics  *observability.Metrics

	store        *db.Service
	otelShutdown func(context.Context) error
}

func NewLogger() (*logger.Logger, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenStore connects to the configured database and migrates the schema.
func OpenStore(log *logger.Logger) (*db.Service, error) {
	store, err := db.NewService(log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(store.DB()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return store, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, err
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", ""),
	})

	store, err := OpenStore(log)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	theDB := store.DB()

	reposet := repos.New(theDB, log)
	serviceset, err := wireServices(ctx, theDB, log, cfg, reposet)
	if err != nil {
		_ = store.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      observability.Init(log),
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Serve runs the HTTP server and metric collectors until ctx is canceled, then drains
// background note tasks before returning.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.DB == nil {
		return fmt.Errorf("app not initialized")
	}
	server := http.NewServer(
		net.JoinHostPort("", a.Cfg.Port),
		a.Log,
		wireRouterConfig(a.DB, a.Log, a.Cfg, a.Services, a.Metrics),
	)

	if a.Metrics != nil {
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if addr := envutil.String("REDIS_ADDR", ""); addr != "" {
			a.Metrics.StartRedisCollector(ctx, a.Log, addr)
		}
	}

	if a.Services.Bus != nil {
		if err := a.Services.Bus.Subscribe(ctx, noteAlertLogger(a.Log)); err != nil {
			a.Log.Warn("Note event subscription failed", "error", err)
		}
	}

	return runThenDrain(ctx, func(ctx context.Context) error {
		return server.Run(ctx, a.Cfg.ShutdownDrain)
	}, a.Services.Notes, a.Cfg.ShutdownDrain, a.Log)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Bus != nil {
		_ = a.Services.Bus.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("Closing database failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
