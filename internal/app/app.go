package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/config"
	"github.com/router-for-me/ModelMarket/internal/db"
	"github.com/router-for-me/ModelMarket/internal/http/api/console"
	"github.com/router-for-me/ModelMarket/internal/logging"
	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/ratelimit"
	"github.com/router-for-me/ModelMarket/internal/security"
	"github.com/router-for-me/ModelMarket/internal/session"
	"github.com/router-for-me/ModelMarket/internal/watcher"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// ServiceOptions controls how OpenServices builds the session store.
type ServiceOptions struct {
	// Ephemeral keeps the session in memory instead of the configured database.
	Ephemeral bool
}

// Services bundles the session store and backend client shared by the console and the CLI.
type Services struct {
	Session *session.Store
	Client  *market.Client
	conn    *gorm.DB
}

// OpenServices loads config from configPath and builds the session store and client.
func OpenServices(configPath string, opts ServiceOptions) (*Services, error) {
	apiCfg, errAPI := config.LoadAPIConfig(configPath)
	if errAPI != nil {
		return nil, errAPI
	}
	sessCfg, errSess := config.LoadSessionConfig(configPath)
	if errSess != nil {
		return nil, errSess
	}

	var (
		backend session.Backend
		conn    *gorm.DB
	)
	if opts.Ephemeral {
		backend = session.NewMemoryBackend()
	} else {
		var errOpen error
		conn, errOpen = db.Open(sessCfg.DSN)
		if errOpen != nil {
			return nil, errOpen
		}
		if errMigrate := db.Migrate(conn); errMigrate != nil {
			_ = db.Close(conn)
			return nil, errMigrate
		}
		backend = session.NewGormBackend(conn)
	}

	storeOpts := []session.Option{session.WithExpiry(sessCfg.Expiry)}
	if sessCfg.Secret != "" {
		sealer, errSealer := security.NewSealer(sessCfg.Secret)
		if errSealer != nil {
			_ = db.Close(conn)
			return nil, errSealer
		}
		storeOpts = append(storeOpts, session.WithSealer(sealer))
	}
	store, errStore := session.New(backend, storeOpts...)
	if errStore != nil {
		_ = db.Close(conn)
		return nil, errStore
	}

	client, errClient := market.NewClient(market.Options{
		BaseURL: apiCfg.BaseURL,
		Timeout: apiCfg.Timeout,
		Headers: apiCfg.Headers,
	}, store)
	if errClient != nil {
		_ = db.Close(conn)
		return nil, errClient
	}
	return &Services{Session: store, Client: client, conn: conn}, nil
}

// Close releases the session database.
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	return db.Close(s.conn)
}

// Migrate opens the session database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	sessCfg, err := config.LoadSessionConfig(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(sessCfg.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()
	return db.Migrate(conn.WithContext(ctx))
}

// ServerOptions controls RunServer.
type ServerOptions struct {
	// Port overrides the configured console port when positive.
	Port      int
	Ephemeral bool
}

// RunServer boots the console server and blocks until ctx is done.
func RunServer(ctx context.Context, cfg config.AppConfig, opts ServerOptions) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	logCfg, err := config.LoadLoggingConfig(configPath)
	if err != nil {
		return err
	}
	logCloser, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	consoleCfg, err := config.LoadConsoleConfig(configPath)
	if err != nil {
		return err
	}
	if opts.Port > 0 {
		consoleCfg.Port = opts.Port
	}

	services, err := OpenServices(configPath, ServiceOptions{Ephemeral: opts.Ephemeral})
	if err != nil {
		return err
	}
	defer func() {
		if errClose := services.Close(); errClose != nil {
			log.WithError(errClose).Warn("close session store failed")
		}
	}()
	if !opts.Ephemeral {
		if sessCfg, errSess := config.LoadSessionConfig(configPath); errSess == nil {
			if info, errInfo := DescribeSessionStore(sessCfg.DSN); errInfo == nil {
				log.Infof("session store: %s", info)
			}
		}
	}

	settings := ratelimit.NewSettingsStore(ratelimit.SettingsFromConsole(consoleCfg))
	limiter := ratelimit.NewManager(settings.Load, nil, nil)
	defer func() { _ = limiter.Close() }()

	configWatcher, err := watcher.NewConfigWatcher(configPath, newReloader(settings))
	if err != nil {
		return err
	}
	if ConfigExists(configPath) {
		if errStart := configWatcher.Start(ctx); errStart != nil {
			log.WithError(errStart).Warn("config watcher disabled")
		}
	}
	defer func() { _ = configWatcher.Stop() }()

	engine := newEngine(logCfg.Debug, console.Deps{
		Client:  services.Client,
		Session: services.Session,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:    consoleCfg.Address(),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("console server shutdown error: %v", errShutdown)
		}
	}()

	log.Infof("starting console on %s with config=%s", srv.Addr, configPath)
	if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
		return fmt.Errorf("console server: %w", errListen)
	}
	return nil
}

// newEngine builds the gin engine with console routes registered.
func newEngine(debug bool, deps console.Deps) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	console.RegisterConsoleRoutes(engine, deps)
	return engine
}

// newReloader applies hot-reloadable settings. Backend and session changes need a restart.
func newReloader(settings *ratelimit.SettingsStore) watcher.ReloadFunc {
	return func(path string) {
		if logCfg, errLog := config.LoadLoggingConfig(path); errLog != nil {
			log.WithError(errLog).Warn("reload logging config failed")
		} else {
			logging.ApplyLevel(logCfg.Debug)
		}

		consoleCfg, errConsole := config.LoadConsoleConfig(path)
		if errConsole != nil {
			log.WithError(errConsole).Warn("reload console config failed")
			return
		}
		settings.Update(ratelimit.SettingsFromConsole(consoleCfg))
		log.Infof("rate limit reloaded (limit=%d redis=%t)", consoleCfg.RateLimit, consoleCfg.Redis.Enabled)
	}
}
