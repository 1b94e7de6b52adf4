package setup

import (
	"context"
	"fmt"

	"github.com/itchan-dev/modcore/backend/internal/handler"
	mw "github.com/itchan-dev/modcore/backend/internal/middleware"
	"github.com/itchan-dev/modcore/backend/internal/middleware/ratelimiter"
	"github.com/itchan-dev/modcore/backend/internal/render"
	"github.com/itchan-dev/modcore/backend/internal/service"
	"github.com/itchan-dev/modcore/backend/internal/storage/fs"
	"github.com/itchan-dev/modcore/backend/internal/storage/pg"
	"github.com/itchan-dev/modcore/backend/internal/storage/s3"
	"github.com/itchan-dev/modcore/backend/internal/storage/session"
	"github.com/itchan-dev/modcore/shared/captcha"
	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/crypto"
	"github.com/itchan-dev/modcore/shared/logger"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Sessions       *session.Store
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	LoginLimiter   mw.Limiter
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg.Pg())
	if err != nil {
		return nil, err
	}

	sessions, err := session.Connect(ctx, cfg.Redis())
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	media, err := newMediaStorage(ctx, cfg)
	if err != nil {
		storage.Cleanup()
		sessions.Close()
		return nil, err
	}

	var verifier captcha.Verifier = captcha.Disabled{}
	if cfg.Public.CaptchaEnabled {
		verifier = captcha.NewHCaptcha(cfg.HCaptchaSecret())
	}

	modlog := service.NewModLog(storage)
	auth := service.NewAuth(storage, sessions, crypto.NewBcrypt(), verifier, modlog, cfg.Public.SessionTTL)
	manage := service.NewManage(storage, service.NewBoards(cfg.Public.Boards), render.New(), media, modlog)

	h := handler.New(auth, manage, modlog, &healthCheck{storage: storage, sessions: sessions}, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Sessions:       sessions,
		Handler:        h,
		AuthMiddleware: mw.NewAuth(auth, cfg.Public.Cloudflare, cfg.Public.TrustProxy),
		LoginLimiter:   ratelimiter.New(sessions.Client(), "login", cfg.Public.LoginAttempts, cfg.Public.LoginWindow),
	}, nil
}

// Close releases the database and redis connections.
func (d *Dependencies) Close() {
	if err := d.Sessions.Close(); err != nil {
		logger.Log.Error("failed to close redis client", "error", err)
	}
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close database", "error", err)
	}
}

func newMediaStorage(ctx context.Context, cfg *config.Config) (service.MediaStorage, error) {
	switch cfg.Public.Media.Backend {
	case "s3":
		return s3.New(ctx, cfg.Public.Media, cfg.S3())
	case "local":
		return fs.New(cfg.Public.Media.Root)
	}
	return nil, fmt.Errorf("unknown media backend %q", cfg.Public.Media.Backend)
}

type healthCheck struct {
	storage  *pg.Storage
	sessions *session.Store
}

func (c *healthCheck) Ping(ctx context.Context) error {
	if err := c.storage.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := c.sessions.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
