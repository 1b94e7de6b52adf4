package handler

import (
	"context"
	"net/http"
	"time"

	mw "github.com/itchan-dev/modcore/backend/internal/middleware"
	"github.com/itchan-dev/modcore/backend/internal/service"
	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/domain"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type LogReader interface {
	Recent(ctx context.Context, page int) ([]domain.LogEntry, error)
}

type Handler struct {
	auth   service.AuthService
	manage service.ManageService
	logs   LogReader
	health HealthChecker
	cfg    *config.Config
}

func New(auth service.AuthService, manage service.ManageService, logs LogReader, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		auth:   auth,
		manage: manage,
		logs:   logs,
		health: health,
		cfg:    cfg,
	}
}

// sessionCookie builds the session cookie, a negative maxAge removes it.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     mw.SessionCookie,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func maxAge(ttl time.Duration) int {
	return int(ttl.Seconds())
}
