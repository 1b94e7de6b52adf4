package middleware

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/itchan-dev/modcore/shared/logger"
	"github.com/itchan-dev/modcore/shared/utils"
)

const SessionCookie = "modcore_session"

type key int

const (
	requestContextKey key = iota
	sessionIDKey
)

type SessionReader interface {
	Session(ctx context.Context, sessionID string) (domain.Session, error)
}

type Auth struct {
	sessions   SessionReader
	cloudflare bool
	trustProxy bool
}

// NewAuth resolves client addresses from the connection, CF-Connecting-IP with
// cloudflare, and X-Real-IP or X-Forwarded-For with trustProxy.
func NewAuth(sessions SessionReader, cloudflare, trustProxy bool) *Auth {
	return &Auth{sessions: sessions, cloudflare: cloudflare, trustProxy: trustProxy}
}

// Identify puts the RequestContext of every request into its context. Requests
// without a valid session get an anonymous one carrying only the address.
func (a *Auth) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := utils.GetClientRemoteAddress(r, a.cloudflare, a.trustProxy)
		if err != nil {
			http.Error(w, "Can't determine client address", http.StatusBadRequest)
			return
		}
		rc := domain.RequestContext{IP: ip}

		var sessionID string
		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			session, err := a.sessions.Session(r.Context(), cookie.Value)
			switch {
			case err == nil:
				rc.Username = session.Username
				rc.Role = session.Role
				sessionID = cookie.Value
			case stderrors.Is(err, errors.ErrNotLoggedIn):
				// expired, treat as anonymous
			default:
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
		}
		rc.Logger = logger.Staff(rc.Username, rc.IP)

		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc, sessionID)))
	})
}

// RequireRole lets through sessions with at least role min.
func RequireRole(min int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := GetRequestContext(r)
			if rc.Username == "" {
				utils.WriteErrorAndStatusCode(w, errors.ErrNotLoggedIn)
				return
			}
			if rc.Role < min {
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithRequestContext(ctx context.Context, rc domain.RequestContext, sessionID string) context.Context {
	ctx = context.WithValue(ctx, requestContextKey, rc)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetRequestContext returns the identity set by Identify, or an anonymous one.
func GetRequestContext(r *http.Request) domain.RequestContext {
	rc, _ := r.Context().Value(requestContextKey).(domain.RequestContext)
	return rc
}

func GetSessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}
