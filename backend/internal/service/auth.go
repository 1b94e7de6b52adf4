package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/modcore/shared/captcha"
	"github.com/itchan-dev/modcore/shared/crypto"
	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/itchan-dev/modcore/shared/logger"
)

// to mock service in tests
type AuthService interface {
	Login(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error)
	Logout(ctx context.Context, rc domain.RequestContext, sessionID string) error
	Session(ctx context.Context, sessionID string) (domain.Session, error)
	IsLoggedIn(ctx context.Context, sessionID string) bool
	GetRole(ctx context.Context, sessionID string) (int, bool)
}

type AccountStorage interface {
	Account(ctx context.Context, username string) (domain.Account, error)
}

// SessionStore keeps staff sessions outside the process.
// Get returns errors.ErrNotLoggedIn for unknown or expired ids.
type SessionStore interface {
	Save(ctx context.Context, id string, session domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type Auth struct {
	accounts AccountStorage
	sessions SessionStore
	hasher   crypto.PasswordHasher
	captcha  captcha.Verifier
	log      *ModLog
	ttl      time.Duration
	newID    func() string
}

func NewAuth(accounts AccountStorage, sessions SessionStore, hasher crypto.PasswordHasher, verifier captcha.Verifier, log *ModLog, ttl time.Duration) *Auth {
	if verifier == nil {
		verifier = captcha.Disabled{}
	}
	return &Auth{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		captcha:  verifier,
		log:      log,
		ttl:      ttl,
		newID:    uuid.NewString,
	}
}

// Login checks credentials and opens a session. Wrong username or password is
// reported as ok == false with a nil error.
func (a *Auth) Login(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error) {
	if err := a.captcha.Verify(ctx, creds.Captcha); err != nil {
		return "", false, err
	}

	account, err := a.accounts.Account(ctx, creds.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Log.Info("login for unknown account", "user", creds.Username, "ip", rc.IP)
			return "", false, nil
		}
		return "", false, err
	}
	if !a.hasher.Verify(creds.Password, account.PasswordHash) {
		logger.Log.Info("login with wrong password", "user", creds.Username, "ip", rc.IP)
		return "", false, nil
	}

	id := a.newID()
	session := domain.Session{Username: account.Username, Role: account.Role}
	if err := a.sessions.Save(ctx, id, session, a.ttl); err != nil {
		return "", false, err
	}

	rc.Username = account.Username
	rc.Role = account.Role
	rc.Logger = nil
	if err := a.log.Log(ctx, rc, "Logged in"); err != nil {
		logger.Log.Warn("login not recorded in moderation log", "user", account.Username, "error", err)
	}
	return id, true, nil
}

// Logout records the logout and then destroys the session.
func (a *Auth) Logout(ctx context.Context, rc domain.RequestContext, sessionID string) error {
	if err := a.log.Log(ctx, rc, "Logged out"); err != nil {
		logger.Log.Warn("logout not recorded in moderation log", "user", rc.Username, "error", err)
	}
	return a.sessions.Delete(ctx, sessionID)
}

func (a *Auth) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, errors.ErrNotLoggedIn
	}
	return a.sessions.Get(ctx, sessionID)
}

func (a *Auth) IsLoggedIn(ctx context.Context, sessionID string) bool {
	s, err := a.Session(ctx, sessionID)
	return err == nil && s.Username != ""
}

// GetRole returns the role of the session owner, ok is false without a session.
func (a *Auth) GetRole(ctx context.Context, sessionID string) (int, bool) {
	s, err := a.Session(ctx, sessionID)
	if err != nil {
		return 0, false
	}
	return s.Role, true
}
