package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/itchan-dev/modcore/backend/internal/middleware"
	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/domain"
)

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// withStaff attaches the identity the auth middleware would have resolved.
func withStaff(req *http.Request, rc domain.RequestContext, sessionID string) *http.Request {
	return req.WithContext(mw.WithRequestContext(req.Context(), rc, sessionID))
}

var testStaff = domain.RequestContext{IP: "10.0.0.1", Username: "mod", Role: domain.RoleModerator}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{SessionTTL: time.Hour, SecureCookies: true}}
}

type MockAuthService struct {
	MockLogin      func(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error)
	MockLogout     func(ctx context.Context, rc domain.RequestContext, sessionID string) error
	MockSession    func(ctx context.Context, sessionID string) (domain.Session, error)
	MockIsLoggedIn func(ctx context.Context, sessionID string) bool
	MockGetRole    func(ctx context.Context, sessionID string) (int, bool)
}

func (m *MockAuthService) Login(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error) {
	if m.MockLogin != nil {
		return m.MockLogin(ctx, rc, creds)
	}
	return "", false, nil
}

func (m *MockAuthService) Logout(ctx context.Context, rc domain.RequestContext, sessionID string) error {
	if m.MockLogout != nil {
		return m.MockLogout(ctx, rc, sessionID)
	}
	return nil
}

func (m *MockAuthService) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	if m.MockSession != nil {
		return m.MockSession(ctx, sessionID)
	}
	return domain.Session{}, nil
}

func (m *MockAuthService) IsLoggedIn(ctx context.Context, sessionID string) bool {
	if m.MockIsLoggedIn != nil {
		return m.MockIsLoggedIn(ctx, sessionID)
	}
	return false
}

func (m *MockAuthService) GetRole(ctx context.Context, sessionID string) (int, bool) {
	if m.MockGetRole != nil {
		return m.MockGetRole(ctx, sessionID)
	}
	return 0, false
}

type MockManageService struct {
	MockImport       func(ctx context.Context, rc domain.RequestContext, params domain.ImportParams) (string, error)
	MockRebuild      func(ctx context.Context, rc domain.RequestContext, boardID domain.BoardID) (string, error)
	MockDelete       func(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
	MockApprove      func(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
	MockToggleLock   func(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
	MockToggleSticky func(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
}

func (m *MockManageService) Import(ctx context.Context, rc domain.RequestContext, params domain.ImportParams) (string, error) {
	if m.MockImport != nil {
		return m.MockImport(ctx, rc, params)
	}
	return "", nil
}

func (m *MockManageService) Rebuild(ctx context.Context, rc domain.RequestContext, boardID domain.BoardID) (string, error) {
	if m.MockRebuild != nil {
		return m.MockRebuild(ctx, rc, boardID)
	}
	return "", nil
}

func (m *MockManageService) Delete(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	if m.MockDelete != nil {
		return m.MockDelete(ctx, rc, selection)
	}
	return "", nil
}

func (m *MockManageService) Approve(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	if m.MockApprove != nil {
		return m.MockApprove(ctx, rc, selection)
	}
	return "", nil
}

func (m *MockManageService) ToggleLock(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	if m.MockToggleLock != nil {
		return m.MockToggleLock(ctx, rc, selection)
	}
	return "", nil
}

func (m *MockManageService) ToggleSticky(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	if m.MockToggleSticky != nil {
		return m.MockToggleSticky(ctx, rc, selection)
	}
	return "", nil
}

type MockLogReader struct {
	MockRecent func(ctx context.Context, page int) ([]domain.LogEntry, error)
}

func (m *MockLogReader) Recent(ctx context.Context, page int) ([]domain.LogEntry, error) {
	if m.MockRecent != nil {
		return m.MockRecent(ctx, page)
	}
	return nil, nil
}
