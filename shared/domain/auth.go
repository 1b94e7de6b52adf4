package domain

import "log/slog"

type Account struct {
	Username     string
	PasswordHash string
	Role         int
}

// Session is the server-side state of a logged-in staff member.
type Session struct {
	Username string
	Role     int
}

// RequestContext is the identity and log sink of one staff request.
type RequestContext struct {
	IP       string
	Username string
	Role     int
	Logger   *slog.Logger
}

// Staff role levels. A higher level includes everything below it.
// Posts made by regular users carry RoleNone.
const (
	RoleNone      = 0
	RoleJanitor   = 1
	RoleModerator = 2
	RoleAdmin     = 3
)

func RoleName(role int) string {
	switch role {
	case RoleJanitor:
		return "Janitor"
	case RoleModerator:
		return "Mod"
	case RoleAdmin:
		return "Admin"
	}
	return ""
}

// Staff action names, used for role gating and metrics labels.
const (
	ActionImport       = "import"
	ActionRebuild      = "rebuild"
	ActionDelete       = "delete"
	ActionApprove      = "approve"
	ActionToggleLock   = "toggle_lock"
	ActionToggleSticky = "toggle_sticky"
)

// Credentials is the staff login form.
type Credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
	Captcha  string `json:"h-captcha-response"`
}
