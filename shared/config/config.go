package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/modcore/shared/domain"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	ListenAddr     string               `yaml:"listen_addr" validate:"required"`
	LogLevel       string               `yaml:"log_level"`
	LogJSON        bool                 `yaml:"log_json"`
	Cloudflare     bool                 `yaml:"cloudflare"`      // trust CF-Connecting-IP
	TrustProxy     bool                 `yaml:"trust_proxy"`     // trust X-Real-IP and X-Forwarded-For from our own proxy
	RequestTimeout time.Duration        `yaml:"request_timeout"` // bounds every store call of a request
	SessionTTL     time.Duration        `yaml:"session_ttl" validate:"required"`
	SecureCookies  bool                 `yaml:"secure_cookies"`
	CaptchaEnabled bool                 `yaml:"captcha_enabled"`
	LoginAttempts  int                  `yaml:"login_attempts"` // per client address and window
	LoginWindow    time.Duration        `yaml:"login_window"`
	AllowedOrigins []string             `yaml:"allowed_origins"`
	Media          Media                `yaml:"media"`
	Boards         []domain.BoardConfig `yaml:"boards" validate:"required,min=1,dive"`
	Roles          map[string]int       `yaml:"roles"` // minimum role per staff action
}

type Media struct {
	Backend  string `yaml:"backend" validate:"omitempty,oneof=local s3"`
	Root     string `yaml:"root"` // local directory, or key prefix for s3
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
	UseSSL   bool   `yaml:"use_ssl"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Redis struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3 struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Private struct {
	Pg             Pg     `yaml:"pg"`
	Redis          Redis  `yaml:"redis"`
	S3             S3     `yaml:"s3"`
	SecureTripSalt string `yaml:"secure_trip_salt" validate:"required"`
	HCaptchaSecret string `yaml:"hcaptcha_secret"`
}

var defaultRoles = map[string]int{
	domain.ActionImport:       domain.RoleAdmin,
	domain.ActionRebuild:      domain.RoleAdmin,
	domain.ActionDelete:       domain.RoleModerator,
	domain.ActionApprove:      domain.RoleJanitor,
	domain.ActionToggleLock:   domain.RoleModerator,
	domain.ActionToggleSticky: domain.RoleModerator,
}

func (s *Config) Pg() Pg {
	return s.private.Pg
}

func (s *Config) Redis() Redis {
	return s.private.Redis
}

func (s *Config) S3() S3 {
	return s.private.S3
}

func (s *Config) SecureTripSalt() string {
	return s.private.SecureTripSalt
}

func (s *Config) HCaptchaSecret() string {
	return s.private.HCaptchaSecret
}

// Board looks a board up in the registry.
func (p *Public) Board(id domain.BoardID) (domain.BoardConfig, bool) {
	for _, b := range p.Boards {
		if b.ID == id {
			return b, true
		}
	}
	return domain.BoardConfig{}, false
}

// MinRole is the lowest role allowed to run action.
func (p *Public) MinRole(action string) int {
	if role, ok := p.Roles[action]; ok {
		return role
	}
	if role, ok := defaultRoles[action]; ok {
		return role
	}
	return domain.RoleAdmin
}

func (p *Public) setDefaults() {
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.RequestTimeout == 0 {
		p.RequestTimeout = 30 * time.Second
	}
	if p.LoginAttempts == 0 {
		p.LoginAttempts = 5
	}
	if p.LoginWindow == 0 {
		p.LoginWindow = time.Minute
	}
	if p.Media.Backend == "" {
		p.Media.Backend = "local"
	}
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

func mustValidate(name string, cfg any) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic(fmt.Sprintf("invalid %s config: %v", name, err))
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.setDefaults()
	mustValidate("public", &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)
	mustValidate("private", &private)

	return &Config{public, private}
}
