package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Environment      string        `yaml:"environment"` // "production" disables the demo login
	LogLevel         string        `yaml:"log_level"`
	LogJSON          bool          `yaml:"log_json"`
	JwtTTL           time.Duration `yaml:"jwt_ttl"`
	SecureCookies    bool          `yaml:"secure_cookies"`
	LoginMaxAttempts int           `yaml:"login_max_attempts"`
	LoginWindow      time.Duration `yaml:"login_window"`
	ReportsPerPage   int           `yaml:"reports_per_page"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	AdminEmail       string        `yaml:"admin_email"`
}

type Private struct {
	Pg              Pg     `yaml:"pg"`
	JwtKey          string `yaml:"jwt_key"`
	AdminPassword   string `yaml:"admin_password"`
	AuditWebhookURL string `yaml:"audit_webhook_url"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func (c *Config) Production() bool {
	return c.Public.Environment == "production"
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// applyEnvOverrides lets deployments inject secrets without editing
// private.yaml. Only secret material is overridable this way.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SKYREPORT_JWT_KEY"); v != "" {
		cfg.Private.JwtKey = v
	}
	if v := os.Getenv("SKYREPORT_ADMIN_EMAIL"); v != "" {
		cfg.Public.AdminEmail = v
	}
	if v := os.Getenv("SKYREPORT_ADMIN_PASSWORD"); v != "" {
		cfg.Private.AdminPassword = v
	}
	if v := os.Getenv("SKYREPORT_AUDIT_WEBHOOK_URL"); v != "" {
		cfg.Private.AuditWebhookURL = v
	}
	if v := os.Getenv("SKYREPORT_PG_PASSWORD"); v != "" {
		cfg.Private.Pg.Password = v
	}
	if v := os.Getenv("SKYREPORT_ENV"); v != "" {
		cfg.Public.Environment = v
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	applyEnvOverrides(cfg)

	if cfg.Public.LoginMaxAttempts == 0 {
		cfg.Public.LoginMaxAttempts = 5
	}
	if cfg.Public.LoginWindow == 0 {
		cfg.Public.LoginWindow = 5 * time.Minute
	}
	if cfg.Public.ReportsPerPage == 0 {
		cfg.Public.ReportsPerPage = 20
	}
	return cfg
}
