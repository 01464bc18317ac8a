package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestMustLoad(t *testing.T) {
	dir := writeConfigs(t,
		"environment: production\njwt_ttl: 24h\nlogin_max_attempts: 3\nlogin_window: 10m\nadmin_email: admin@skyreport.aero\n",
		"jwt_key: 'k'\nadmin_password: 'secret'\npg:\n  host: localhost\n  port: 5432\n  user: skyreport\n  dbname: skyreport\n")

	cfg := MustLoad(dir)

	if cfg.Public.LoginMaxAttempts != 3 {
		t.Errorf("expected login_max_attempts 3, got %d", cfg.Public.LoginMaxAttempts)
	}
	if cfg.Public.LoginWindow != 10*time.Minute {
		t.Errorf("expected login_window 10m, got %s", cfg.Public.LoginWindow)
	}
	if cfg.JwtTTL() != 24*time.Hour {
		t.Errorf("expected jwt_ttl 24h, got %s", cfg.JwtTTL())
	}
	if !cfg.Production() {
		t.Error("expected production environment")
	}
	if cfg.Private.AdminPassword != "secret" {
		t.Error("admin_password not loaded")
	}
}

func TestMustLoad_Defaults(t *testing.T) {
	dir := writeConfigs(t, "jwt_ttl: 1h\n", "jwt_key: 'k'\n")

	cfg := MustLoad(dir)

	if cfg.Public.LoginMaxAttempts != 5 {
		t.Errorf("expected default login_max_attempts 5, got %d", cfg.Public.LoginMaxAttempts)
	}
	if cfg.Public.LoginWindow != 5*time.Minute {
		t.Errorf("expected default login_window 5m, got %s", cfg.Public.LoginWindow)
	}
	if cfg.Public.ReportsPerPage != 20 {
		t.Errorf("expected default reports_per_page 20, got %d", cfg.Public.ReportsPerPage)
	}
	if cfg.Production() {
		t.Error("expected non-production by default")
	}
}

func TestMustLoad_EnvOverrides(t *testing.T) {
	dir := writeConfigs(t, "jwt_ttl: 1h\nadmin_email: old@skyreport.aero\n", "jwt_key: 'file-key'\n")

	t.Setenv("SKYREPORT_JWT_KEY", "env-key")
	t.Setenv("SKYREPORT_ADMIN_EMAIL", "new@skyreport.aero")
	t.Setenv("SKYREPORT_ENV", "production")

	cfg := MustLoad(dir)

	if cfg.JwtKey() != "env-key" {
		t.Errorf("expected env override for jwt key, got %q", cfg.JwtKey())
	}
	if cfg.Public.AdminEmail != "new@skyreport.aero" {
		t.Errorf("expected env override for admin email, got %q", cfg.Public.AdminEmail)
	}
	if !cfg.Production() {
		t.Error("expected env override to set production")
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for missing config folder, got none")
		}
	}()
	_ = MustLoad(t.TempDir())
}
