package config

import (
	"testing"
	"time"
)

func TestPasswordPolicyValidate(t *testing.T) {
	policy := PasswordPolicy{MinLength: 6}

	if err := policy.Validate("short"); err == nil {
		t.Fatalf("expected error for short password")
	}
	if err := policy.Validate("secret1"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
	if err := policy.Validate("123456"); err != nil {
		t.Fatalf("expected password at exact minimum to pass, got %v", err)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := getEnv("TEST_STRING", "default"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := getEnv("MISSING_STRING", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("TEST_DURATION", "30")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}
	t.Setenv("TEST_DURATION", "invalid")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 5*time.Minute {
		t.Fatalf("expected default duration, got %v", got)
	}

	t.Setenv("TEST_INT", "42")
	if got := getIntEnv("TEST_INT", 5); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("TEST_INT", "invalid")
	if got := getIntEnv("TEST_INT", 5); got != 5 {
		t.Fatalf("expected default int, got %d", got)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/accounts")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when MYSQL_DSN is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/accounts")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "")
	t.Setenv("RESET_TOKEN_TTL", "")
	t.Setenv("PASSWORD_MIN_LENGTH", "")
	t.Setenv("BCRYPT_COST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.JWT.AccessTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7d access token TTL, got %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.Tokens.ResetTTL != time.Hour {
		t.Fatalf("expected 1h reset TTL, got %v", cfg.Tokens.ResetTTL)
	}
	if cfg.Password.Policy.MinLength != 6 {
		t.Fatalf("expected min length 6, got %d", cfg.Password.Policy.MinLength)
	}
	if cfg.Password.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.Password.BcryptCost)
	}
	if cfg.SMTP.Enabled() {
		t.Fatalf("expected SMTP to be disabled without host and from")
	}
}
