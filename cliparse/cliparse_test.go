// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

var configEnv = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE", "CHANGE_FEED", "SESSION_SECRET",
	"SESSION_TTL", "IP_HASH_SALT", "ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_NAME",
	"SCRIPTURE_API_URL", "SCRIPTURE_TRANSLATION", "RESEND_API_KEY", "NOTIFY_FROM",
	"NOTIFY_TO", "LOG_FORMAT",
}

// clearEnv blanks every variable ParseFlags reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "test-session")
	t.Setenv("IP_HASH_SALT", "test-salt")
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	setSecrets(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.ChangeFeed != FeedPostgres {
		t.Errorf("expected postgres feed by default for postgres, got %s", cfg.ChangeFeed)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	setSecrets(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-session-secret", "s1", "-ip-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.SessionSecret != "s1" || cfg.IPHashSalt != "s2" {
		t.Errorf("secrets not taken from flags: %+v", cfg)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	setSecrets(t)

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "vivendo.db" {
		t.Errorf("expected default sqlite file, got %s", cfg.DatabaseURL)
	}
	if cfg.ChangeFeed != FeedLocal {
		t.Errorf("expected local feed, got %s", cfg.ChangeFeed)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("expected 12h session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.ScriptureAPIURL != "https://bible-api.com" || cfg.Translation != "almeida" {
		t.Errorf("unexpected scripture defaults: %s %s", cfg.ScriptureAPIURL, cfg.Translation)
	}
	if cfg.NotificationsEnabled() {
		t.Error("notifications should be off without a Resend key")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing session secret", map[string]string{"IP_HASH_SALT": "x"}, nil},
		{"missing ip salt", map[string]string{"SESSION_SECRET": "x"}, nil},
		{"postgres without url", map[string]string{"SESSION_SECRET": "x", "IP_HASH_SALT": "y", "DATABASE_TYPE": "postgres"}, nil},
		{"unknown database type", map[string]string{"SESSION_SECRET": "x", "IP_HASH_SALT": "y"}, []string{"-t", "mysql"}},
		{"postgres feed on sqlite", map[string]string{"SESSION_SECRET": "x", "IP_HASH_SALT": "y"}, []string{"-feed", "postgres"}},
		{"bad port", map[string]string{"SESSION_SECRET": "x", "IP_HASH_SALT": "y", "PORT": "abc"}, nil},
		{"admin username without password", map[string]string{"SESSION_SECRET": "x", "IP_HASH_SALT": "y", "ADMIN_USERNAME": "admin"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_AdminBootstrap(t *testing.T) {
	clearEnv(t)
	setSecrets(t)
	t.Setenv("ADMIN_USERNAME", "mario")
	t.Setenv("ADMIN_PASSWORD", "segredo")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AdminName != "mario" {
		t.Errorf("admin name should default to username, got %q", cfg.AdminName)
	}
}
