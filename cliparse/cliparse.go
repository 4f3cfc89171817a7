package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Change feed modes
const (
	FeedLocal    = "local"
	FeedPostgres = "postgres"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	ChangeFeed   string

	SessionSecret string
	SessionTTL    time.Duration
	IPHashSalt    string

	AdminUsername string
	AdminPassword string
	AdminName     string

	ScriptureAPIURL string
	Translation     string

	ResendAPIKey string
	NotifyFrom   string
	NotifyTo     string

	LogFormat string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("vivendo-na-fe", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.ChangeFeed, "feed", "", "Change feed (local or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Admin session signing secret (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "Voter IP hash salt (prefer env)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Admin session lifetime")

	fs.StringVar(&cfg.ScriptureAPIURL, "scripture-api", "", "Scripture API base URL")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != DatabaseSQLite {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "vivendo.db"
	}

	if cfg.ChangeFeed == "" {
		cfg.ChangeFeed = os.Getenv("CHANGE_FEED")
	}
	if cfg.ChangeFeed == "" {
		cfg.ChangeFeed = FeedLocal
		if cfg.DatabaseType == DatabasePostgres {
			cfg.ChangeFeed = FeedPostgres
		}
	}
	if cfg.ChangeFeed == FeedPostgres && cfg.DatabaseType != DatabasePostgres {
		return Config{}, errors.New("postgres change feed requires a postgres database")
	}
	if cfg.ChangeFeed != FeedLocal && cfg.ChangeFeed != FeedPostgres {
		return Config{}, errors.New("change feed must be local or postgres")
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	if cfg.SessionTTL == 0 {
		if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = d
		} else {
			cfg.SessionTTL = 12 * time.Hour
		}
	}

	// Bootstrap admin is optional, but both halves go together
	cfg.AdminUsername = os.Getenv("ADMIN_USERNAME")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminName = os.Getenv("ADMIN_NAME")
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if cfg.AdminName == "" {
		cfg.AdminName = cfg.AdminUsername
	}

	if cfg.ScriptureAPIURL == "" {
		cfg.ScriptureAPIURL = os.Getenv("SCRIPTURE_API_URL")
	}
	if cfg.ScriptureAPIURL == "" {
		cfg.ScriptureAPIURL = "https://bible-api.com"
	}
	cfg.Translation = os.Getenv("SCRIPTURE_TRANSLATION")
	if cfg.Translation == "" {
		cfg.Translation = "almeida"
	}

	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.NotifyFrom = os.Getenv("NOTIFY_FROM")
	cfg.NotifyTo = os.Getenv("NOTIFY_TO")

	if cfg.LogFormat == "" {
		cfg.LogFormat = os.Getenv("LOG_FORMAT")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	return cfg, nil
}

// NotificationsEnabled reports whether admin email notifications are configured
func (c Config) NotificationsEnabled() bool {
	return c.ResendAPIKey != "" && c.NotifyFrom != "" && c.NotifyTo != ""
}
