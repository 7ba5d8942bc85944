package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          int
	UpstreamURL   string
	UpstreamKey   string
	DatabaseURL   string
	DatabaseType  string
	SessionSalt   string
	SessionTTL    time.Duration
	AllowedEmails []string
}

// fileConfig is the optional YAML config file shape. Flags and environment
// variables take precedence over values loaded from it.
type fileConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Upstream struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"upstream"`
	Database struct {
		URL  string `yaml:"url"`
		Type string `yaml:"type"`
	} `yaml:"database"`
	Auth struct {
		SessionSalt   string   `yaml:"session_salt"`
		SessionTTL    string   `yaml:"session_ttl"`
		AllowedEmails []string `yaml:"allowed_emails"`
	} `yaml:"auth"`
}

// ParseFlags builds the configuration from CLI flags, environment variables,
// and an optional YAML config file, in that order of precedence.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var configPath string
	var ttlStr string
	var emailsStr string

	fs := flag.NewFlagSet("stockdeck", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.UpstreamURL, "u", "", "Upstream analytics API base URL")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Session database URL or file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Session database type (sqlite or postgres)")
	fs.StringVar(&configPath, "c", "", "Optional YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.UpstreamKey, "upstream-key", "", "Upstream API service credential (prefer env)")
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Login key salt (prefer env)")
	fs.StringVar(&ttlStr, "session-ttl", "", "Session time-to-live (e.g. 720h)")
	fs.StringVar(&emailsStr, "allowed-emails", "", "Comma-separated sign-in allowlist")

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
		}
	}
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = os.Getenv("UPSTREAM_API_URL")
	}
	if cfg.UpstreamKey == "" {
		cfg.UpstreamKey = os.Getenv("API_SECRET_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
	}
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if ttlStr == "" {
		ttlStr = os.Getenv("SESSION_TTL")
	}
	if emailsStr == "" {
		emailsStr = os.Getenv("ALLOWED_EMAILS")
	}
	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}

	// Then the config file, for anything still unset
	if configPath != "" {
		fc, err := loadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if cfg.Port == 0 {
			cfg.Port = fc.Server.Port
		}
		if cfg.UpstreamURL == "" {
			cfg.UpstreamURL = fc.Upstream.URL
		}
		if cfg.UpstreamKey == "" {
			cfg.UpstreamKey = fc.Upstream.Key
		}
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = fc.Database.URL
		}
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = fc.Database.Type
		}
		if cfg.SessionSalt == "" {
			cfg.SessionSalt = fc.Auth.SessionSalt
		}
		if ttlStr == "" {
			ttlStr = fc.Auth.SessionTTL
		}
		if emailsStr == "" && len(fc.Auth.AllowedEmails) > 0 {
			emailsStr = strings.Join(fc.Auth.AllowedEmails, ",")
		}
	}

	// Defaults
	if cfg.Port == 0 {
		cfg.Port = 3318
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = "sqlite"
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "sqlite" {
			cfg.DatabaseURL = "stockdeck.db"
		} else {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	}
	if ttlStr == "" {
		ttlStr = "720h"
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		return Config{}, errors.New("invalid session TTL")
	}
	cfg.SessionTTL = ttl

	cfg.AllowedEmails = splitEmails(emailsStr)

	// Required settings - MUST be provided
	if cfg.UpstreamURL == "" {
		return Config{}, errors.New("upstream API URL required (use -u or UPSTREAM_API_URL env)")
	}
	if cfg.UpstreamKey == "" {
		return Config{}, errors.New("API_SECRET_KEY required")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

func splitEmails(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
