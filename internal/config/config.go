package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ulule/limiter/v3"
)

// Guest store backends.
const (
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	Store          string
	DatabaseURL    string
	MigrationsPath string

	FirebaseProjectID string
	CredentialsFile   string

	HTTPAddr      string
	PublicBaseURL string
	CORSOrigins   []string
	RateLimit     string

	DefaultLocale string
	Timezone      string
	LogLevel      string
	LogFormat     string

	DiscordToken   string
	DiscordGuildID string

	ScanResumeDelay time.Duration
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when the variables come from the environment (Docker, CI, etc.).
	}

	cfg := &Config{
		Store:             strings.ToLower(getenv("STORE", StorePostgres)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsPath:    getenv("MIGRATIONS_PATH", "migrations"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		PublicBaseURL:     getenv("PUBLIC_BASE_URL", "http://localhost:3000"),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
		RateLimit:         getenv("RATE_LIMIT", "100-M"),
		DefaultLocale:     getenv("DEFAULT_LOCALE", "es"),
		Timezone:          getenv("TIMEZONE", "America/Mexico_City"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "json"),
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID:    os.Getenv("DISCORD_GUILD_ID"),
	}

	delay := getenv("SCAN_RESUME_DELAY", "3s")
	d, err := time.ParseDuration(delay)
	if err != nil {
		return nil, fmt.Errorf("config: SCAN_RESUME_DELAY invalid (%q): %w", delay, err)
	}
	cfg.ScanResumeDelay = d

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies the rules shared by every command.
func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Local default when DATABASE_URL is not provided.
			c.DatabaseURL = "postgres://localhost:5432/invitapp?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalid (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalid (%q): missing scheme or host", c.DatabaseURL)
		}
	case StoreFirestore:
		if strings.TrimSpace(c.FirebaseProjectID) == "" {
			return fmt.Errorf("config: FIREBASE_PROJECT_ID is required when STORE=firestore")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: STORE must be postgres, firestore or memory (got %q)", c.Store)
	}

	base, err := url.Parse(c.PublicBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("config: PUBLIC_BASE_URL invalid (%q)", c.PublicBaseURL)
	}

	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		return fmt.Errorf("config: RATE_LIMIT invalid (%q): %w", c.RateLimit, err)
	}

	if c.ScanResumeDelay <= 0 {
		return fmt.Errorf("config: SCAN_RESUME_DELAY must be positive")
	}

	return nil
}

// ValidateDiscord checks the settings the Discord console needs on top of
// the common ones.
func (c *Config) ValidateDiscord() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return fmt.Errorf("config: DISCORD_TOKEN is required and cannot be empty")
	}
	for _, r := range c.DiscordGuildID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: DISCORD_GUILD_ID must be a Discord guild ID (digits only)")
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
