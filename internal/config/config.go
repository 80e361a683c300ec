// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/gurkanbulca/workdesk/internal/database"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

const (
	defaultAccessSecret  = "dev-access-secret-change-in-production"
	defaultRefreshSecret = "dev-refresh-secret-change-in-production"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
}

type ServerConfig struct {
	GRPCPort         string
	HTTPPort         string
	Environment      string
	AutoMigrate      bool
	EnableReflection bool
	AppURL           string
	// Timezone names the IANA zone used for dashboard day boundaries.
	// Empty means the process's local zone.
	Timezone string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string
}

type JWTConfig struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// SecurityConfig holds password, cookie and rate limit settings
type SecurityConfig struct {
	BcryptCost int

	PasswordMinLength      int
	PasswordRequireUpper   bool
	PasswordRequireLower   bool
	PasswordRequireNumber  bool
	PasswordRequireSpecial bool

	CookieName     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite string

	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
}

// Load reads configuration from the environment, optionally layered over a
// YAML file named by CONFIG_FILE.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	accessSecret := v.GetString("JWT_ACCESS_SECRET")
	refreshSecret := v.GetString("JWT_REFRESH_SECRET")
	if shared := v.GetString("JWT_SECRET"); shared != "" {
		if accessSecret == defaultAccessSecret {
			accessSecret = shared
		}
		if refreshSecret == defaultRefreshSecret {
			refreshSecret = shared
		}
	}

	return &Config{
		Server: ServerConfig{
			GRPCPort:         v.GetString("GRPC_PORT"),
			HTTPPort:         v.GetString("HTTP_PORT"),
			Environment:      strings.ToLower(v.GetString("ENVIRONMENT")),
			AutoMigrate:      v.GetBool("AUTO_MIGRATE"),
			EnableReflection: v.GetBool("ENABLE_REFLECTION"),
			AppURL:           v.GetString("APP_URL"),
			Timezone:         v.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Path:     v.GetString("DB_PATH"),
		},
		JWT: JWTConfig{
			AccessSecret:         accessSecret,
			RefreshSecret:        refreshSecret,
			AccessTokenDuration:  v.GetDuration("JWT_ACCESS_TOKEN_DURATION"),
			RefreshTokenDuration: v.GetDuration("JWT_REFRESH_TOKEN_DURATION"),
		},
		Security: SecurityConfig{
			BcryptCost:             v.GetInt("BCRYPT_COST"),
			PasswordMinLength:      v.GetInt("PASSWORD_MIN_LENGTH"),
			PasswordRequireUpper:   v.GetBool("PASSWORD_REQUIRE_UPPER"),
			PasswordRequireLower:   v.GetBool("PASSWORD_REQUIRE_LOWER"),
			PasswordRequireNumber:  v.GetBool("PASSWORD_REQUIRE_NUMBER"),
			PasswordRequireSpecial: v.GetBool("PASSWORD_REQUIRE_SPECIAL"),
			CookieName:             v.GetString("COOKIE_NAME"),
			CookieDomain:           v.GetString("COOKIE_DOMAIN"),
			CookieSecure:           v.GetBool("COOKIE_SECURE"),
			CookieSameSite:         strings.ToLower(v.GetString("COOKIE_SAME_SITE")),
			RateLimitRequests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitWindow:        v.GetDuration("RATE_LIMIT_WINDOW"),
			AuthRateLimitRequests:  v.GetInt("AUTH_RATE_LIMIT_REQUESTS"),
			AuthRateLimitWindow:    v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"GRPC_PORT":         "50051",
		"HTTP_PORT":         "8080",
		"ENVIRONMENT":       "development",
		"AUTO_MIGRATE":      true,
		"ENABLE_REFLECTION": false,
		"APP_URL":           "http://localhost:5173",
		"APP_TIMEZONE":      "",

		"DB_DRIVER":   database.DriverPostgres,
		"DB_HOST":     "localhost",
		"DB_PORT":     5432,
		"DB_USER":     "postgres",
		"DB_PASSWORD": "postgres",
		"DB_NAME":     "workdesk",
		"DB_SSL_MODE": "disable",
		"DB_PATH":     "file:workdesk.db?_fk=1",

		"JWT_ACCESS_SECRET":          defaultAccessSecret,
		"JWT_REFRESH_SECRET":         defaultRefreshSecret,
		"JWT_ACCESS_TOKEN_DURATION":  15 * time.Minute,
		"JWT_REFRESH_TOKEN_DURATION": 7 * 24 * time.Hour,

		"BCRYPT_COST":              auth.DefaultCost,
		"PASSWORD_MIN_LENGTH":      8,
		"PASSWORD_REQUIRE_UPPER":   false,
		"PASSWORD_REQUIRE_LOWER":   false,
		"PASSWORD_REQUIRE_NUMBER":  false,
		"PASSWORD_REQUIRE_SPECIAL": false,

		"COOKIE_NAME":      "refreshToken",
		"COOKIE_DOMAIN":    "",
		"COOKIE_SECURE":    true,
		"COOKIE_SAME_SITE": "none",

		"RATE_LIMIT_REQUESTS":      100,
		"RATE_LIMIT_WINDOW":        15 * time.Minute,
		"AUTH_RATE_LIMIT_REQUESTS": 10,
		"AUTH_RATE_LIMIT_WINDOW":   time.Minute,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// ValidateConfig validates the configuration
func (c *Config) ValidateConfig() error {
	var errs []error

	if c.IsProduction() {
		if c.JWT.AccessSecret == defaultAccessSecret || c.JWT.RefreshSecret == defaultRefreshSecret {
			errs = append(errs, errors.New("JWT secrets must be changed in production"))
		}
		if !c.Security.CookieSecure {
			errs = append(errs, errors.New("COOKIE_SECURE cannot be disabled in production"))
		}
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("JWT secrets cannot be empty"))
	}
	if c.JWT.AccessTokenDuration <= 0 || c.JWT.RefreshTokenDuration <= 0 {
		errs = append(errs, errors.New("token durations must be positive"))
	}

	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Security.PasswordMinLength < 1 {
		errs = append(errs, errors.New("PASSWORD_MIN_LENGTH must be at least 1"))
	}
	switch c.Security.CookieSameSite {
	case "none", "lax", "strict":
	default:
		errs = append(errs, fmt.Errorf("COOKIE_SAME_SITE must be none, lax or strict, got %q", c.Security.CookieSameSite))
	}
	if c.Security.RateLimitRequests < 1 || c.Security.AuthRateLimitRequests < 1 {
		errs = append(errs, errors.New("rate limits must allow at least one request"))
	}
	if c.Security.RateLimitWindow <= 0 || c.Security.AuthRateLimitWindow <= 0 {
		errs = append(errs, errors.New("rate limit windows must be positive"))
	}

	switch c.Database.Driver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Location resolves APP_TIMEZONE
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

// ToDatabaseConfig converts to the database package's connection settings
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:   c.Database.Driver,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.DBName,
		SSLMode:  c.Database.SSLMode,
		Path:     c.Database.Path,
		Debug:    c.IsDevelopment(),
	}
}

// PasswordPolicy returns the configured registration rules
func (c *Config) PasswordPolicy() auth.PasswordPolicy {
	return auth.PasswordPolicy{
		MinLength:      c.Security.PasswordMinLength,
		RequireUpper:   c.Security.PasswordRequireUpper,
		RequireLower:   c.Security.PasswordRequireLower,
		RequireNumber:  c.Security.PasswordRequireNumber,
		RequireSpecial: c.Security.PasswordRequireSpecial,
	}
}

// AllowedOrigins returns the CORS origins derived from APP_URL, which may
// hold a comma-separated list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.AppURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
