package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderDescope = "descope"
	ProviderJWT     = "jwt"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s := GetString(config, key, "")
	if s == "" {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return asBool
}

// GetStrings splits a comma separated value, dropping blank entries.
func GetStrings(config map[string]string, key string, defaultValue []string) []string {
	s := GetString(config, key, "")
	if s == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Config is the typed configuration shared by both services.
type Config struct {
	Service     string
	Port        string
	Environment string

	DatabaseURL    string
	MigrateOnStart bool
	GenerateModels bool

	AcceptedOrigins []string

	IdentityProvider     string
	DescopeProjectID     string
	DescopeManagementKey string
	JWTSecret            string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxBodyBytes       int64
	RateLimitPerMinute int
	// TrustProxyHeaders keys anonymous callers by X-Forwarded-For. Only set it behind a proxy that overwrites the header.
	TrustProxyHeaders  bool

	LogLevel  string
	LogDir    string
	SentryDSN string
}

// Load builds a Config for service from an environment map as returned by New.
func Load(service string, c map[string]string) Config {
	env := GetString(c, "APP_ENV", GetString(c, "NODE_ENV", "development"))

	return Config{
		Service:     service,
		Port:        GetString(c, "PORT", "5000"),
		Environment: strings.ToLower(env),

		DatabaseURL:    databaseURL(c),
		MigrateOnStart: GetBool(c, "MIGRATE_ON_START", true),
		GenerateModels: GetBool(c, "GENERATE_MODELS", false),

		AcceptedOrigins: GetStrings(c, "ACCEPTED_ORIGINS", []string{"*"}),

		IdentityProvider:     strings.ToLower(GetString(c, "IDENTITY_PROVIDER", ProviderDescope)),
		DescopeProjectID:     GetString(c, "DESCOPE_PROJECT_ID", ""),
		DescopeManagementKey: GetString(c, "DESCOPE_MANAGEMENT_KEY", ""),
		JWTSecret:            GetString(c, "JWT_SECRET", ""),

		ReadTimeout:  time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout: time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:  time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,

		MaxBodyBytes:       int64(GetInt(c, "MAX_BODY_BYTES", 1<<20)),
		RateLimitPerMinute: GetInt(c, "RATE_LIMIT_PER_MINUTE", 60),
		TrustProxyHeaders:  GetBool(c, "TRUST_PROXY_HEADERS", false),

		LogLevel:  GetString(c, "LOG_LEVEL", ""),
		LogDir:    GetString(c, "LOG_DIR", ""),
		SentryDSN: GetString(c, "SENTRY_DSN", ""),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Address is the listen address; binds every interface like the reverse proxy expects.
func (c Config) Address() string {
	return net.JoinHostPort("0.0.0.0", c.Port)
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL or DB_HOST must be set", ErrConfigMissing)
	}

	switch c.IdentityProvider {
	case ProviderDescope:
		if c.DescopeProjectID == "" {
			return fmt.Errorf("%w: DESCOPE_PROJECT_ID is required for the descope provider", ErrConfigMissing)
		}
	case ProviderJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("%w: JWT_SECRET is required for the jwt provider", ErrConfigMissing)
		}
	default:
		return fmt.Errorf("%w: unknown IDENTITY_PROVIDER %q", ErrConfigInvalid, c.IdentityProvider)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: MAX_BODY_BYTES must be positive", ErrConfigInvalid)
	}
	return nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles a postgres URL from the DB_* parts.
func databaseURL(c map[string]string) string {
	if u := GetString(c, "DATABASE_URL", ""); u != "" {
		return u
	}

	host := GetString(c, "DB_HOST", "")
	if host == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(GetString(c, "DB_USER", "postgres"), GetString(c, "DB_PASSWORD", "")),
		Host:   net.JoinHostPort(host, GetString(c, "DB_PORT", "5432")),
		Path:   "/" + GetString(c, "DB_NAME", "blog"),
	}
	q := url.Values{}
	q.Set("sslmode", GetString(c, "DB_SSLMODE", "require"))
	u.RawQuery = q.Encode()

	return u.String()
}
