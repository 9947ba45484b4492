package config

import "time"

// Config holds runtime configuration for the API service.
type Config struct {
	Environment        string
	Addr               string
	DatabaseURL        string
	MigrationsDir      string
	JWTSecret          string
	TokenEncryptionKey string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	SessionCookieName  string
	BuilderURL         string
	BuilderAuthToken   string
	EventsRedisAddr    string
	EventsRedisPass    string
	EventsRedisDB      int
	EventsChannel      string
	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
}

// Load constructs a Config from environment variables.
func Load() Config {
	return Config{
		Environment:        GetString("APP_ENV", "development"),
		Addr:               GetString("API_ADDR", ":4000"),
		DatabaseURL:        GetString("DATABASE_URL", "postgres://slipway:slipway@db:5432/slipway?sslmode=disable"),
		MigrationsDir:      GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		JWTSecret:          GetString("JWT_SECRET", "supersecuresecret"),
		TokenEncryptionKey: GetString("TOKEN_ENCRYPTION_KEY", "supersecuresecret"),
		AccessTokenTTL:     time.Duration(GetInt("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
		RefreshTokenTTL:    time.Duration(GetInt("REFRESH_TOKEN_TTL_HOURS", 24)) * time.Hour,
		SessionCookieName:  GetString("SESSION_COOKIE_NAME", "slipway_session"),
		BuilderURL:         GetString("BUILDER_URL", "http://builder:5000"),
		BuilderAuthToken:   GetString("BUILDER_AUTH_TOKEN", ""),
		EventsRedisAddr:    GetString("EVENTS_REDIS_ADDR", ""),
		EventsRedisPass:    GetString("EVENTS_REDIS_PASSWORD", ""),
		EventsRedisDB:      GetInt("EVENTS_REDIS_DB", 0),
		EventsChannel:      GetString("EVENTS_CHANNEL", "slipway:events"),
		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 0),
	}
}
