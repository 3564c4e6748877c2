// Сервіс для Kubernetes - читає конфігурацію зі змінних середовища
package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"looply-spotify/internal/config"
)

func main() {
	cfg := loadConfigFromEnv()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := config.StartServer(cfg); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfigFromEnv() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:         getEnv("HOST", "0.0.0.0"),
			Port:         getEnvInt("PORT", 8080),
			Environment:  getEnv("MODE", "production"),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			LogFormat:    getEnv("LOG_FORMAT", "json"),
			ReadTimeout:  getEnv("READ_TIMEOUT", "30s"),
			WriteTimeout: getEnv("WRITE_TIMEOUT", "30s"),
			IdleTimeout:  getEnv("IDLE_TIMEOUT", "120s"),
		},

		Database: config.DatabaseConfig{
			Driver:                getEnv("DB_DRIVER", "postgres"),
			Host:                  getEnv("DB_HOST", "postgres-service"),
			Port:                  getEnvInt("DB_PORT", 5432),
			Name:                  getEnv("DB_NAME", "looply"),
			User:                  getEnv("DB_USER", "looply"),
			Password:              getEnv("DB_PASSWORD", ""),
			SSLMode:               getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConnections:    getEnvInt("DB_MAX_OPEN_CONNECTIONS", 10),
			MaxIdleConnections:    getEnvInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnectionMaxLifetime: getEnv("DB_CONN_MAX_LIFETIME", "5m"),
			AutoMigrate:           getEnvBool("DB_AUTO_MIGRATE", true),
		},

		Spotify: config.SpotifyConfig{
			ClientID:        getEnv("SPOTIFY_CLIENT_ID", ""),
			ClientSecret:    getEnv("SPOTIFY_CLIENT_SECRET", ""),
			RedirectURI:     getEnv("SPOTIFY_REDIRECT_URI", ""),
			FrontendBaseURL: getEnv("FRONTEND_BASE_URL", ""),
			AuthURL:         getEnv("SPOTIFY_AUTH_URL", ""),
			TokenURL:        getEnv("SPOTIFY_TOKEN_URL", ""),
			APIBaseURL:      getEnv("SPOTIFY_API_BASE_URL", ""),
			ExpiryMargin:    getEnv("SPOTIFY_EXPIRY_MARGIN", "60s"),
			HTTPTimeout:     getEnv("SPOTIFY_HTTP_TIMEOUT", "30s"),
		},

		Security: config.SecurityConfig{
			TokenEncryptionKey: getEnv("TOKEN_ENCRYPTION_KEY", ""),
			CORS: config.CORSConfig{
				AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
					"http://localhost:3000",
					"http://127.0.0.1:3000",
				}),
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{
					"Content-Type",
					"Authorization",
					"Accept",
					"Origin",
					"X-Request-ID",
				},
				AllowCredentials: true,
				MaxAge:           3600,
			},
			RateLimit: config.RateLimitConfig{
				Enabled:           getEnvBool("RATE_LIMIT_ENABLED", false),
				RequestsPerMinute: getEnvInt("RATE_LIMIT_RPM", 120),
				Burst:             getEnvInt("RATE_LIMIT_BURST", 20),
			},
			CallerAuth: config.CallerAuthConfig{
				Enabled:    getEnvBool("CALLER_AUTH_ENABLED", false),
				SigningKey: getEnv("CALLER_SIGNING_KEY", ""),
				Issuer:     getEnv("CALLER_ISSUER", ""),
				Audience:   getEnv("CALLER_AUDIENCE", ""),
			},
		},

		Redis: config.RedisConfig{
			Enabled:    getEnvBool("REDIS_ENABLED", false),
			Host:       getEnv("REDIS_HOST", "redis-service"),
			Port:       getEnvInt("REDIS_PORT", 6379),
			Password:   getEnv("REDIS_PASSWORD", ""),
			Database:   getEnvInt("REDIS_DB", 0),
			MaxRetries: getEnvInt("REDIS_MAX_RETRIES", 3),
			PoolSize:   getEnvInt("REDIS_POOL_SIZE", 10),
			LockExpiry: getEnv("REDIS_LOCK_EXPIRY", "10s"),
		},
	}

	if scopes := getEnv("SPOTIFY_SCOPES", ""); scopes != "" {
		cfg.Spotify.Scopes = strings.Fields(scopes)
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
