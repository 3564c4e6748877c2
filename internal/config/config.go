package config

import (
	"fmt"
	"os"
	"strings"

	"looply-spotify/internal/middleware"
	"looply-spotify/internal/services"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Адреси Spotify за замовчуванням
const (
	DefaultSpotifyAuthURL    = "https://accounts.spotify.com/authorize"
	DefaultSpotifyTokenURL   = "https://accounts.spotify.com/api/token"
	DefaultSpotifyAPIBaseURL = "https://api.spotify.com/v1/"
)

// Config представляє повну конфігурацію додатку
type Config struct {
	Server   ServerConfig   `hcl:"server,block"`
	Database DatabaseConfig `hcl:"database,block"`
	Spotify  SpotifyConfig  `hcl:"spotify,block"`
	Security SecurityConfig `hcl:"security,block"`
	Redis    RedisConfig    `hcl:"redis,block"`
}

// ServerConfig містить налаштування HTTP сервера
type ServerConfig struct {
	Host         string `hcl:"host,optional"`
	Port         int    `hcl:"port"`
	Environment  string `hcl:"environment,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	LogFormat    string `hcl:"log_format,optional"`
	ReadTimeout  string `hcl:"read_timeout,optional"`
	WriteTimeout string `hcl:"write_timeout,optional"`
	IdleTimeout  string `hcl:"idle_timeout,optional"`
}

// DatabaseConfig містить налаштування сховища токенів
type DatabaseConfig struct {
	Driver                string `hcl:"driver,optional"`
	Host                  string `hcl:"host,optional"`
	Port                  int    `hcl:"port,optional"`
	Name                  string `hcl:"name,optional"`
	User                  string `hcl:"user,optional"`
	Password              string `hcl:"password,optional"`
	SSLMode               string `hcl:"ssl_mode,optional"`
	MaxOpenConnections    int    `hcl:"max_open_connections,optional"`
	MaxIdleConnections    int    `hcl:"max_idle_connections,optional"`
	ConnectionMaxLifetime string `hcl:"connection_max_lifetime,optional"`
	AutoMigrate           bool   `hcl:"auto_migrate,optional"`
}

// SpotifyConfig містить налаштування інтеграції зі Spotify
type SpotifyConfig struct {
	ClientID        string   `hcl:"client_id"`
	ClientSecret    string   `hcl:"client_secret"`
	RedirectURI     string   `hcl:"redirect_uri"`
	FrontendBaseURL string   `hcl:"frontend_base_url"`
	AuthURL         string   `hcl:"auth_url,optional"`
	TokenURL        string   `hcl:"token_url,optional"`
	APIBaseURL      string   `hcl:"api_base_url,optional"`
	Scopes          []string `hcl:"scopes,optional"`
	ExpiryMargin    string   `hcl:"expiry_margin,optional"`
	HTTPTimeout     string   `hcl:"http_timeout,optional"`
}

// SecurityConfig містить налаштування безпеки
type SecurityConfig struct {
	CORS               CORSConfig       `hcl:"cors,block"`
	RateLimit          RateLimitConfig  `hcl:"rate_limit,block"`
	CallerAuth         CallerAuthConfig `hcl:"caller_auth,block"`
	TokenEncryptionKey string           `hcl:"token_encryption_key,optional"`
}

// CORSConfig містить налаштування CORS
type CORSConfig struct {
	AllowedOrigins   []string `hcl:"allowed_origins,optional"`
	AllowedMethods   []string `hcl:"allowed_methods,optional"`
	AllowedHeaders   []string `hcl:"allowed_headers,optional"`
	AllowCredentials bool     `hcl:"allow_credentials,optional"`
	MaxAge           int      `hcl:"max_age,optional"`
}

// RateLimitConfig містить налаштування rate limiting
type RateLimitConfig struct {
	Enabled           bool `hcl:"enabled,optional"`
	RequestsPerMinute int  `hcl:"requests_per_minute,optional"`
	Burst             int  `hcl:"burst,optional"`
}

// CallerAuthConfig містить налаштування перевірки токенів викликача
type CallerAuthConfig struct {
	Enabled    bool   `hcl:"enabled,optional"`
	SigningKey string `hcl:"signing_key,optional"`
	Issuer     string `hcl:"issuer,optional"`
	Audience   string `hcl:"audience,optional"`
}

// RedisConfig містить налаштування Redis (розподілене блокування оновлень токенів)
type RedisConfig struct {
	Enabled    bool   `hcl:"enabled,optional"`
	Host       string `hcl:"host,optional"`
	Port       int    `hcl:"port,optional"`
	Password   string `hcl:"password,optional"`
	Database   int    `hcl:"database,optional"`
	MaxRetries int    `hcl:"max_retries,optional"`
	PoolSize   int    `hcl:"pool_size,optional"`
	LockExpiry string `hcl:"lock_expiry,optional"`
}

// LoadConfig завантажує конфігурацію з HCL файлу
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var config Config
	if err := hclsimple.DecodeFile(configPath, evalContext(), &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults заповнює необов'язкові параметри значеннями за замовчуванням
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Spotify.AuthURL == "" {
		c.Spotify.AuthURL = DefaultSpotifyAuthURL
	}
	if c.Spotify.TokenURL == "" {
		c.Spotify.TokenURL = DefaultSpotifyTokenURL
	}
	if c.Spotify.APIBaseURL == "" {
		c.Spotify.APIBaseURL = DefaultSpotifyAPIBaseURL
	}
	if len(c.Spotify.Scopes) == 0 {
		c.Spotify.Scopes = services.DefaultScopes
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
}

// Validate перевіряє валідність конфігурації
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if missing := c.SpotifySettings().Missing(); len(missing) > 0 {
		return fmt.Errorf("spotify settings are required: %s", strings.Join(missing, ", "))
	}

	if c.Security.CallerAuth.Enabled && c.Security.CallerAuth.SigningKey == "" {
		return fmt.Errorf("caller auth signing key is required when caller auth is enabled")
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis is enabled")
	}

	return nil
}

// GetAddress повертає адресу для прослуховування сервера
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseDSN повертає DSN для підключення до бази даних
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddress повертає адресу Redis
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsDevelopment перевіряє чи додаток працює в режимі розробки
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction перевіряє чи додаток працює в продакшн режимі
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// SpotifySettings перетворює HCL конфігурацію на налаштування сервісів
func (c *Config) SpotifySettings() services.SpotifySettings {
	return services.SpotifySettings{
		ClientID:        c.Spotify.ClientID,
		ClientSecret:    c.Spotify.ClientSecret,
		RedirectURI:     c.Spotify.RedirectURI,
		FrontendBaseURL: c.Spotify.FrontendBaseURL,
		AuthURL:         c.Spotify.AuthURL,
		TokenURL:        c.Spotify.TokenURL,
		APIBaseURL:      c.Spotify.APIBaseURL,
		Scopes:          c.Spotify.Scopes,
		ExpiryMargin:    parseDuration("spotify.expiry_margin", c.Spotify.ExpiryMargin, services.DefaultExpiryMargin),
		HTTPTimeout:     parseDuration("spotify.http_timeout", c.Spotify.HTTPTimeout, defaultHTTPTimeout),
	}
}

func (c *Config) corsOptions() middleware.CORSOptions {
	return middleware.CORSOptions{
		AllowedOrigins:   c.Security.CORS.AllowedOrigins,
		AllowedMethods:   c.Security.CORS.AllowedMethods,
		AllowedHeaders:   c.Security.CORS.AllowedHeaders,
		AllowCredentials: c.Security.CORS.AllowCredentials,
		MaxAge:           c.Security.CORS.MaxAge,
	}
}

// GenerateConfigFromTemplate генерує HCL конфігурацію з шаблону використовуючи змінні
func GenerateConfigFromTemplate(templatePath, outputPath string, vars map[string]interface{}) error {
	return generateConfigWithVars(templatePath, outputPath, vars)
}
