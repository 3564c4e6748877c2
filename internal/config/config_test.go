package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"looply-spotify/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigHCL = `
server {
  port        = 8081
  environment = "test"
}

database {
  driver = "memory"
}

spotify {
  client_id         = "client-id"
  client_secret     = env("TEST_SPOTIFY_SECRET")
  redirect_uri      = "http://localhost:8081/auth/spotify/callback"
  frontend_base_url = env("TEST_FRONTEND_URL", "http://localhost:3000")
  expiry_margin     = "30s"
}

security {
  token_encryption_key = env("TEST_TOKEN_KEY")

  cors {
    allowed_origins = ["http://localhost:3000"]
    allowed_methods = ["GET", "POST", "OPTIONS"]
  }

  rate_limit {}

  caller_auth {
    enabled     = true
    signing_key = "caller-key"
    issuer      = "looply"
  }
}

redis {}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func validConfig() *Config {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
		Spotify: SpotifyConfig{
			ClientID:        "client-id",
			ClientSecret:    "client-secret",
			RedirectURI:     "http://localhost:8080/auth/spotify/callback",
			FrontendBaseURL: "http://localhost:3000",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TEST_SPOTIFY_SECRET", "from-env")
	t.Setenv("TEST_TOKEN_KEY", "encryption-key")

	cfg, err := LoadConfig(writeConfig(t, testConfigHCL))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8081", cfg.GetAddress())
	assert.Equal(t, "from-env", cfg.Spotify.ClientSecret)
	assert.Equal(t, "http://localhost:3000", cfg.Spotify.FrontendBaseURL, "env default is used when the variable is unset")
	assert.Equal(t, "encryption-key", cfg.Security.TokenEncryptionKey)
	assert.True(t, cfg.Security.CallerAuth.Enabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Security.CORS.AllowedOrigins)

	settings := cfg.SpotifySettings()
	assert.Equal(t, DefaultSpotifyTokenURL, settings.TokenURL)
	assert.Equal(t, DefaultSpotifyAuthURL, settings.AuthURL)
	assert.Equal(t, services.DefaultScopes, settings.Scopes)
	assert.Equal(t, 30*time.Second, settings.ExpiryMargin)
	assert.Equal(t, defaultHTTPTimeout, settings.HTTPTimeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "does not exist")

	_, err = LoadConfig(writeConfig(t, `server {`))
	assert.ErrorContains(t, err, "failed to decode")

	// client_secret порожній, бо змінна оточення не задана
	_, err = LoadConfig(writeConfig(t, testConfigHCL))
	assert.ErrorContains(t, err, "client_secret")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported database driver"},
		{"postgres without host", func(c *Config) { c.Database.Driver = "postgres" }, "database host is required"},
		{"missing client id", func(c *Config) { c.Spotify.ClientID = "" }, "client_id"},
		{"missing frontend", func(c *Config) { c.Spotify.FrontendBaseURL = "" }, "frontend_base_url"},
		{"caller auth without key", func(c *Config) { c.Security.CallerAuth.Enabled = true }, "signing key"},
		{"redis without host", func(c *Config) { c.Redis.Enabled = true }, "redis host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, DefaultSpotifyAPIBaseURL, cfg.Spotify.APIBaseURL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Host: "db", Port: 5433, User: "looply", Password: "pw", Name: "looply", SSLMode: "require"}

	assert.Equal(t, "host=db port=5433 user=looply password=pw dbname=looply sslmode=require", cfg.GetDatabaseDSN())
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("x", "", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("x", "90s", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("x", "soon", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("x", "-5s", time.Minute))
}

func TestProcessVarTags(t *testing.T) {
	content := strings.Join([]string{
		`port = {{var "port" 8080 true}}`,
		`host = {{var "host" "0.0.0.0" false}}`,
		`secret = {{var "client_id" "" true}}`,
		`origins = [{{var "origins" "http://a" false}}]`,
		`enabled = {{var "enabled" false false}}`,
	}, "\n")

	result, missing := processVarTags(content, map[string]interface{}{
		"host":    "127.0.0.1",
		"origins": "http://a, http://b",
		"enabled": true,
	})

	assert.Equal(t, []string{"client_id"}, missing)
	assert.Contains(t, result, `port = 8080`)
	assert.Contains(t, result, `host = "127.0.0.1"`)
	assert.Contains(t, result, `secret = `+placeholderRequired)
	assert.Contains(t, result, `origins = ["http://a", "http://b"]`)
	assert.Contains(t, result, `enabled = true`)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `"text"`, formatValue("text"))
	assert.Equal(t, `"a", "b"`, formatValue([]string{"a", " b"}))
	assert.Equal(t, `42`, formatValue(42))
	assert.Equal(t, `1.5`, formatValue(1.5))
	assert.Equal(t, `false`, formatValue(false))
}

func TestGenerateConfigFromTemplate_LoadsBack(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_SECRET", "template-secret")

	output := filepath.Join(t.TempDir(), "nested", "local.hcl")
	err := GenerateConfigFromTemplate(filepath.Join("..", "..", "configs", "looply-spotify.hcl.tmpl"), output, map[string]interface{}{
		"spotify_client_id":    "template-client",
		"db_driver":            "memory",
		"cors_allowed_origins": "http://localhost:3000,https://looply.app",
	})
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := LoadConfig(output)
	require.NoError(t, err)
	assert.Equal(t, "template-client", cfg.Spotify.ClientID)
	assert.Equal(t, "template-secret", cfg.Spotify.ClientSecret)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000", "https://looply.app"}, cfg.Security.CORS.AllowedOrigins)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled)
}
