package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"looply-spotify/internal/build"
	"looply-spotify/internal/config"
	"looply-spotify/internal/services"
)

// configureAction генерує конфігурацію з шаблону
func configureAction(c *cli.Context) error {
	templatePath := c.String("template")
	outputPath := c.String("output")
	version := c.String("version")
	mode := c.String("mode")

	fmt.Printf("🔧 Configuring Looply Spotify service\n")
	fmt.Printf("Template: %s\n", templatePath)
	fmt.Printf("Output: %s\n", outputPath)
	fmt.Printf("Mode: %s\n", mode)

	templatePathAbs, err := absPath(templatePath)
	if err != nil {
		return err
	}
	outputPathAbs, err := absPath(outputPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(templatePathAbs); os.IsNotExist(err) {
		return fmt.Errorf("template file does not exist: %s", templatePathAbs)
	}

	vars := getConfigVars(mode, version)

	if err := config.GenerateConfigFromTemplate(templatePathAbs, outputPathAbs, vars); err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	fmt.Printf("✅ Configuration generated successfully: %s\n", outputPathAbs)
	return nil
}

// serverAction запускає сервіс
func serverAction(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	fmt.Printf("🚀 Starting Looply Spotify service\n")
	fmt.Printf("Version: %s\n", build.Version)

	return config.StartServer(cfg)
}

// migrateAction застосовує міграції і завершується
func migrateAction(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	return config.RunMigrations(cfg)
}

// callerTokenAction підписує токен викликача для локальної перевірки API
func callerTokenAction(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if !cfg.Security.CallerAuth.Enabled {
		return fmt.Errorf("caller_auth is disabled in %s", c.String("config"))
	}

	tokens := services.NewCallerTokenService(
		cfg.Security.CallerAuth.SigningKey,
		cfg.Security.CallerAuth.Issuer,
		cfg.Security.CallerAuth.Audience,
	)

	token, err := tokens.IssueToken(c.String("user"), c.Duration("ttl"))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, token)
	return nil
}

// versionAction показує інформацію про версію
func versionAction(c *cli.Context) error {
	info := build.Info()

	fmt.Printf("Looply Spotify service\n")
	fmt.Printf("Version: %s\n", info["version"])
	fmt.Printf("Build Number: %s\n", info["number"])
	fmt.Printf("Git Commit: %s\n", info["git_commit"])
	fmt.Printf("Build Time: %s\n", info["build_time"])
	fmt.Printf("Go: %s\n", info["go_version"])

	return nil
}

func loadConfig(configPath string) (*config.Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s. Run 'configure' command first", configPath)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func absPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	workDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(workDir, path), nil
}

// getConfigVars повертає мапу змінних для конфігурації
func getConfigVars(mode, version string) map[string]interface{} {
	vars := map[string]interface{}{
		"build_version": version,
		"environment":   environmentForMode(mode),
	}

	setVarFromEnv(vars, "api_server_host", "API_SERVER_HOST", "0.0.0.0")
	setVarFromEnv(vars, "api_server_port", "API_SERVER_PORT", 8080)
	setVarFromEnv(vars, "log_level", "LOG_LEVEL", getLogLevelForMode(mode))
	setVarFromEnv(vars, "log_format", "LOG_FORMAT", getLogFormatForMode(mode))

	// Сховище токенів
	setVarFromEnv(vars, "db_driver", "DB_DRIVER", "postgres")
	setVarFromEnv(vars, "db_host", "DB_HOST", "localhost")
	setVarFromEnv(vars, "db_port", "DB_PORT", 5432)
	setVarFromEnv(vars, "db_name", "DB_NAME", "looply")
	setVarFromEnv(vars, "db_user", "DB_USER", "looply")

	// Spotify; client secret читається у рантаймі через env("SPOTIFY_CLIENT_SECRET")
	setVarFromEnv(vars, "spotify_client_id", "SPOTIFY_CLIENT_ID", "")
	setVarFromEnv(vars, "spotify_redirect_uri", "SPOTIFY_REDIRECT_URI", "http://localhost:8080/auth/spotify/callback")
	setVarFromEnv(vars, "frontend_base_url", "FRONTEND_BASE_URL", "http://localhost:3000")
	setVarFromEnv(vars, "cors_allowed_origins", "CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	// Redis
	setVarFromEnv(vars, "redis_enabled", "REDIS_ENABLED", mode == "production")
	setVarFromEnv(vars, "redis_host", "REDIS_HOST", "localhost")

	setVarFromEnv(vars, "caller_auth_enabled", "CALLER_AUTH_ENABLED", mode != "local")

	return vars
}

// setVarFromEnv встановлює змінну з оточення або дефолтне значення
func setVarFromEnv(vars map[string]interface{}, key, envKey string, defaultValue interface{}) {
	if envValue := os.Getenv(envKey); envValue != "" {
		vars[key] = envValue
	} else {
		vars[key] = defaultValue
	}
}

func environmentForMode(mode string) string {
	if mode == "local" {
		return "development"
	}
	return mode
}

// getLogLevelForMode повертає рівень логування для режиму
func getLogLevelForMode(mode string) string {
	switch mode {
	case "production":
		return "warn"
	case "staging":
		return "info"
	default:
		return "debug"
	}
}

func getLogFormatForMode(mode string) string {
	if mode == "local" {
		return "text"
	}
	return "json"
}
