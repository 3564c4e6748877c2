package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"looply-spotify/internal/handlers"
	"looply-spotify/internal/middleware"
	"looply-spotify/internal/services"
	"looply-spotify/migrations"

	_ "looply-spotify/docs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dependencies містить зовнішні ресурси, з якими працюють сервіси
type Dependencies struct {
	DB           *gorm.DB
	Redis        redis.UniversalClient
	Store        services.TokenStore
	Guard        services.RefreshGuard
	CallerTokens services.CallerTokenService
	HTTPClient   *http.Client
}

// Close закриває з'єднання з базою даних і Redis
func (d *Dependencies) Close() {
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}

// StartServer запускає HTTP сервер з конфігурацією
func StartServer(cfg *Config) error {
	setupLogging(cfg)

	ctx := context.Background()
	deps, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         cfg.GetAddress(),
		Handler:      r,
		ReadTimeout:  parseDuration("server.read_timeout", cfg.Server.ReadTimeout, defaultReadTimeout),
		WriteTimeout: parseDuration("server.write_timeout", cfg.Server.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  parseDuration("server.idle_timeout", cfg.Server.IdleTimeout, defaultIdleTimeout),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.Infof("🚀 Starting Looply Spotify service on %s", cfg.GetAddress())
		logrus.Infof("Environment: %s", cfg.Server.Environment)
		logrus.Infof("Token store: %s", cfg.Database.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	logrus.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logrus.Info("✅ Server exited gracefully")
	return nil
}

// setupLogging налаштовує логування
func setupLogging(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using info", cfg.Server.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Server.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// BuildDependencies відкриває сховище токенів, Redis і створює сервіс перевірки викликачів
func BuildDependencies(ctx context.Context, cfg *Config) (*Dependencies, error) {
	deps := &Dependencies{
		HTTPClient: &http.Client{Timeout: cfg.SpotifySettings().HTTPTimeout},
	}

	cipher, err := services.NewTokenCipher(cfg.Security.TokenEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid token encryption key: %w", err)
	}
	if cipher == nil && cfg.IsProduction() {
		logrus.Warn("Token encryption key is not set, Spotify tokens are stored in plain text")
	}

	switch cfg.Database.Driver {
	case "memory":
		logrus.Warn("Using in-memory token store, Spotify connections are lost on restart")
		deps.Store = services.NewMemoryTokenStore()
	default:
		db, err := connectToDatabase(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.DB = db
		deps.Store = services.NewGormTokenStore(db, cipher)
	}

	if cfg.Redis.Enabled {
		client, err := connectToRedis(ctx, cfg)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Redis = client
		deps.Guard = services.NewRedisRefreshGuard(client,
			parseDuration("redis.lock_expiry", cfg.Redis.LockExpiry, defaultLockExpiry),
			cfg.SpotifySettings().HTTPTimeout,
		)
	} else {
		deps.Guard = services.NewLocalRefreshGuard(cfg.SpotifySettings().HTTPTimeout)
	}

	if cfg.Security.CallerAuth.Enabled {
		deps.CallerTokens = services.NewCallerTokenService(
			cfg.Security.CallerAuth.SigningKey,
			cfg.Security.CallerAuth.Issuer,
			cfg.Security.CallerAuth.Audience,
		)
	}

	return deps, nil
}

// NewRouter створює gin роутер з усіма middleware і маршрутами
func NewRouter(cfg *Config, deps *Dependencies) *gin.Engine {
	r := gin.New()

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.corsOptions()))
	if cfg.Security.RateLimit.Enabled {
		r.Use(middleware.RateLimitMiddleware(cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst))
	}

	setupRoutes(r, cfg, deps)
	return r
}

// setupRoutes налаштовує маршрути
func setupRoutes(r *gin.Engine, cfg *Config, deps *Dependencies) {
	settings := cfg.SpotifySettings()

	provider := services.NewSpotifyTokenProvider(settings, deps.HTTPClient)
	connections := services.NewConnectionService(settings, deps.Store, provider, deps.Guard, deps.HTTPClient)
	music := services.NewMusicService(settings, connections, provider, deps.HTTPClient)

	authHandler := handlers.NewAuthHandler(connections, settings.FrontendBaseURL)
	apiHandler := handlers.NewAPIHandler(connections, music)
	healthHandler := handlers.NewHealthHandler(healthChecks(deps))

	r.GET("/health", healthHandler.Health)
	r.GET("/api/health", healthHandler.Health)

	// Spotify OAuth; callback викликається браузером після редіректу зі Spotify, без токена викликача
	spotifyAuth := r.Group("/auth/spotify")
	{
		spotifyAuth.GET("/authorize", authHandler.Authorize)
		spotifyAuth.GET("/callback", authHandler.Callback)
	}

	api := r.Group("/api/v1/spotify")
	if deps.CallerTokens != nil {
		api.Use(middleware.CallerAuthMiddleware(deps.CallerTokens))
	}
	{
		api.POST("/token", authHandler.Token)
		api.POST("/search", apiHandler.Search)
		api.GET("/compatibility", apiHandler.Compatibility)

		users := api.Group("/users/:user_id")
		users.GET("/top-tracks", apiHandler.TopTracks)
		users.GET("/top-artists", apiHandler.TopArtists)
		users.GET("/recently-played", apiHandler.RecentlyPlayed)
		users.GET("/connection", apiHandler.Connection)
		users.GET("/persona", apiHandler.Persona)
	}
}

func healthChecks(deps *Dependencies) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if deps.DB != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// openDatabase відкриває пул з'єднань PostgreSQL через GORM
func openDatabase(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	logrus.Infof("🔌 Connecting to PostgreSQL database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	gormConfig := &gorm.Config{}
	if cfg.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	connectionMaxLifetime := parseDuration("database.connection_max_lifetime", cfg.Database.ConnectionMaxLifetime, defaultConnLifetime)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConnections)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	sqlDB.SetConnMaxLifetime(connectionMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Infof("📊 Database connection pool configured: MaxOpen=%d, MaxIdle=%d, MaxLifetime=%v",
		cfg.Database.MaxOpenConnections, cfg.Database.MaxIdleConnections, connectionMaxLifetime)

	return db, nil
}

// connectToDatabase підключається до бази і за потреби застосовує міграції
func connectToDatabase(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		logrus.Info("🛠️  Applying database migrations...")
		if err := migrations.Up(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	logrus.Info("✅ Database connection established")
	return db, nil
}

// connectToRedis створює клієнт Redis і перевіряє з'єднання
func connectToRedis(ctx context.Context, cfg *Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.GetRedisAddress(),
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.Database,
		MaxRetries: cfg.Redis.MaxRetries,
		PoolSize:   cfg.Redis.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	logrus.Infof("🔒 Redis refresh lock enabled: %s", cfg.GetRedisAddress())
	return client, nil
}

// RunMigrations виконує тільки міграції без запуску сервера
func RunMigrations(cfg *Config) error {
	setupLogging(cfg)

	if cfg.Database.Driver == "memory" {
		logrus.Info("In-memory token store has no schema, nothing to migrate")
		return nil
	}

	ctx := context.Background()
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer sqlDB.Close()

	logrus.Info("🛠️  Applying database migrations...")
	if err := migrations.Up(ctx, sqlDB); err != nil {
		return err
	}

	logrus.Info("✅ Database migrations completed successfully")
	return nil
}
