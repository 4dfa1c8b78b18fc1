package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"boardcafe/web/internal/bgg"
	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/handlers"
	"boardcafe/web/internal/metrics"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/ratelimit"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/routers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Seams for tests; resetServerGlobals restores them.
var (
	newLogger        = zap.NewProduction
	newDialector     = defaultDialector
	gormOpen         = defaultGormOpen
	runAutoMigrate   = defaultAutoMigrate
	httpListenServe  = http.ListenAndServe
	exitFunc         = os.Exit
	logFatalFn       = defaultLogFatal
	dbConnectTimeout = 30 * time.Second
)

func resetServerGlobals() {
	newLogger = zap.NewProduction
	newDialector = defaultDialector
	gormOpen = defaultGormOpen
	runAutoMigrate = defaultAutoMigrate
	httpListenServe = http.ListenAndServe
	exitFunc = os.Exit
	logFatalFn = defaultLogFatal
	dbConnectTimeout = 30 * time.Second
}

func defaultDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

func defaultGormOpen(dsn string) (*gorm.DB, error) {
	return gorm.Open(newDialector(dsn), &gorm.Config{})
}

func defaultAutoMigrate(db *gorm.DB, dst ...interface{}) error {
	return db.AutoMigrate(dst...)
}

func defaultLogFatal(err error) {
	log.Println(err)
	exitFunc(1)
}

func buildDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD"), os.Getenv("POSTGRES_DB"))
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// connectWithRetry keeps dialing until the database answers a ping or
// the timeout elapses. Container startup races make the first few
// attempts routinely fail.
func connectWithRetry(dsn string, timeout time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	wait := 100 * time.Millisecond

	for {
		db, err := gormOpen(dsn)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if pingErr := sqlDB.Ping(); pingErr == nil {
					return db, nil
				} else {
					err = pingErr
				}
			} else {
				err = dbErr
			}
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database not reachable after %s: %w", timeout, err)
		}
		logger.Warn("database connection failed, retrying", zap.Duration("wait", wait), zap.Error(err))
		time.Sleep(wait)
		if wait < 2*time.Second {
			wait *= 2
		}
	}
}

func migratedModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.BoardGame{},
		&models.Availability{},
		&models.GamePreference{},
		&models.GameComment{},
		&models.SystemSetting{},
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer logger.Sync()

	db, err := connectWithRetry(buildDSN(), dbConnectTimeout, logger)
	if err != nil {
		return err
	}
	if err := runAutoMigrate(db, migratedModels()...); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	} else {
		logger.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	memCache := cache.New()

	userRepo := &repositories.UserRepository{DB: db}
	gameRepo := &repositories.GameRepository{DB: db}
	availabilityRepo := &repositories.AvailabilityRepository{DB: db}
	preferenceRepo := &repositories.PreferenceRepository{DB: db}
	commentRepo := &repositories.CommentRepository{DB: db}
	settingRepo := &repositories.SettingRepository{DB: db}

	partySettings := partyfinder.NewSettings(settingRepo, memCache, logger)
	directory := partyfinder.NewDirectory(userRepo, availabilityRepo, preferenceRepo, partySettings, memCache, logger)
	sweeper := partyfinder.NewSweeper(userRepo, partySettings, memCache, logger)
	reactivator := partyfinder.NewReactivator(userRepo, memCache, logger)

	bggClient := bgg.NewClient(os.Getenv("BGG_BASE_URL"))
	importer := &bgg.Importer{Client: bggClient, Games: gameRepo, Logger: logger}
	limiter := ratelimit.New(rdb, logger)

	jwtSecret := os.Getenv("JWT_SECRET")

	authHandler := &handlers.AuthHandler{
		Users: userRepo, Games: gameRepo, Preferences: preferenceRepo,
		Reactivator: reactivator, Limiter: limiter, Logger: logger, JWTSecret: jwtSecret,
	}
	profileHandler := &handlers.ProfileHandler{Users: userRepo, Cache: memCache, Logger: logger}
	availabilityHandler := &handlers.AvailabilityHandler{Availability: availabilityRepo, Cache: memCache, Logger: logger}
	preferenceHandler := &handlers.PreferenceHandler{Preferences: preferenceRepo, Games: gameRepo, Cache: memCache, Logger: logger}
	playerHandler := &handlers.PlayerHandler{
		Users: userRepo, Availability: availabilityRepo, Preferences: preferenceRepo,
		Directory: directory, Logger: logger,
	}
	gameHandler := &handlers.GameHandler{Games: gameRepo, Importer: importer, Logger: logger}
	bggHandler := &handlers.BGGHandler{Client: bggClient, Logger: logger}
	commentHandler := &handlers.CommentHandler{Comments: commentRepo, Games: gameRepo, Logger: logger}
	adminHandler := &handlers.AdminHandler{
		Settings: settingRepo, Users: userRepo, Availability: availabilityRepo, Preferences: preferenceRepo,
		PartySettings: partySettings, Sweeper: sweeper, Cache: memCache, Logger: logger,
	}
	cronHandler := &handlers.CronHandler{Sweeper: sweeper, Secret: os.Getenv("CRON_SECRET"), Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{envOr("CORS_ORIGIN", "*")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Cron-Secret"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	auth := handlers.AuthMiddleware(jwtSecret)
	routers.AuthRoutes(r, authHandler, auth)
	routers.ProfileRoutes(r, profileHandler, availabilityHandler, preferenceHandler, auth)
	routers.PlayerRoutes(r, playerHandler, auth)
	routers.GameRoutes(r, gameHandler, bggHandler, auth, handlers.RequireAdmin)
	routers.CommentRoutes(r, commentHandler, auth, handlers.AuthOptional(jwtSecret), handlers.RequireAdmin)
	routers.AdminRoutes(r, adminHandler, auth, handlers.RequireAdmin)
	routers.CronRoutes(r, cronHandler)

	stopSweep := startSweepTicker(sweeper, logger)
	defer stopSweep()

	addr := ":" + envOr("PORT", "8080")
	logger.Info("board cafe service listening", zap.String("addr", addr))
	return httpListenServe(addr, r)
}

// startSweepTicker runs the inactivity sweep in-process when
// CLEANUP_INTERVAL is set; deployments with an external scheduler leave
// it unset and use the cron endpoint instead.
func startSweepTicker(sweeper *partyfinder.Sweeper, logger *zap.Logger) func() {
	raw := os.Getenv("CLEANUP_INTERVAL")
	if raw == "" {
		return func() {}
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		logger.Warn("invalid CLEANUP_INTERVAL, in-process sweep disabled", zap.String("value", raw))
		return func() {}
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if _, err := sweeper.CleanupInactiveUsers(); err != nil {
					logger.Error("scheduled sweep failed", zap.Error(err))
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

func main() {
	if err := run(); err != nil {
		logFatalFn(err)
	}
}
