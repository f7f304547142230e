package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"repairshop/cmd"
	httpin "repairshop/internal/adapters/in/http"
	"repairshop/internal/adapters/out/postgres/historyrepo"
	"repairshop/internal/adapters/out/postgres/tenantscope"
	"repairshop/internal/adapters/out/postgres/userrepo"
	"repairshop/internal/adapters/out/postgres/workorderrepo"
	"repairshop/internal/pkg/logger"
)

func main() {
	configs := getConfigs()

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       configs.LogLevel,
		Environment: configs.Environment,
		ServiceName: "repairshop",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	defer func() {
		_ = log.Sync()
	}()

	db := openDatabase(configs, log)

	app := cmd.NewCompositionRoot(configs, db)

	staleAfter := time.Duration(configs.StaleAfterHours) * time.Hour
	watchdog := app.CreateStaleWorkOrderJob(staleAfter, log)
	if err := watchdog.Start(); err != nil {
		log.Fatal("failed to start stale work order watchdog", zap.Error(err))
	}
	defer watchdog.Stop()

	startWebServer(&app, configs, log)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, relying on the environment")
	}

	staleAfterHours, err := strconv.Atoi(envOrDefault("STALE_AFTER_HOURS", "48"))
	if err != nil {
		staleAfterHours = 48
	}

	return cmd.Config{
		HTTPPort:        envOrDefault("HTTP_PORT", "8080"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          envOrDefault("DB_PORT", "5432"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBSslMode:       envOrDefault("DB_SSLMODE", "disable"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		Environment:     envOrDefault("ENVIRONMENT", "development"),
		StaleAfterHours: staleAfterHours,
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// openDatabase connects to postgres, installs the tenant scoping plugin and
// migrates the schema. A failure to register the plugin aborts startup:
// running without the tenant filter must never happen silently.
func openDatabase(configs cmd.Config, log *zap.Logger) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err = db.Use(tenantscope.New(log)); err != nil {
		log.Fatal("failed to register tenant scoping plugin", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to access database pool", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&userrepo.UserDTO{},
		&workorderrepo.WorkOrderDTO{},
		&historyrepo.HistoryDTO{},
	)
	if err != nil {
		log.Fatal("failed to migrate database schema", zap.Error(err))
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, configs cmd.Config, log *zap.Logger) {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(logger.Middleware())
	e.Use(httpin.MetricsMiddleware)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	server := httpin.NewServer(
		app.CreateCreateWorkOrderCommandHandler(),
		app.CreateTransitionWorkOrderCommandHandler(),
		app.CreateGetOpenWorkOrdersQueryHandler(),
		app.CreateGetWorkOrderHistoryQueryHandler(),
	)

	api := e.Group("/api/v1", httpin.AuthMiddleware([]byte(configs.JWTSecret), app.CreateUserRepository()))
	server.RegisterRoutes(api)

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil {
		log.Fatal("web server stopped", zap.Error(err))
	}
}
