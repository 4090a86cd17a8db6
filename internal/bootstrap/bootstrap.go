package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/madrasa/backoffice/internal/app/controllers"
	appMigrations "github.com/madrasa/backoffice/internal/app/migrations"
	appModels "github.com/madrasa/backoffice/internal/app/models"
	appRepos "github.com/madrasa/backoffice/internal/app/repositories"
	appRoutes "github.com/madrasa/backoffice/internal/app/routes"
	appServices "github.com/madrasa/backoffice/internal/app/services"
	"github.com/madrasa/backoffice/internal/config"
	"github.com/madrasa/backoffice/internal/db"
	appMiddleware "github.com/madrasa/backoffice/internal/middleware"
	pkgAuth "github.com/madrasa/backoffice/internal/pkg/auth"
	"github.com/madrasa/backoffice/internal/pkg/logger"
	"github.com/madrasa/backoffice/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Health         appRoutes.HealthCheck
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds
// the default super admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	dbPool, err := db.NewPostgresPool(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, cfg, lgr); err != nil {
		// Startup continues; the seed is retried on the next start.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Services = appServices.NewServices(deps.Repos, cfg)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Analytics: appControllers.NewAnalyticsController(deps.Services.AnalyticsService),
		Students:  appControllers.NewStudentController(deps.Services.StudentService),
		Incomes:   appControllers.NewLedgerController(appModels.LedgerIncome, deps.Services.LedgerService),
		Donations: appControllers.NewLedgerController(appModels.LedgerDonation, deps.Services.LedgerService),
		Expenses:  appControllers.NewLedgerController(appModels.LedgerExpense, deps.Services.LedgerService),
		Employees: appControllers.NewEmployeeController(deps.Services.EmployeeService),
		Admins:    appControllers.NewAdminController(deps.Services.AdminService),
	}

	if dbPool != nil {
		deps.Health = dbPool.Ping
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}
	appMiddleware.SetExposeInternalErrors(!cfg.IsProduction())
	if err := appMiddleware.SetupValidator(); err != nil {
		return nil, fmt.Errorf("failed to set up request validation: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestID(), appMiddleware.RequestLogger(), appMiddleware.Recovery())
	router.NoRoute(appMiddleware.NoRoute)

	appRoutes.SetupSwagger(router, cfg.Server.BasePath)
	appRoutes.SetupRouter(router, cfg.Server.BasePath, deps.Controllers, deps.AuthMiddleware, deps.Health)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
