package app

import (
	"errors"
	"fmt"
	"gig-marketplace-api/internal/config"
	"gig-marketplace-api/internal/controller"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/memdb"
	"gig-marketplace-api/internal/repo/pgdb"
	"gig-marketplace-api/internal/service"
	"gig-marketplace-api/pkg/http_server"
	"gig-marketplace-api/pkg/postgres"
	"gig-marketplace-api/pkg/token"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

const serviceName = "gig-marketplace-api"

func runMigrations(postgresDB *postgres.Postgres, sourceUrl string, databaseName string) error {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return err
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		return err
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no change made by migration scripts")

			return nil
		}

		return err
	}

	return nil
}

// openStorage returns the repositories for the configured driver and a
// function releasing whatever they hold.
func openStorage(cfg *config.Config) (*repo.Repositories, func(), error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")

		return memdb.NewRepositories(memdb.NewStore()), func() {}, nil
	}

	log.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.Postgres.Conn, postgres.Options{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closeDB := func() {
		if err := postgresDB.Close(); err != nil {
			log.WithError(err).Warn("closing database")
		}
	}

	log.Info("Running migrations...")
	if err := runMigrations(postgresDB, cfg.Storage.MigrationsPath, cfg.Postgres.Database); err != nil {
		closeDB()

		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return pgdb.NewRepositories(postgresDB, cfg.Storage.HireRetries), closeDB, nil
}

func Run(configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, ServiceName: serviceName})

	repositories, closeStorage, err := openStorage(cfg)
	if err != nil {
		log.WithError(err).Fatal("opening storage")
	}
	defer closeStorage()

	services := service.NewServices(repositories, service.Options{
		Policy: entity.GigPolicy{
			MaxOpenGigsPerOwner:  cfg.Marketplace.MaxOpenGigsPerOwner,
			UniqueTitlesPerOwner: *cfg.Marketplace.UniqueTitlesPerOwner,
		},
		Tokens:            token.NewIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL()),
		DirectoryCacheTTL: cfg.Directory.CacheTTL,
	})
	handler := echo.New()

	log.Info("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, controller.Options{
		SessionTTL:        cfg.TokenTTL(),
		SecureCookie:      cfg.Auth.SecureCookie,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	log.WithField("address", cfg.Server.Address).Info("Starting server...")
	httpServer := http_server.New(handler, cfg.Server.Address, cfg.Server.ShutdownTimeout)

	log.Info("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.WithError(err).Error("server stopped")
	}

	log.Info("Shutting down...")
	if err := httpServer.Shutdown(); err != nil {
		log.WithError(err).Error("Shutdown error")
	} else {
		log.Info("Successful shutdown")
	}
}
