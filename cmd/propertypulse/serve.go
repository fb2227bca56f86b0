package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propertypulse/internal/db"
	"propertypulse/internal/server"
	"propertypulse/internal/service"
	"propertypulse/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	criteriaRepo := store.NewCriteriaRepository(pool)
	templateRepo := store.NewTemplateRepository(pool)
	propertyRepo := store.NewPropertyRepository(pool)
	accessRepo := store.NewAccessRepository(pool)
	settingsRepo := store.NewSettingsRepository(pool)
	auditRepo := store.NewAuditRepository(pool)

	srv, err := server.New(
		config,
		logger,
		service.NewAuthService(userRepo),
		service.NewCriteriaService(criteriaRepo, templateRepo),
		service.NewTemplateService(templateRepo, criteriaRepo, propertyRepo),
		service.NewPropertyService(propertyRepo, templateRepo, userRepo, auditRepo),
		service.NewAccessService(accessRepo, propertyRepo, userRepo, auditRepo),
		service.NewProfileService(userRepo, settingsRepo),
		service.NewSettingsService(settingsRepo),
		service.NewUserAdminService(userRepo),
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
