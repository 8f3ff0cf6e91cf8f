package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"invoicing-backend/config"
	"invoicing-backend/database"
	"invoicing-backend/logger"
	"invoicing-backend/middlewares"
	"invoicing-backend/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	format := cfg.Log.Format
	if cfg.IsProduction() {
		format = "json"
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: format, Output: cfg.Log.Output})
	defer func() { _ = log.Sync() }()

	// ---- Database
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	tokens, err := middlewares.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Cookie.Name)
	if err != nil {
		log.Fatal("token issuer", zap.Error(err))
	}

	app := routes.NewApp(routes.Deps{DB: db, Config: cfg, Logger: log, Tokens: tokens})

	// ---- Start
	go func() {
		log.Info("API server starting", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
