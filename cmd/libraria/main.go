package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/emzola/libraria/clients"
	"github.com/emzola/libraria/config"
	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/handler"
	"github.com/emzola/libraria/internal/jsonlog"
	"github.com/emzola/libraria/internal/mailer"
	"github.com/emzola/libraria/repository"
	"github.com/emzola/libraria/repository/postgres"
	"github.com/emzola/libraria/service"
	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

// @title  Libraria API
// @version 1.0.0
// @description Book lending service for library staff.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @BasePath /
func main() {
	configPath := flag.String("config", "config.yml", "Path to the YAML configuration file")
	flag.Parse()

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Initialize configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	level, err := jsonlog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger = jsonlog.New(os.Stdout, level)

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		applied, err := postgres.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		logger.PrintInfo("database migrations applied", map[string]string{"count": strconv.Itoa(applied)})
	}

	// Optional collaborators
	var opts []service.Option
	if cfg.SMTP.Host != "" {
		opts = append(opts, service.WithMailer(mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)))
	}
	if cfg.S3.Bucket != "" {
		s3Client, err := clients.NewS3Client(context.Background(), cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		opts = append(opts, service.WithS3(s3Client))
	}
	if cfg.Catalog.LookupURL != "" {
		opts = append(opts, service.WithHTTPClient(clients.NewHTTPClient()))
	}

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[int64, *data.Staff](time.Minute))
	go cache.Start()
	defer cache.Stop()

	// Application layers
	repo := repository.New(db)
	svc, err := service.New(cfg, &wg, logger, repo, opts...)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	err = svc.EnsureAdmin()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	h := handler.New(cfg, logger, cache, svc)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: svc,
		handler: h,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
