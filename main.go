package main

import (
	"Squares/config"
	pgconfig "Squares/config/postgres"
	_ "Squares/config/swagger"
	"Squares/controllers"
	"Squares/middleware"
	"Squares/routes"
	"Squares/services/redis"
	"Squares/services/socket_io"
	"Squares/services/squares"
	"Squares/services/store"
	"Squares/utils"
	"Squares/utils/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// @title Squares API
// @version 1.0
// @description Gin-Gonic server for squares pools: a 10-square grid per game, digits drawn at random, quarter scores pay the winning square
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Log

	log.Infow("setting up server", "store", cfg.StoreBackend, "lock", cfg.LockBackend)
	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}
	// Amounts go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	health := map[string]controllers.Pinger{}
	var st store.Store
	switch cfg.StoreBackend {
	case config.StorePostgres:
		gormDB, err := pgconfig.ConnectGORM(cfg.Postgres, logger.Named("postgres"))
		if err != nil {
			return fmt.Errorf("error connecting to PostgreSQL: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return fmt.Errorf("error reading GORM PostgreSQL instance: %w", err)
		}
		defer sqlDB.Close()

		// Only migrate in development or during deployment
		if cfg.Postgres.Migrate {
			if err := pgconfig.MigrateDatabase(gormDB, log); err != nil {
				return err
			}
		}
		st = store.NewPostgresStore(gormDB)
	default:
		log.Warn("using the in-memory store, nothing survives a restart")
		st = store.NewMemoryStore()
	}
	health["store"] = st

	opts := []squares.Option{squares.WithLogger(logger.Named("squares"))}
	if cfg.RedisURL != "" {
		redisClient, err := config.ConnectRedis(cfg, log)
		if err != nil {
			return fmt.Errorf("error connecting to Redis: %w", err)
		}
		defer redis.CloseRedis(redisClient)
		health["redis"] = redisClient

		opts = append(opts, squares.WithCache(redis.NewGameCache(redisClient)))
		if cfg.LockBackend == config.LockRedis {
			opts = append(opts, squares.WithLocker(redisClient))
		}
	}

	sio := &socket_io.MySocketServer{}
	opts = append(opts, squares.WithNotifier(socket_io.NewBroadcaster(sio, logger.Named("socket_io"))))
	engine := squares.NewEngine(st, opts...)

	r := gin.New()
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(utils.Recovery(logger.Named("http")))
	middleware.SetUpMiddleware(r, cfg.SessionKey, cfg.UseHTTPS)

	routes.SetupRoutes(r, routes.Dependencies{
		Engine: engine,
		Store:  st,
		Auth: controllers.AuthSettings{
			JWTSecret:       cfg.JWTSecret,
			TokenTTL:        cfg.TokenTTL,
			StartingBalance: cfg.StartingBalance,
		},
		Health: health,
		Log:    logger.Named("http"),
	})
	sio.Start(r, cfg.JWTSecret, engine, logger.Named("socket_io"))
	defer sio.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infow("server listening", "port", cfg.Port, "https", cfg.UseHTTPS)
		if cfg.UseHTTPS {
			errc <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			errc <- srv.ListenAndServe()
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case s := <-signals:
		log.Infow("shutting down", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
