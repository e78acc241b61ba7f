package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	gqlcontext "github.com/dtroode/roleauth/internal/api/graphql/context"
	"github.com/dtroode/roleauth/internal/api/graphql/router"
	httpServer "github.com/dtroode/roleauth/internal/api/graphql/server"
	"github.com/dtroode/roleauth/internal/config"
	"github.com/dtroode/roleauth/internal/logger"
	"github.com/dtroode/roleauth/internal/metrics"
	"github.com/dtroode/roleauth/internal/model"
	"github.com/dtroode/roleauth/internal/password"
	"github.com/dtroode/roleauth/internal/ratelimit"
	"github.com/dtroode/roleauth/internal/repository/mongostore"
	"github.com/dtroode/roleauth/internal/repository/postgres"
	"github.com/dtroode/roleauth/internal/server"
	"github.com/dtroode/roleauth/internal/service"
	"github.com/dtroode/roleauth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.JWT.Secret == config.DevSecret {
		logger.Warn("using the development JWT secret, do not run this in production")
	}

	userStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer closeStore()

	hasher, err := password.New(cfg.Hash.Algorithm, cfg.Hash.BcryptCost)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, token.WithTTL(cfg.JWT.TTL))
	m := metrics.New()

	opts := []service.AuthOption{
		service.WithPolicy(service.Policy{
			AllowAdminSignup:    cfg.Auth.AllowAdminSignup,
			DistinctLoginErrors: cfg.Auth.DistinctLoginErrors,
		}),
		service.WithRecorder(m),
	}

	if cfg.RateLimit.Enabled {
		redisClient, err := ratelimit.Connect(ctx, cfg.RateLimit.RedisAddr)
		if err != nil {
			logger.Fatal("failed to connect to redis", "address", cfg.RateLimit.RedisAddr, "error", err)
		}
		defer redisClient.Close()

		limiter := ratelimit.New(redisClient, cfg.RateLimit.MaxFailures, cfg.RateLimit.Window)
		opts = append(opts, service.WithLimiter(limiter))
	}

	authService, err := service.NewAuth(userStore, hasher, tokenManager, logger, opts...)
	if err != nil {
		logger.Fatal("failed to initialize auth service", "error", err)
	}
	tokenService := service.NewTokenService(tokenManager, userStore, logger)
	ctxMgr := gqlcontext.NewManager()

	r := router.New(authService, tokenService, userStore, m, ctxMgr, cfg.HTTP.AllowedOrigin, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// openStore connects the configured credential store.
func openStore(ctx context.Context, cfg *config.Config) (model.UserStore, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), func() { _ = db.Close() }, nil
	default:
		store, err := mongostore.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
