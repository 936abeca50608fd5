package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harentsoaR/mentorship-api/internal/config"
	"github.com/harentsoaR/mentorship-api/internal/events"
	"github.com/harentsoaR/mentorship-api/internal/handlers"
	"github.com/harentsoaR/mentorship-api/internal/logging"
	"github.com/harentsoaR/mentorship-api/internal/middleware"
	"github.com/harentsoaR/mentorship-api/internal/repository"
	"github.com/harentsoaR/mentorship-api/internal/services"
	"github.com/harentsoaR/mentorship-api/internal/storage"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadConfig()
	log := logging.New(cfg.Env, cfg.LogLevel, os.Stdout)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	logStartup(log, cfg)

	ctx := cmd.Context()
	client, err := connectMongo(ctx, cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.Database.Name)
	log.Info("Successfully connected to MongoDB!")

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	uploader, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	defer func() { _ = publisher.Close() }()
	notifier := services.NewNotificationService(cfg.SMTP, log)
	defer notifier.Wait()

	hasher := utils.NewPasswordHasher(utils.DefaultPasswordCost)
	tokens := utils.NewTokenManager(cfg.JWTSecret)
	students := repository.NewStudentRepository(db, hasher)
	mentors := repository.NewMentorRepository(db, hasher)

	auth := services.NewAuthService(services.AuthDeps{
		Students: students,
		Mentors:  mentors,
		Hasher:   hasher,
		Tokens:   tokens,
		Admin:    cfg.Admin,
		Uploader: uploader,
		Events:   publisher,
		Logger:   log,
	})
	approvals := services.NewApprovalService(students, mentors, publisher, notifier, log)

	limiter, closeRedis, err := newLoginLimiter(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeRedis()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(auth, approvals, middleware.NewMetrics(), log, !cfg.IsProduction())
	router := handlers.NewRouter(h, handlers.RouterConfig{
		FrontendURL: cfg.FrontendURL,
		Tokens:      tokens,
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLoginLimiter connects to Redis when REDIS_URL is set. Without it logins
// are not throttled.
func newLoginLimiter(cfg config.RedisConfig, log *logrus.Logger) (*middleware.LoginLimiter, func(), error) {
	if cfg.URL == "" {
		log.Info("REDIS_URL is NOT SET; login throttling disabled.")
		return nil, func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	return middleware.NewLoginLimiter(client, cfg.LoginLimit, cfg.LoginWindow, log),
		func() { _ = client.Close() }, nil
}

func logStartup(log *logrus.Logger, cfg config.Config) {
	log.WithFields(logrus.Fields{
		"env":      cfg.Env,
		"port":     cfg.Port,
		"database": cfg.Database.Name,
		"storage":  cfg.Storage.Provider,
	}).Info("starting mentorship-api")
	for key, set := range map[string]bool{
		"JWT_SECRET":     cfg.JWTSecret != "",
		"ADMIN_PASSWORD": cfg.Admin.Password != "",
	} {
		if set {
			log.Infof("%s is SET.", key)
		} else {
			log.Warnf("%s is NOT SET.", key)
		}
	}
}
