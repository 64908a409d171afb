package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/mail"
	"github.com/Skotchmaster/storefront/pkg/ratelimit"
	"github.com/Skotchmaster/storefront/pkg/search"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	cfg.MustRequired()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_connect_failed", "error", err)
		os.Exit(1)
	}
	if err := repo.Migrate(ctx, gdb); err != nil {
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}
	store := repo.New(gdb)

	var (
		publisher events.Publisher = events.NopPublisher{}
		producer  *events.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		publisher = producer
	} else {
		logger.Info("kafka_disabled")
	}

	catalog := &service.CatalogService{Repo: store, Events: publisher}
	var searchPing httpserver.Pinger
	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Error("es_init_failed", "error", err)
			os.Exit(1)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			logger.Warn("es_ensure_index_failed", "error", err)
		}
		catalog.Index = es
		searchPing = es
	} else {
		logger.Info("search_disabled", "fallback", "database")
	}

	auth := &service.AuthService{
		Repo:        store,
		Events:      publisher,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.JWTExpiresIn,
		OTPTTL:      cfg.OTPTTL,
		ResetTTL:    cfg.ResetTokenTTL,
		FrontendURL: cfg.FrontendURL,
		Mailer:      mail.LogMailer{Logger: logger},
	}
	if cfg.SMTPHost != "" {
		auth.Mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.EmailUser,
			Password: cfg.EmailPassword,
			From:     cfg.EmailFrom,
			AppName:  cfg.AppName,
		})
	}

	var closeRedis func() error
	if cfg.RedisAddr != "" {
		rdb := ratelimit.NewRedisClient(cfg.RedisAddr,
			ratelimit.WithPassword(cfg.RedisPassword),
			ratelimit.WithDB(cfg.RedisDB),
			ratelimit.WithPoolSize(cfg.RedisPoolSize),
		)
		auth.Limiter = ratelimit.NewLimiter(rdb, "otp_send", cfg.OTPSendLimit, cfg.OTPSendWindow)
		closeRedis = rdb.Close
	} else {
		logger.Warn("otp_rate_limit_disabled")
	}

	deps := &httpserver.Deps{
		DB:       gdb,
		Logger:   logger,
		Search:   searchPing,
		Auth:     &httpserver.AuthHTTP{Svc: auth, CookieSecure: cfg.CookieSecure},
		Users:    &httpserver.UserHTTP{Svc: &service.UserService{Repo: store, Events: publisher}},
		Catalog:  &httpserver.CatalogHTTP{Svc: catalog},
		Cart:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: store}},
		Orders:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: store, Events: publisher}},
		Wishlist: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: store}},
		Feedback: &httpserver.FeedbackHTTP{Svc: &service.FeedbackService{Repo: store}},
		Admin:    &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: store}},

		JWTSecret:    cfg.JWTSecret,
		CookieSecure: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSAllowedOrigins,
	}
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		c.Secure = cfg.CookieSecure
		deps.CSRF = &c
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.ServerPort),
		Handler:      httpserver.NewServer(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	db.Close(gdb)

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
