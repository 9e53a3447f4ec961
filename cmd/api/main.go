package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/safecity/backend/internal/cache"
	"github.com/safecity/backend/internal/config"
	"github.com/safecity/backend/internal/cryptox"
	"github.com/safecity/backend/internal/database"
	"github.com/safecity/backend/internal/modules/chat"
	"github.com/safecity/backend/internal/modules/faq"
	"github.com/safecity/backend/internal/modules/incident"
	"github.com/safecity/backend/internal/modules/user"
	"github.com/safecity/backend/internal/notification"
	"github.com/safecity/backend/internal/notification/templates"
	"github.com/safecity/backend/internal/realtime"
	"github.com/safecity/backend/internal/server"
	"github.com/safecity/backend/internal/token"
)

// Options for the CLI.
type Options struct {
	Port int `help:"Port to listen on" short:"p" default:"8080"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		cfg := config.Load()
		if cfg == nil {
			logger.Error("failed to load configuration")
			os.Exit(1)
		}
		logger.Info("configuration loaded", "env", cfg.Server.Env)

		// --- Database & Cache ---
		dbPool := database.NewPostgresPool(cfg.Database.URL)
		if dbPool == nil {
			logger.Error("failed to connect to postgres")
			os.Exit(1)
		}
		hooks.OnStop(dbPool.Close)
		logger.Info("connected to postgres")

		redisClient := cache.NewRedisClient(cfg.Redis.URL)
		if redisClient == nil {
			logger.Error("failed to connect to redis")
			os.Exit(1)
		}
		hooks.OnStop(func() { redisClient.Close() })
		logger.Info("connected to redis")

		// --- Shared services (secrets injected once, here) ---
		tokens := token.NewService([]byte(cfg.Auth.JWTSecret), []byte(cfg.Auth.JWTRefreshSecret))

		codec, err := cryptox.NewCodec([]byte(cfg.Encryption.MessageKey))
		if err != nil {
			logger.Error("failed to initialize message codec", "error", err)
			os.Exit(1)
		}

		mailer := notification.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
		notifications := notification.NewService(logger, mailer, templates.NewEngine())

		// --- Module initialization (bottom-up) ---

		// User module
		userRepo := user.NewRepository(dbPool)
		userService := user.NewService(&user.Config{
			Repo:      userRepo,
			Logger:    logger,
			Tokens:    tokens,
			Mailer:    user.NewNotificationMailer(notifications),
			AppOrigin: cfg.AppOrigin,
		})

		// Chat module
		chatRepo := chat.NewRepository(dbPool)
		chatService := chat.NewService(&chat.Config{
			Repo:   chatRepo,
			Users:  userRepo,
			Queue:  chat.NewRedisQueue(redisClient),
			Codec:  codec,
			Logger: logger,
		})

		// FAQ module
		faqService := faq.NewService(faq.NewRepository(dbPool), logger)

		// Incident module
		storage, err := incident.NewDiskStorage(cfg.Upload.Dir)
		if err != nil {
			logger.Error("failed to initialize upload storage", "error", err)
			os.Exit(1)
		}
		incidentService := incident.NewService(incident.NewRepository(dbPool), storage, logger)

		// Real-time gateway
		hub := realtime.NewHub()
		gateway := realtime.NewGateway(hub, chatService, tokens, logger)

		router := server.New(server.Deps{
			Config:   cfg,
			Logger:   logger,
			Tokens:   tokens,
			Users:    userService,
			Chats:    chatService,
			FAQs:     faqService,
			Incident: incidentService,
			Gateway:  gateway,
		})

		hooks.OnStart(func() {
			logger.Info(fmt.Sprintf("Starting server on port %d...", options.Port))
			if err := http.ListenAndServe(fmt.Sprintf(":%d", options.Port), router); err != nil {
				slog.Error("Server failed to start", "error", err)
				os.Exit(1)
			}
		})
	})
	cli.Run()
}
