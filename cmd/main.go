package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/internal/cache"
	"github.com/Dayavats/samvaad/internal/config"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/handler"
	"github.com/Dayavats/samvaad/internal/hub"
	"github.com/Dayavats/samvaad/internal/kafka"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/internal/service"
	"github.com/Dayavats/samvaad/pkg/database"
	"github.com/Dayavats/samvaad/pkg/log"
	"github.com/Dayavats/samvaad/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Int("port", cfg.Server.Port).Msg("starting samvaad")

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.ConversationModel{},
		&domain.MessageModel{},
		&domain.PostModel{},
		&domain.StoryModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}

	userRepo := repository.NewGormUserRepository(db)
	conversationRepo := repository.NewGormConversationRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	postRepo := repository.NewGormPostRepository(db)
	storyRepo := repository.NewGormStoryRepository(db)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	middleware := auth.NewMiddleware(tokens)

	var historyCache cache.HistoryCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisHistoryCache(cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		historyCache = rc
		logger.Info().Str("address", cfg.Redis.Address).Msg("history cache enabled")
	}

	var producer kafka.EventProducer
	if cfg.Kafka.Enabled {
		p, err := kafka.NewConfluentProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to kafka")
		}
		producer = p
		logger.Info().Str("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("event firehose enabled")
	}

	media, err := newMediaStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize media storage")
	}

	wsHub := hub.NewHub(cfg.WebSocket)

	chatSvc := service.NewChatService(wsHub, conversationRepo, messageRepo, userRepo, tokens, producer, historyCache)
	userSvc := service.NewUserService(userRepo, tokens)
	feedSvc := service.NewFeedService(postRepo, storyRepo, userRepo, media, cfg.Media.URLExpiry)

	router := handler.NewRouter(
		handler.NewWSHandler(wsHub, chatSvc, cfg.WebSocket),
		handler.NewChatHandler(chatSvc),
		handler.NewUserHandler(userSvc),
		handler.NewFeedHandler(feedSvc),
		middleware,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router.Setup(cfg.Log),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	if err := chatSvc.Stop(); err != nil {
		logger.Error().Err(err).Msg("chat service shutdown error")
	}

	logger.Info().Msg("stopped")
}

func newMediaStore(cfg *config.Config) (storage.MediaStore, error) {
	switch cfg.Media.Driver {
	case "s3":
		return storage.NewS3Store(context.Background(), cfg.Media.S3)
	case "local":
		return storage.NewLocalStore(cfg.Media.Local)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown media driver: %s", cfg.Media.Driver)
	}
}
