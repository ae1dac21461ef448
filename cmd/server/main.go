package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YamanTakala/Cars-Seller/internal/adapter/messaging/nats"
	"github.com/YamanTakala/Cars-Seller/internal/adapter/repository/cache"
	"github.com/YamanTakala/Cars-Seller/internal/adapter/repository/mongodb"
	"github.com/YamanTakala/Cars-Seller/internal/adapter/storage/local"
	"github.com/YamanTakala/Cars-Seller/internal/adapter/storage/s3"
	"github.com/YamanTakala/Cars-Seller/internal/config"
	"github.com/YamanTakala/Cars-Seller/internal/handler"
	listingdomain "github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	listingusecase "github.com/YamanTakala/Cars-Seller/internal/listing/usecase"
	"github.com/YamanTakala/Cars-Seller/internal/mailer"
	"github.com/YamanTakala/Cars-Seller/internal/platform/logger"
	"github.com/YamanTakala/Cars-Seller/internal/platform/tracer"
	"github.com/YamanTakala/Cars-Seller/internal/router"
	"github.com/YamanTakala/Cars-Seller/internal/session"
	"github.com/YamanTakala/Cars-Seller/internal/user/usecase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		tp, err := tracer.Init(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()
	db := client.Database(cfg.MongoDB)

	listingRepo := mongodb.NewListingRepository(db, log)
	userRepo := mongodb.NewUserRepository(db, log)

	var imageStore listingdomain.ImageStore
	uploadDir := ""
	if cfg.UseRemoteStorage() {
		imageStore, err = s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		log.Info("Using remote image storage", zap.String("endpoint", cfg.MinIOEndpoint))
	} else {
		imageStore, err = local.NewStorage(cfg.UploadDir, log)
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		uploadDir = cfg.UploadDir
		log.Info("Using local image storage", zap.String("dir", cfg.UploadDir))
	}

	var events listingdomain.EventPublisher
	if cfg.NATSURL != "" {
		pub, err := nats.NewPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer pub.Close()
		events = pub
	}

	var homeCache listingdomain.HomeCache
	if cfg.RedisAddr != "" {
		hc, err := cache.NewHomeCache(cfg.RedisAddr)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		homeCache = hc
	}

	var mail mailer.Mailer = mailer.NoopMailer{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	listingUC := listingusecase.NewListingUsecase(listingRepo, imageStore, events, homeCache, log)
	userUC := usecase.NewUserUsecase(userRepo, usecase.BcryptHasher{}, mail, log)

	sessions := session.NewManager(session.NewMongoStore(db, log), cfg.SessionSecret)

	renderer, err := handler.NewRenderer(log)
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	base := &handler.Base{
		Sessions: sessions,
		Renderer: renderer,
		Logger:   log,
		Dev:      !cfg.IsProduction(),
	}

	mux := router.New(router.Deps{
		Logger:    log,
		Sessions:  sessions,
		Base:      base,
		Home:      handler.NewHomeHandler(base, listingUC),
		Listings:  handler.NewListingHandler(base, listingUC, userUC),
		Users:     handler.NewUserHandler(base, userUC, listingUC),
		Health:    handler.NewHealthHandler(startedAt),
		UploadDir: uploadDir,
		StaticDir: cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
