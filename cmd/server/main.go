package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	"github.com/welldanyogia/stitchdesk-backend/internal/api"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/handlers"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/middleware"
	"github.com/welldanyogia/stitchdesk-backend/internal/auth"
	"github.com/welldanyogia/stitchdesk-backend/internal/config"
	"github.com/welldanyogia/stitchdesk-backend/internal/database"
	"github.com/welldanyogia/stitchdesk-backend/internal/events"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/notify"
	"github.com/welldanyogia/stitchdesk-backend/internal/payment"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
	"github.com/welldanyogia/stitchdesk-backend/internal/storage"
	"github.com/welldanyogia/stitchdesk-backend/internal/websocket"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout     = 15 * time.Second
	rateLimiterSweep    = time.Minute
	rateLimiterIdleTime = 10 * time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Setup logger
	log := logger.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)
	sec := logger.NewSecurityLogger()

	log.Info("Starting Stitchdesk Backend Server...")
	cfg.LogConfig(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Repositories
	attachmentRepo := repository.NewAttachmentRepository(db)
	productImageRepo := repository.NewProductImageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	paymentEventRepo := repository.NewPaymentEventRepository(db)

	resolver := access.NewResolver(employeeRepo, customerRepo, orderRepo, log)

	// Object storage
	store, localFiles, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	// Live feed and event stream
	hub := websocket.NewHub(resolver, log)
	go hub.Run(ctx)

	publishers := events.Fanout{hub}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafka := events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		defer kafka.Close()
		publishers = append(publishers, kafka)
		log.Info("publishing order events to kafka", slog.String("topic", cfg.KafkaTopic))
	}

	// Receipt mail
	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.SMTPHost != "" {
		smtpMailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			TLS:      cfg.SMTPTLS,
		}, log)
		if err != nil {
			return err
		}
		mailer = smtpMailer
	}

	// Payment provider
	signer, verifier, err := newPaymentKit(cfg)
	if err != nil {
		return err
	}
	if signer == nil {
		log.Warn("payment credentials not set; payment links and webhooks are disabled")
	}

	// Services
	attachments := services.NewAttachmentService(attachmentRepo, store, resolver, publishers, services.AttachmentServiceConfig{
		MaxSize:      cfg.MaxAttachmentSize,
		SignedURLTTL: cfg.SignedURLTTL,
	}, log)
	productImages := services.NewProductImageService(productImageRepo, store, resolver, cfg.MaxProductImageSize, log)
	payments := services.NewPaymentService(orderRepo, paymentEventRepo, resolver, signer, verifier, publishers, mailer, services.PaymentServiceConfig{
		ReturnURL: cfg.PaymentReturnURL,
		CancelURL: cfg.PaymentCancelURL,
	}, log)

	authenticator := auth.NewJWTAuthenticator(cfg.JWTSecret)

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRequests), cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx, rateLimiterSweep)

	wsHandler := handlers.NewWebSocketHandler(
		ctx,
		hub,
		websocket.NewSecureUpgrader(cfg.AllowedOrigins, sec),
		authenticator,
		sec,
		log,
	)

	router := api.NewRouter(&api.RouterConfig{
		DB:             db,
		Storage:        store,
		LocalFiles:     localFiles,
		Authenticator:  authenticator,
		Authorizer:     resolver,
		Attachments:    attachments,
		ProductImages:  productImages,
		Payments:       payments,
		WebSocket:      wsHandler,
		Logger:         log,
		Security:       sec,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		RateLimiter:    limiter,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newStorage builds the configured driver. The second return value is set
// only for the local driver, whose objects the router serves itself.
func newStorage(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, *storage.LocalStorage, error) {
	if cfg.StorageDriver == config.StorageDriverLocal {
		local, err := storage.NewLocalStorage(cfg.LocalStoragePath, cfg.PublicBaseURL, []byte(cfg.JWTSecret))
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	}

	s3, err := storage.NewS3Storage(storage.S3Config{
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		UseSSL:        cfg.S3UseSSL,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(bucketCtx); err != nil {
		return nil, nil, fmt.Errorf("prepare bucket %s: %w", cfg.S3Bucket, err)
	}
	return s3, nil, nil
}

func newPaymentKit(cfg *config.Config) (*payment.Signer, *payment.Verifier, error) {
	if cfg.PaymentMerchantCode == "" || cfg.PaymentSecretKey == "" {
		return nil, nil, nil
	}

	algo, err := payment.ParseAlgorithm(cfg.PaymentHashAlgo)
	if err != nil {
		return nil, nil, err
	}
	secret := []byte(cfg.PaymentSecretKey)

	signer, err := payment.NewSigner(cfg.PaymentMerchantCode, secret, cfg.PaymentCheckoutURL, algo)
	if err != nil {
		return nil, nil, err
	}
	return signer, payment.NewVerifier(secret, algo), nil
}
