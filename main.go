package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore-web/clients"
	"bookstore-web/config"
	"bookstore-web/controllers"
	"bookstore-web/database"
	apperrors "bookstore-web/errors"
	"bookstore-web/logger"
	"bookstore-web/middleware"
	aws_pkg "bookstore-web/pkg/aws"
	"bookstore-web/repository"
	"bookstore-web/routes"
	"bookstore-web/services"
	"bookstore-web/session"
	"bookstore-web/templates"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "bookstore-web"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// AWS is optional; without credentials the app runs with local fallbacks.
	var awsCfg sdkaws.Config
	awsReady := false
	if os.Getenv("CLOUDWATCH_ENABLED") == "true" || cfg.ImageStore == config.ImageStoreS3 ||
		cfg.OrderEventsTopicARN != "" || cfg.CatalogEventsQueueURL != "" {
		awsCfg, err = aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatalf("failed to load AWS config: %v", err)
		}
		awsReady = true
	}

	// ── Logging ──
	var sink *aws_pkg.CloudWatchLogsClient
	if awsReady && os.Getenv("CLOUDWATCH_ENABLED") == "true" {
		sink, err = aws_pkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName)
		if err != nil {
			log.Printf("CloudWatch Logs init failed: %v", err)
			sink = nil
		}
	}
	if sink != nil {
		err = logger.InitializeWithWriter(cfg.Env, sink)
	} else {
		err = logger.Initialize(cfg.Env)
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	var metrics *aws_pkg.MetricsClient
	if awsReady {
		metrics = aws_pkg.NewMetricsClient(awsCfg)
	}

	backend := clients.NewBackendClient(cfg.BackendURL, cfg.BackendTimeout)

	// ── Storage ──
	var (
		cartStore    repository.CartStore
		catalogCache repository.CatalogCache = repository.NoopCatalogCache{}
	)
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		cartStore = repository.NewRedisCartStore(rdb, cfg.CartTTL)
		catalogCache = repository.NewRedisCatalogCache(rdb, cfg.CatalogCacheTTL, logger.Log)
		logger.Log.Info("Connected to Redis")
	} else {
		cartStore = repository.NewMemoryCartStore(cfg.CartTTL)
		logger.Log.Warn("REDIS_URL not set, carts are kept in memory")
	}

	// ── Services ──
	catalog := services.NewCatalogService(backend, catalogCache, metrics, logger.Log)
	cart := services.NewCartService(cartStore, backend, metrics, logger.Log)
	auth := services.NewAuthService(backend, cfg.JWTSecret, metrics, logger.Log)
	account := services.NewAccountService(backend, logger.Log)
	admin := services.NewAdminService(backend, catalog, logger.Log)

	var publisher aws_pkg.SNSPublisher
	if awsReady && cfg.OrderEventsTopicARN != "" {
		publisher = aws_pkg.NewSNSClient(awsCfg)
	}
	checkout := services.NewCheckoutService(cart, backend, publisher, cfg.OrderEventsTopicARN, metrics, logger.Log)

	var imageStore services.ImageStore = services.NewBackendImageStore(backend)
	if cfg.ImageStore == config.ImageStoreS3 {
		bucket := aws_pkg.NewBucket(aws_pkg.NewS3Client(awsCfg), cfg.S3Bucket, "books/")
		imageStore = services.NewS3ImageStore(bucket, cfg.S3PublicBaseURL)
	}
	images := services.NewImageService(imageStore, logger.Log)

	if awsReady && cfg.CatalogEventsQueueURL != "" {
		consumer := aws_pkg.NewSQSConsumer(awsCfg, cfg.CatalogEventsQueueURL, logger.Log)
		go func() {
			if err := consumer.StartPolling(ctx, services.NewCatalogEventHandler(catalog, logger.Log)); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Error("catalog event consumer stopped", zap.Error(err))
			}
		}()
	}

	// ── HTTP ──
	sessions := session.NewManager(session.NewCookieStore([]byte(cfg.SessionSecret), cfg.CookieSecure), "")

	base, err := controllers.NewBase(templates.FS, sessions, cart)
	if err != nil {
		logger.Log.Fatal("failed to parse templates", zap.Error(err))
	}
	static, err := fs.Sub(templates.FS, "static")
	if err != nil {
		logger.Log.Fatal("failed to open static assets", zap.Error(err))
	}

	limiter := middleware.PerMinute(cfg.RateLimitPerMinute)
	defer limiter.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(middleware.Metrics(metrics, serviceName))
	r.Use(middleware.Session(sessions))
	r.Use(apperrors.ErrorMiddleware(base.ErrorPage))

	routes.RegisterRoutes(r, routes.Handlers{
		Store:    controllers.NewStoreController(base, catalog),
		Cart:     controllers.NewCartController(base),
		Auth:     controllers.NewAuthController(base, auth),
		Checkout: controllers.NewCheckoutController(base, checkout, auth),
		Account:  controllers.NewAccountController(base, account),
		Admin:    controllers.NewAdminController(base, admin, images),
		Sessions: sessions,
		Limiter:  limiter,
		Static:   static,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("bookstore web listening", zap.String("port", cfg.Port), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
}
