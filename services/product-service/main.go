package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/cloudshop/backend/pkg/aws"
	"github.com/cloudshop/backend/pkg/logger"
	"github.com/cloudshop/backend/services/product-service/controllers"
	"github.com/cloudshop/backend/services/product-service/processor"
	"github.com/cloudshop/backend/services/product-service/repository"
	"github.com/cloudshop/backend/services/product-service/routes"
	"github.com/cloudshop/backend/services/product-service/services"
)

func main() {
	log := logger.Initialize(os.Getenv("APP_ENV"))
	defer log.Sync()

	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	awsCfg, err := awspkg.LoadConfig(context.Background())
	if err != nil {
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}

	// Clients are created once at process start and reused across
	// invocations; they carry no mutable state between batches.
	ddbClient := awspkg.NewDynamoDBClient(awsCfg)
	recordQueue := awspkg.NewSQSQueue(awsCfg, cfg.RecordQueueURL)
	snsClient := awspkg.NewSNSClient(awsCfg)

	catalogRepo := repository.NewDynamoAdapter(ddbClient, cfg.ProductsTable, cfg.StocksTable)
	catalogService := services.NewCatalogService(catalogRepo)

	var cache *controllers.CacheManager
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, caching disabled", zap.Error(err))
		} else {
			rdb = redis.NewClient(redisOpts)
			cache = controllers.NewCacheManager(rdb)
		}
	}

	productController := controllers.NewProductController(catalogService, cache)

	var invalidator processor.CacheInvalidator
	if cache != nil {
		invalidator = cache
	}
	batchProcessor := processor.NewBatchProcessor(catalogService, recordQueue, snsClient, cfg.SNSTopicArn, invalidator)
	consumer := processor.NewConsumer(recordQueue, batchProcessor, cfg.BatchSize)

	consumeCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	go consumer.Start(consumeCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Next()
	})

	routes.RegisterRoutes(r, productController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Product Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Product Service...")

	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}

	zap.L().Info("Product Service stopped gracefully")
}
