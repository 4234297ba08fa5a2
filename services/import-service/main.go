package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/cloudshop/backend/pkg/aws"
	"github.com/cloudshop/backend/pkg/logger"
	"github.com/cloudshop/backend/services/import-service/controllers"
	"github.com/cloudshop/backend/services/import-service/parser"
	"github.com/cloudshop/backend/services/import-service/routes"
	"github.com/cloudshop/backend/services/import-service/services"
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

	// Clients are created once and reused across invocations.
	s3Client := awspkg.NewS3Client(awsCfg)
	eventsQueue := awspkg.NewSQSQueue(awsCfg, cfg.EventsQueueURL)
	recordQueue := awspkg.NewSQSQueue(awsCfg, cfg.RecordQueueURL)

	fileParser := parser.NewFileParser(s3Client, recordQueue, cfg.StagingPrefix, cfg.ArchivePrefix)
	uploadService := services.NewUploadService(s3Client, cfg.BucketName, cfg.StagingPrefix, cfg.PresignExpiry)
	importController := controllers.NewImportController(uploadService)

	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()

	// Consume S3 object-creation events; a failed file keeps its event on the
	// queue and the whole notification is redelivered.
	go func() {
		if err := eventsQueue.StartPolling(pollCtx, fileParser.HandleEvent); err != nil && err != context.Canceled {
			zap.L().Error("Events queue polling terminated", zap.Error(err))
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(corsMiddleware())

	routes.RegisterRoutes(r, importController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Import Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Import Service...")

	stopPolling()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Import Service stopped gracefully")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
