package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopcheck/config"
	"shopcheck/internal/cache"
	"shopcheck/internal/repository"
	"shopcheck/internal/service"
	"shopcheck/internal/transport/rest"
	"shopcheck/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	checklistRepo := repository.NewChecklistRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	answerRepo := repository.NewAnswerRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	statsCache := cache.NewStatsCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	checklistSvc := service.NewChecklistService(checklistRepo, questionRepo, reportRepo)
	scoringSvc := service.NewScoringService(reportRepo, questionRepo, answerRepo)
	sessionSvc := service.NewSessionService(checklistRepo, questionRepo, reportRepo, answerRepo, sessionCache, scoringSvc)
	reportSvc := service.NewReportService(reportRepo, answerRepo, questionRepo, checklistRepo, userRepo)
	analyticsSvc := service.NewAnalyticsService(userRepo, checklistRepo, questionRepo, reportRepo, statsCache)
	exportSvc := service.NewExportService(reportRepo, answerRepo, questionRepo, checklistRepo, userRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		UserService:      userSvc,
		ChecklistService: checklistSvc,
		SessionService:   sessionSvc,
		ReportService:    reportSvc,
		AnalyticsService: analyticsSvc,
		ExportService:    exportSvc,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
