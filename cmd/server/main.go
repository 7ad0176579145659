package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"esgcheck/internal/cache"
	"esgcheck/internal/catalog"
	"esgcheck/internal/config"
	"esgcheck/internal/db"
	"esgcheck/internal/repository"
	"esgcheck/internal/service"
	"esgcheck/internal/transport/rest"
	"esgcheck/internal/transport/rest/handler"
	"esgcheck/internal/transport/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	log.Printf("Config:")
	log.Printf("  Catalog source: %s", cfg.Catalog.Source)
	log.Printf("  Submission sink: %s", cfg.Submission.Sink)
	log.Printf("  Strict answers: %t", cfg.StrictAnswers)
	log.Printf("  Session TTL: %s", cfg.SessionTTL)

	ctx := context.Background()

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

	mdb := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureAccountIndexes(ctx, mdb); err != nil {
		log.Fatal("Failed to create account indexes:", err)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	healthChecks := map[string]handler.PingFunc{
		"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	// Question catalog source
	var source catalog.Source
	switch cfg.Catalog.Source {
	case "sql":
		sqlDB, err := db.Open(ctx, db.Driver(cfg.Catalog.SQLDriver), cfg.Catalog.SQLDSN)
		if err != nil {
			log.Fatal("Failed to open catalog database:", err)
		}
		defer sqlDB.Close()
		log.Printf("Connected to %s catalog database", cfg.Catalog.SQLDriver)

		source = repository.NewKesgRepo(sqlDB)
		healthChecks["catalog_sql"] = sqlDB.PingContext
	case "http":
		source = catalog.NewHTTPSource(cfg.Catalog.HTTPURL, 5*time.Second)
	default:
		source = repository.NewQuestionRepo(mdb)
	}
	loader := catalog.NewLoader(source, cache.NewCatalogCache(rdb, cfg.Catalog.CacheTTL))

	// Submission sink
	submissionRepo := repository.NewSubmissionRepo(mdb)
	var sink service.Sink
	if cfg.Submission.Sink == "http" {
		sink = service.NewHTTPSink(cfg.Submission.URL, cfg.Submission.Timeout)
	} else {
		sink = service.NewStoreSink(submissionRepo)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService(repository.NewAccountRepo(mdb), cfg.JWTSecret, cfg.TokenTTL)
	catalogSvc := service.NewCatalogService(loader)
	sessionCache := cache.NewSessionCache(rdb, cfg.SessionTTL)
	assessmentSvc := service.NewAssessmentService(
		loader,
		sessionCache,
		sink,
		submissionRepo,
		cfg.StrictAnswers,
	)

	reportSvc := service.NewReportService(cache.NewReportCache(rdb, cfg.ReportTTL), sessionCache)

	// Score reports are generated on every successful submit
	assessmentSvc.SetReportService(reportSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	assessmentSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		CatalogService:    catalogSvc,
		AssessmentService: assessmentSvc,
		ReportService:     reportSvc,
		HealthChecks:      healthChecks,
		WSHub:             wsHub,
		CORS:              cfg.CORS,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/signup, /v1/auth/login")
		log.Println("  GET  /v1/assessment/kesg[/{id}]")
		log.Println("  POST /v1/assessments")
		log.Println("  GET/DELETE /v1/assessments/{id}")
		log.Println("  PUT  /v1/assessments/{id}/answers")
		log.Println("  POST /v1/assessments/{id}/reset, /v1/assessments/{id}/submit")
		log.Println("  GET  /v1/assessments/{id}/report")
		log.Println("  GET  /v1/submissions[/{id}]")
		log.Println("  WS   /v1/ws/assessments/{id}")

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
