package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"esgcheck/internal/cache"
	"esgcheck/internal/catalog"
	"esgcheck/internal/db"
	"esgcheck/internal/repository"
)

// seed writes the built-in catalog into the Mongo questions collection and,
// with -sql, into the kesg table as well.
func main() {
	withSQL := flag.Bool("sql", false, "also seed the kesg table at CATALOG_SQL_DSN")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	questions := catalog.Fallback()
	if err := catalog.Validate(questions); err != nil {
		log.Fatalf("Built-in catalog is invalid: %v", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(getEnv("MONGO_URI", "mongodb://localhost:27017")))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	questionRepo := repository.NewQuestionRepo(client.Database(getEnv("MONGO_DB", "esgcheck")))
	for i := range questions {
		if err := questionRepo.Upsert(ctx, &questions[i]); err != nil {
			log.Fatalf("Failed to upsert question %d: %v", questions[i].ID, err)
		}
	}
	log.Printf("Seeded %d questions into MongoDB", len(questions))

	// Drop the cached catalog so the server rereads the seeded one
	rdb := redis.NewClient(&redis.Options{
		Addr: strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
	})
	defer rdb.Close()
	if err := cache.NewCatalogCache(rdb, 0).Invalidate(ctx); err != nil {
		log.Printf("Warning: could not invalidate cached catalog: %v", err)
	}

	if !*withSQL {
		return
	}

	driver := db.Driver(getEnv("CATALOG_SQL_DRIVER", string(db.DriverPostgres)))
	sqlDB, err := db.Open(ctx, driver, getEnv("CATALOG_SQL_DSN", ""))
	if err != nil {
		log.Fatalf("Failed to open %s catalog database: %v", driver, err)
	}
	defer sqlDB.Close()

	kesgRepo := repository.NewKesgRepo(sqlDB)
	for i := range questions {
		if err := kesgRepo.Upsert(ctx, &questions[i]); err != nil {
			log.Fatalf("Failed to upsert kesg row %d: %v", questions[i].ID, err)
		}
	}
	log.Printf("Seeded %d rows into kesg (%s)", len(questions), driver)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
