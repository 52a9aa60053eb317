package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"studentconnect/internal/auth"
	"studentconnect/internal/config"
	"studentconnect/internal/data"
	"studentconnect/internal/db"
	"studentconnect/internal/middleware"
)

// sessionDuration is how long a login stays valid.
const sessionDuration = 24 * time.Hour

func main() {
	cfg := config.Load()

	ctx := context.Background()

	// Connect to MongoDB and make sure all indexes exist before serving.
	dbClient, err := db.New(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer func() {
		_ = dbClient.Close(ctx)
	}()

	if err := dbClient.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	// Stores — one per collection, all sharing the injected client.
	usersStore := data.NewUsersStore(dbClient.UsersCollection())
	threadsStore := data.NewThreadsStore(dbClient.ThreadsCollection())
	commentsStore := data.NewCommentsStore(dbClient.CommentsCollection())
	followsStore := data.NewFollowsStore(dbClient.FollowsCollection())

	// Session manager. SESSION_KEYS (kid:secret,kid2:secret2) enables key
	// rotation; otherwise the single SESSION_SECRET is used.
	var sessions *auth.SessionManager
	if cfg.SessionKeys != "" {
		keys := map[string]string{}
		for _, pair := range strings.Split(cfg.SessionKeys, ",") {
			if pair == "" {
				continue
			}
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) != 2 {
				log.Fatalf("invalid SESSION_KEYS entry: %s", pair)
			}
			keys[parts[0]] = parts[1]
		}
		sessions = auth.NewSessionManagerFromKeys(keys, cfg.SessionActiveKid, sessionDuration)
	} else {
		sessions = auth.NewSessionManager(cfg.SessionSecret, sessionDuration)
	}

	// Per-key rate limiter for the credential endpoints.
	limiterStore := middleware.NewLimiterStore(cfg.RateLimitRPM, 3, 1*time.Minute)
	defer limiterStore.Stop()

	api := &api{
		users:    usersStore,
		threads:  threadsStore,
		comments: commentsStore,
		follows:  followsStore,
		sessions: sessions,
		db:       dbClient,
		validate: validator.New(),
	}

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Content-Type, Authorization",
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
	}))
	app.Use(middleware.Session(sessions))

	api.registerRoutes(app, middleware.RateLimit(limiterStore))

	go func() {
		log.Printf("API listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server exit: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("shutting down")
	_ = app.Shutdown()
}
