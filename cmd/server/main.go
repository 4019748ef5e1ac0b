package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/davidritter-dotcom/webe-backend/internal/auth"
	"github.com/davidritter-dotcom/webe-backend/internal/database"
	"github.com/davidritter-dotcom/webe-backend/internal/game"
	"github.com/davidritter-dotcom/webe-backend/internal/handlers"
	"github.com/davidritter-dotcom/webe-backend/internal/journal"
	"github.com/davidritter-dotcom/webe-backend/internal/middleware"
	"github.com/davidritter-dotcom/webe-backend/internal/words"
	"github.com/davidritter-dotcom/webe-backend/internal/ws"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	ctx := context.Background()

	if err := auth.Init(); err != nil {
		logger.Fatalf("auth init failed: %v", err)
	}
	if err := database.ConnectDB(ctx, logger); err != nil {
		logger.Fatalf("postgres connection failed: %v", err)
	}

	// Durable lobbies need Mongo; without it the server still runs, lobbies
	// just live in memory.
	var store game.Store = game.NewMemoryStore()
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		dbName := os.Getenv("MONGODB_DATABASE")
		if dbName == "" {
			dbName = "drawduel"
		}
		db, err := database.ConnectMongo(ctx, uri, dbName, logger)
		if err != nil {
			logger.Fatalf("mongo connection failed: %v", err)
		}
		store = game.NewMongoStore(db)
	} else {
		logger.Info("MONGODB_URI not set, using in-memory lobby store")
	}

	var jrnl *journal.Publisher
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		var err error
		jrnl, err = journal.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), db, logger)
		if err != nil {
			logger.Fatalf("redis connection failed: %v", err)
		}
		defer jrnl.Close()
	} else {
		logger.Info("REDIS_ADDR not set, game action journal disabled")
	}

	registry := ws.NewRegistry(logger)
	bus := ws.NewBus(logger)
	svc := game.NewService(logger, registry, bus, store, words.Default(), jrnl)
	svc.Register()

	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(logger))
	r.Post("/user/create", handlers.CreateUserHandler(logger))
	r.Post("/user/login", handlers.LoginHandler(logger))
	r.Get("/lobby/{id}", handlers.GetLobbyHandler(logger, store))
	r.Get("/ws", handlers.WSHandler(logger, registry, bus))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Infof("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
