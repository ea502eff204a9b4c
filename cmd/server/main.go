package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"notes/collab/internal/api"
	"notes/collab/internal/identity"
	"notes/collab/internal/metrics"
	"notes/collab/internal/routers"
	storemongo "notes/collab/internal/store/mongo"
	"notes/collab/internal/utils"
)

var (
	listenAndServe = http.ListenAndServe
	exitFunc       = func(err error) {
		if err != nil {
			os.Exit(1)
		}
	}
)

func main() {
	exitFunc(run(context.Background()))
}

func run(ctx context.Context) error {
	logger := utils.NewLogger()
	defer logger.Sync()

	mongoClient, err := storemongo.NewClient(ctx)
	if err != nil {
		logger.Error("mongo connect failed", "error", err.Error())
		return err
	}
	notes, err := storemongo.NewNotesRepo(mongoClient)
	if err != nil {
		logger.Error("notes repo init failed", "error", err.Error())
		return err
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "redis:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})

	sessionCookie := os.Getenv("SESSION_COOKIE")
	idp := identity.Chain{
		identity.NewSessionProvider(rdb, sessionCookie),
		identity.TokenProvider{},
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	h := api.NewHandlers(logger, notes, idp, m)

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Logger,
		chimw.Recoverer,
	)
	r.Mount("/", routers.New(h, reg))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("collab-svc listening", "addr", addr)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
		_ = rdb.Close()
	}()

	return listenAndServe(addr, r)
}
