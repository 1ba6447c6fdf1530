package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"ebookapi/internal/ebook"
	"ebookapi/internal/httpx"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	databaseDSN := os.Getenv("DB_DSN")
	rateLimitRPS := getEnvFloat("RATE_LIMIT_RPS", 20)
	rateLimitBurst := getEnvInt("RATE_LIMIT_BURST", 40)
	maxBodyBytes := int64(getEnvInt("MAX_BODY_BYTES", 1<<20))
	corsOrigins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",")

	// The reference store is the volatile in-memory table; setting a DSN
	// switches the catalog to Postgres.
	var repository ebook.Repository = ebook.NewMemoryRepository()
	var dbPool *pgxpool.Pool
	if databaseDSN != "" {
		dbPool = mustOpenDB(databaseDSN)
		defer dbPool.Close()
		repository = ebook.NewPostgresRepository(dbPool)
	} else {
		log.Println("DB_DSN not set, using in-memory store")
	}

	service := ebook.NewService(repository)
	handler := ebook.NewHTTPHandler(service)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if dbPool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := dbPool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("POST /api/ebook/{$}", handler.Create)
	mux.HandleFunc("GET /api/ebook/{$}", handler.List)
	mux.HandleFunc("POST /api/ebook/purchase", handler.Purchase)
	mux.HandleFunc("GET /api/ebook/{id}", handler.Get)
	mux.HandleFunc("PUT /api/ebook/{id}", handler.Update)
	mux.HandleFunc("PUT /api/ebook/{id}/change-availability", handler.ChangeAvailability)
	mux.HandleFunc("PUT /api/ebook/{id}/increment-stock", handler.IncrementStock)
	mux.HandleFunc("DELETE /api/ebook/{id}", handler.Delete)

	rateLimit := httpx.NewRateLimitMiddleware(rateLimitRPS, rateLimitBurst)

	var root http.Handler = mux
	root = httpx.RequestSizeLimitMiddleware(maxBodyBytes)(root)
	root = httpx.CORSMiddleware(corsOrigins)(root)
	root = httpx.SecurityHeadersMiddleware(root)
	root = rateLimit.Middleware(root)
	root = httpx.AccessLogMiddleware(root)
	root = httpx.RecoveryMiddleware(root)
	root = httpx.RequestIDMiddleware(root)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      root,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
