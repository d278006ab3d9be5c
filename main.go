package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/username/megamart/backend/src/auth"
	"github.com/username/megamart/backend/src/client"
	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/handlers"
	"github.com/username/megamart/backend/src/logger"
	"github.com/username/megamart/backend/src/stores"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)
	logger.L.Info("MM Mega Market gateway starting...")
	logger.L.Info("Note: B2B authentication is optional for product browsing")

	authClient := auth.NewClient(cfg)
	catalogClient := client.New(cfg, authClient)
	directory := stores.NewDirectory(cfg, catalogClient)

	if cfg.B2BAuth.Username != "" && cfg.B2BAuth.Password != "" {
		// Authentication happens lazily: browsing works without it, and the
		// executor re-authenticates on demand when the B2B platform asks.
		logger.L.Info("B2B credentials found, authentication available if needed")
	}

	toolHandler := handlers.NewToolHandler(cfg, catalogClient, authClient, directory)

	logger.L.Info("Configuring routes...")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", toolHandler.HandleListTools)
	mux.HandleFunc("POST /api/tools/{name}", toolHandler.HandleInvokeTool)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "MM Mega Market gateway is running"})
			return
		}
		logger.L.Warn("Path not found", "method", r.Method, "path", r.URL.Path)
		http.NotFound(w, r)
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(handlers.RequestLogger(mux)))

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	}
	logger.L.Info("Server stopped gracefully.")
}
