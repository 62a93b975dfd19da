package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tkvn/ideapool/internal/middleware"
	"github.com/tkvn/ideapool/internal/server"
	"github.com/tkvn/ideapool/internal/service"
	"github.com/tkvn/ideapool/internal/storage/sqlite"
	"github.com/tkvn/ideapool/internal/token"
	"github.com/tkvn/ideapool/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/ideapool.db")

	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		slog.Error("SECRET_KEY must be set")
		os.Exit(1)
	}

	accessTTL, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "10m"))
	if err != nil {
		slog.Error("Invalid ACCESS_TOKEN_TTL", "error", err)
		os.Exit(1)
	}
	refreshHours, err := strconv.Atoi(getEnv("REFRESH_TOKEN_TTL_HOURS", "720"))
	if err != nil {
		slog.Error("Invalid REFRESH_TOKEN_TTL_HOURS", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	codec := token.NewCodec(secretKey, accessTTL, time.Duration(refreshHours)*time.Hour)
	tokens := token.NewManager(codec, store)

	users := service.NewUserService(store, tokens, slog.Default())
	ideas := service.NewIdeaService(store)

	mux := server.New(users, ideas, tokens).Routes()

	// Middleware chain: metrics innermost so it sees the matched route,
	// then CORS, then request logging outermost.
	handler := middleware.Logging(middleware.CORS(middleware.Metrics(mux)(mux)))

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
