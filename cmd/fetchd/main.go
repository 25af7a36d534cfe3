package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/scrapekit/htmlfetch/pkg/cache"
	"github.com/scrapekit/htmlfetch/pkg/config"
	"github.com/scrapekit/htmlfetch/pkg/fetch"
	"github.com/scrapekit/htmlfetch/pkg/logging"
)

func main() {
	// Configuration from environment
	port := getEnv("PORT", "8080")
	userAgent := getEnv("USER_AGENT", "htmlfetch/"+config.Version)
	redisURL := getEnv("REDIS_URL", "")
	logLevel := getEnv("LOG_LEVEL", "info")
	threads := getEnvInt("THREADS", 10)

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: false,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("fetchd")

	cfg := config.Default()
	cfg.BrowserUserAgent = userAgent
	cfg.NumberThreads = threads

	// Page cache is optional; without REDIS_URL every fetch hits the network.
	var redisClient *redis.Client
	if redisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisURL,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		cfg.Cache = cache.NewManager(redisClient)
		logger.Info().Str("redis_url", redisURL).Msg("Page cache enabled")
	}

	// HTTP Server
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.HandleFunc("/fetch", fetchHandler(cfg))
	http.HandleFunc("/fetch/batch", batchHandler(cfg))
	http.Handle("/metrics", promhttp.Handler())

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("user_agent", userAgent).
		Int("threads", threads).
		Msg("Starting fetch server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports whether the service can serve fetches. A missing
// Redis client is fine, caching is optional; an unreachable one is not.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				http.Error(w, fmt.Sprintf("redis unavailable: %v", err), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ready")
	}
}

// fetchHandler serves single-page fetches: GET /fetch?url=...
func fetchHandler(cfg *config.Configuration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			http.Error(w, "missing url parameter", http.StatusBadRequest)
			return
		}

		html, err := fetch.FetchHTML(r.Context(), target, cfg)
		if err != nil {
			http.Error(w, fmt.Sprintf("fetch failed: %v", err), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, html)
	}
}

// batchRequest is the POST /fetch/batch input payload.
type batchRequest struct {
	URLs []string `json:"urls"`
}

// batchItem mirrors one fetch task: html is null when the fetch failed,
// so callers can pick out the URLs that need a retry.
type batchItem struct {
	URL    string  `json:"url"`
	Status int     `json:"status,omitempty"`
	HTML   *string `json:"html"`
}

// batchHandler serves concurrent multi-page fetches: POST /fetch/batch
// with a JSON body {"urls": [...]}. Items come back in request order.
func batchHandler(cfg *config.Configuration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
			return
		}

		tasks := fetch.FetchAll(r.Context(), req.URLs, cfg)

		items := make([]batchItem, 0, len(tasks))
		for _, task := range tasks {
			item := batchItem{URL: task.URL}
			if result := task.Result(); result != nil {
				item.Status = result.StatusCode
				html := fetch.FetchHTMLResponse(result, cfg)
				item.HTML = &html
			}
			items = append(items, item)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(items); err != nil {
			logger := logging.NewLogger("fetchd")
			logger.Error().Err(err).Msg("Failed to write batch response")
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
