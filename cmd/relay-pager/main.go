// Command relay-pager fetches every page of a Relay connection from a
// GraphQL endpoint and prints the merged edges as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/relay-pagination/pkg/cache"
	"github.com/Sternrassler/relay-pagination/pkg/client"
	"github.com/Sternrassler/relay-pagination/pkg/graphql"
	"github.com/Sternrassler/relay-pagination/pkg/logging"
	"github.com/Sternrassler/relay-pagination/pkg/metrics"
	"github.com/Sternrassler/relay-pagination/pkg/pager"
	"github.com/Sternrassler/relay-pagination/pkg/pagination"
)

type config struct {
	Endpoint       string
	QueryFile      string
	OperationName  string
	Variables      map[string]any
	ConnectionPath []string
	CursorVariable string
	RedisAddr      string
	UserAgent      string
	MaxPages       int
	MetricsAddr    string
}

func main() {
	logging.Setup(logging.ConfigFromEnv(os.Getenv))
	logger := logging.NewLogger(logging.ComponentCLI)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	}

	var server *http.Server
	if cfg.MetricsAddr != "" {
		server = &http.Server{Addr: cfg.MetricsAddr, Handler: newMux(redisClient)}
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	if err := run(ctx, cfg, redisClient, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("Pagination failed")
		os.Exit(1)
	}

	if server != nil {
		// Keep metrics available until interrupted.
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}
}

// run paginates the configured connection and writes the merged edges to out.
func run(ctx context.Context, cfg config, redisClient *redis.Client, out io.Writer, logger zerolog.Logger) error {
	query, err := os.ReadFile(cfg.QueryFile)
	if err != nil {
		return fmt.Errorf("read query: %w", err)
	}

	clientCfg := client.DefaultConfig(cfg.Endpoint, cfg.UserAgent)
	clientCfg.Cache = cache.NewManager(redisClient)
	graphqlClient, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer graphqlClient.Close()

	var (
		edges   []json.RawMessage
		lastErr error
	)
	handler := func(output pagination.Output[[]json.RawMessage], err error) {
		if err != nil {
			lastErr = err
			return
		}
		edges = output.Value
		for _, gqlErr := range output.Errors {
			logger.Warn().Str("message", gqlErr.Message).Msg("GraphQL error in page")
		}
	}

	p, err := pager.New(
		client.Watcher[json.RawMessage]{Client: graphqlClient},
		pagination.ForwardVariables{
			Initial: graphql.Request{
				Query:         string(query),
				OperationName: cfg.OperationName,
				Variables:     cfg.Variables,
			},
			Variable: cfg.CursorVariable,
		},
		connectionStrategy(cfg.ConnectionPath),
		handler,
		pager.Config{Name: "relay-pager", MaxPages: cfg.MaxPages},
	)
	if err != nil {
		return fmt.Errorf("create pager: %w", err)
	}

	if err := p.FetchAll(ctx); err != nil {
		if errors.Is(err, pager.ErrNoProgress) && lastErr != nil {
			return fmt.Errorf("fetch page: %w", lastErr)
		}
		return err
	}
	if lastErr != nil && edges == nil {
		return fmt.Errorf("fetch page: %w", lastErr)
	}
	if edges == nil {
		edges = []json.RawMessage{}
	}

	logger.Info().
		Int("pages", len(p.Pages())-1).
		Int("edges", len(edges)).
		Bool("has_next_page", p.CanFetchNextPage()).
		Msg("Pagination complete")

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(edges)
}

func loadConfig() (config, error) {
	cfg := config{
		Endpoint:       getEnv("GRAPHQL_URL", ""),
		QueryFile:      getEnv("QUERY_FILE", ""),
		OperationName:  getEnv("OPERATION_NAME", ""),
		CursorVariable: getEnv("CURSOR_VARIABLE", pagination.DefaultCursorVariable),
		RedisAddr:      getEnv("REDIS_URL", ""),
		UserAgent:      getEnv("USER_AGENT", "relay-pager/0.1.0"),
		MetricsAddr:    getEnv("METRICS_ADDR", ""),
	}

	if cfg.Endpoint == "" {
		return cfg, fmt.Errorf("GRAPHQL_URL is required")
	}
	if cfg.QueryFile == "" {
		return cfg, fmt.Errorf("QUERY_FILE is required")
	}

	path, err := parsePath(getEnv("CONNECTION_PATH", ""))
	if err != nil {
		return cfg, fmt.Errorf("CONNECTION_PATH: %w", err)
	}
	cfg.ConnectionPath = path

	maxPages, err := strconv.Atoi(getEnv("MAX_PAGES", "0"))
	if err != nil || maxPages < 0 {
		return cfg, fmt.Errorf("MAX_PAGES must be a non-negative integer")
	}
	cfg.MaxPages = maxPages

	if raw := getEnv("VARIABLES", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.Variables); err != nil {
			return cfg, fmt.Errorf("VARIABLES: %w", err)
		}
	}

	return cfg, nil
}

func newMux(redisClient *redis.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(redisClient))
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports whether Redis, when configured, is reachable.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
