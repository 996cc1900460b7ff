package main

// @title           Insight Core API
// @version         1.0
// @description     Document analysis API. Insight Core extracts structured data from documents with an LLM and synthesizes a dashboard from the result.

// @contact.name   Custodia OSS
// @contact.url    https://github.com/custodia-labs/insight-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/insight-core/internal/adapters/driven/ai"
	"github.com/custodia-labs/insight-core/internal/adapters/driven/auth"
	"github.com/custodia-labs/insight-core/internal/adapters/driven/extract"
	"github.com/custodia-labs/insight-core/internal/adapters/driven/memory"
	"github.com/custodia-labs/insight-core/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/insight-core/internal/adapters/driven/redis"
	"github.com/custodia-labs/insight-core/internal/adapters/driving/http"
	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
	"github.com/custodia-labs/insight-core/internal/core/services"
)

var version = "dev"

func main() {
	log.Printf("insight-core %s starting", version)

	// Configuration from environment
	port := getEnvInt("PORT", 8080)
	shareSecret := getEnv("SHARE_TOKEN_SECRET", "development-secret-change-in-production")
	redisURL := getEnv("REDIS_URL", "")
	databaseURL := getEnv("DATABASE_URL", "")

	llmSettings := &domain.LLMSettings{
		Provider: domain.AIProvider(getEnv("LLM_PROVIDER", string(domain.AIProviderOpenAI))),
		APIKey:   getEnv("LLM_API_KEY", ""),
		Model:    getEnv("LLM_MODEL", "gpt-4o-mini"),
		BaseURL:  getEnv("LLM_BASE_URL", ""),
	}

	budget := domain.TokenBudget{
		MaxInputTokens:  getEnvInt("MAX_INPUT_TOKENS", 12000),
		MaxPromptTokens: getEnvInt("MAX_PROMPT_TOKENS", 8000),
		SafeTextLimit:   getEnvInt("SAFE_TEXT_LIMIT", 6000),
		ChunkOverlap:    getEnvInt("CHUNK_OVERLAP", 200),
		SummaryTokens:   getEnvInt("SUMMARY_TOKENS", 1500),
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Completion service =====
	completion, err := ai.NewCompletionService(llmSettings, budget)
	if err != nil {
		log.Fatalf("Failed to create completion service: %v", err)
	}
	log.Printf("Completion service ready (provider=%s, model=%s)", llmSettings.Provider, completion.Model())

	// ===== Session store (Redis, then PostgreSQL, then in-memory) =====
	var sessionStore driven.SessionStore
	switch {
	case redisURL != "":
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		sessionStore = redisadapter.NewSessionStore(redisClient)
		log.Println("Using Redis session store")

	case databaseURL != "":
		log.Println("Connecting to PostgreSQL...")
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(databaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		sessionStore = postgres.NewSessionStore(db)
		log.Println("Using PostgreSQL session store")

	default:
		sessionStore = memory.NewSessionStore()
		log.Println("Using in-memory session store (sessions do not survive restarts)")
	}

	// ===== Services =====
	analysisService := services.NewAnalysisService(services.AnalysisConfig{
		Budget:     budget,
		Completion: completion,
		Sessions:   sessionStore,
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		Logger:     slog.Default(),
	})
	sessionService := services.NewSessionService(sessionStore)
	dashboardService := services.NewAggregator(slog.Default())

	// ===== Session sweep =====
	sweeper := services.NewSweeper(services.SweeperConfig{
		Store:    sessionStore,
		Logger:   slog.Default(),
		Interval: time.Duration(getEnvInt("SWEEP_INTERVAL_MIN", 60)) * time.Minute,
	})
	sweeper.Start(ctx)
	defer sweeper.Stop()

	// ===== HTTP server =====
	server := http.NewServer(
		http.Config{
			Host:    getEnv("HOST", "0.0.0.0"),
			Port:    port,
			Version: version,
		},
		analysisService,
		sessionService,
		dashboardService,
		extract.NewPlainText(),
		auth.NewAdapter(shareSecret),
	)

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
