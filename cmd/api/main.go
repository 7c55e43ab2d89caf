package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Iqra-Rahman/Medi-Bot/internal/api/router"
	"github.com/Iqra-Rahman/Medi-Bot/internal/appointments"
	appconfig "github.com/Iqra-Rahman/Medi-Bot/internal/config"
	"github.com/Iqra-Rahman/Medi-Bot/internal/conversation"
	"github.com/Iqra-Rahman/Medi-Bot/internal/observability/metrics"
	"github.com/Iqra-Rahman/Medi-Bot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medi-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Record store: Postgres when configured, in-memory otherwise.
	var repo appointments.Repository
	if cfg.DatabaseURL != "" && !cfg.UseMemoryStore {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = appointments.NewPostgresRepository(pool)
	} else {
		logger.Warn("using in-memory appointment store; records will not survive restarts")
		repo = appointments.NewInMemoryRepository()
	}

	apptMetrics := metrics.NewAppointmentMetrics(nil)
	chatMetrics := metrics.NewChatMetrics(nil)

	service := appointments.NewService(repo, logger, apptMetrics)

	// Natural-language interpreter: Bedrock primary, Gemini fallback. With
	// neither configured, chat degrades to the generic apology.
	var llmClient conversation.LLMClient
	interpreterModel := cfg.GeminiModelID
	if cfg.BedrockModelID != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		llmClient = conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
		interpreterModel = cfg.BedrockModelID
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		if llmClient != nil {
			llmClient = conversation.NewFallbackLLMClient(llmClient, gemini, logger)
		} else {
			llmClient = gemini
		}
	}

	var interpreter conversation.Interpreter
	if llmClient != nil {
		interpreter = conversation.NewLLMInterpreter(llmClient, interpreterModel, logger)
	} else {
		logger.Warn("no LLM provider configured; chat will answer with the generic apology")
	}

	// Chat transcript storage is optional.
	var transcript *conversation.TranscriptStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		transcript = conversation.NewTranscriptStore(redis.NewClient(opts))
	}

	bridge := conversation.NewBridge(interpreter, service, transcript, chatMetrics, cfg.InterpreterTimeout, logger)

	appointmentsHandler := appointments.NewHandler(service, logger)
	chatHandler := conversation.NewHandler(bridge, transcript, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: appointmentsHandler,
		ChatHandler:         chatHandler,
		MetricsHandler:      promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
