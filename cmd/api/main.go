package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"visit-translator/internal/config"
	apihttp "visit-translator/internal/http"
	"visit-translator/internal/kv"
	"visit-translator/internal/llm"
	"visit-translator/internal/metrics"
	"visit-translator/internal/service"
	"visit-translator/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	backend, err := kv.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("store open", zap.Error(err), zap.String("driver", cfg.StoreDriver))
	}
	defer backend.Close()

	m := metrics.NewMetrics()
	st := store.NewKVStore(backend, logger, m)

	if cfg.LLMAPIKey == "" {
		logger.Warn("llm api key not configured; translations and summaries will fail")
	}
	llmClient := llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	translator := service.NewTranslationService(llmClient, logger, m)
	summarizer := service.NewSummaryService(llmClient, logger, m)
	conversations := service.NewConversationService(st, translator, summarizer, logger)

	handlers := apihttp.NewHandlers(logger, translator, summarizer)
	chatHandler := apihttp.NewChatHandler(logger, st, conversations)
	router := apihttp.NewRouter(logger, m, handlers, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("store_driver", cfg.StoreDriver),
		zap.String("llm_model", cfg.LLMModel),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
