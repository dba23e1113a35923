package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/i474232898/farm-dashboard/internal/api/http"
	"github.com/i474232898/farm-dashboard/internal/chat"
	"github.com/i474232898/farm-dashboard/internal/config"
	"github.com/i474232898/farm-dashboard/internal/crops"
	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/store"
	"github.com/i474232898/farm-dashboard/internal/weather"
	"github.com/i474232898/farm-dashboard/internal/weather/providers"
	"github.com/i474232898/farm-dashboard/internal/yield"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// buildServices wires every dashboard component from configuration.
func buildServices(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (httpapi.Services, error) {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	cropSvc := crops.NewService(crops.NewFileStore(cfg.CropStorePath, log), nil)

	// Snapshot cache with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Providers with resilience (backoff + circuit breaker).
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.OpenMeteoEnabled {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient))
	}

	assistant, err := buildAssistant(ctx, cfg, httpClient, log)
	if err != nil {
		return httpapi.Services{}, err
	}

	return httpapi.Services{
		Crops:          cropSvc,
		Weather:        weather.NewService(memStore, provs, log),
		Market:         market.NewSampleTable(),
		Assistant:      assistant,
		Predictor:      yield.NewPredictor(cropSvc.List),
		WeatherTimeout: 2 * cfg.HTTPTimeout,
	}, nil
}

func buildAssistant(ctx context.Context, cfg *config.AppConfig, httpClient *http.Client, log *zap.Logger) (*chat.Assistant, error) {
	switch cfg.ChatProvider {
	case config.ChatProviderOpenAI:
		c, err := chat.NewOpenAIClient(httpClient, cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("chat provider %s: %w", cfg.ChatProvider, err)
		}
		return chat.NewAssistant(c, chat.RulesClient{}, log), nil
	case config.ChatProviderGemini:
		c, err := chat.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("chat provider %s: %w", cfg.ChatProvider, err)
		}
		return chat.NewAssistant(c, chat.RulesClient{}, log), nil
	default:
		return chat.NewAssistant(chat.RulesClient{}, nil, log), nil
	}
}
