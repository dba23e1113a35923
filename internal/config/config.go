package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/farm-dashboard/internal/weather"
)

// Chat backends selectable through CHAT_PROVIDER.
const (
	ChatProviderRules  = "rules"
	ChatProviderOpenAI = "openai"
	ChatProviderGemini = "gemini"
)

type AppConfig struct {
	Port string

	// CropStorePath is the JSON file holding crop records.
	CropStorePath string

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	OpenMeteoEnabled  bool

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// FetchInterval controls how often the farm locations are refreshed.
	FetchInterval time.Duration

	// Farm locations refreshed in the background.
	Locations []weather.Location

	// Weather snapshot cache retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	ChatProvider string
	LLMEndpoint  string
	LLMAPIKey    string
	LLMModel     string
	GeminiAPIKey string
	GeminiModel  string

	LogLevel string
}

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		CropStorePath:     getenvDefault("CROP_STORE_PATH", "crops.json"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		OpenMeteoEnabled:  getenvBool("OPENMETEO_ENABLED", true),
		StoreMaxHistory:   getenvInt("STORE_MAX_HISTORY", 96), // roughly 24h at 15-minute intervals
		ChatProvider:      strings.ToLower(getenvDefault("CHAT_PROVIDER", ChatProviderRules)),
		LLMEndpoint:       getenvDefault("LLM_ENDPOINT", "https://api.openai.com"),
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		LLMModel:          getenvDefault("LLM_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenvDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		LogLevel:          getenvDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval < time.Minute {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL %s: must be at least 1m", cfg.FetchInterval)
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	switch cfg.ChatProvider {
	case ChatProviderRules, ChatProviderOpenAI, ChatProviderGemini:
	default:
		return nil, fmt.Errorf("invalid CHAT_PROVIDER %q: want rules, openai or gemini", cfg.ChatProvider)
	}

	locs, err := ParseLocations(os.Getenv("FARM_LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// ParseLocations parses a comma separated list of "city" or "city:country"
// entries. Blank entries are skipped.
func ParseLocations(s string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		city, country, _ := strings.Cut(part, ":")
		city = strings.TrimSpace(city)
		if city == "" {
			return nil, fmt.Errorf("invalid FARM_LOCATIONS entry %q: city is required", part)
		}
		locs = append(locs, weather.Location{
			City:    city,
			Country: strings.TrimSpace(country),
		})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
