package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Addr            string
	DatabaseURL     string
	SQLitePath      string
	GeneratorURL    string
	GeneratorAPIKey string
	TickEvery       time.Duration
	OrderEvery      time.Duration
	EventEvery      time.Duration
	NewsEvery       time.Duration
	EventChance     float64
}

type CLIConfig struct {
	APIBaseURL string
}

// LoadServerFromEnv reads configuration from the environment, with a .env
// file as an optional local override. The generator URL is optional: without
// it the server runs the simulation with no new orders or events.
func LoadServerFromEnv() ServerConfig {
	_ = godotenv.Load()

	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("FOUNDRY_ADDR", ":8080")
	}

	return ServerConfig{
		Addr:            addr,
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:      envDefault("FOUNDRY_SQLITE_PATH", "data/foundry.db"),
		GeneratorURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("FOUNDRY_GENERATOR_URL")), "/"),
		GeneratorAPIKey: strings.TrimSpace(os.Getenv("FOUNDRY_GENERATOR_API_KEY")),
		TickEvery:       envDurationDefault("FOUNDRY_TICK_EVERY", time.Second),
		OrderEvery:      envDurationDefault("FOUNDRY_ORDER_EVERY", 30*time.Second),
		EventEvery:      envDurationDefault("FOUNDRY_EVENT_EVERY", time.Minute),
		NewsEvery:       envDurationDefault("FOUNDRY_NEWS_EVERY", 2*time.Minute),
		EventChance:     envFloatDefault("FOUNDRY_EVENT_CHANCE", 0.3),
	}
}

func LoadCLIFromEnv() CLIConfig {
	_ = godotenv.Load()
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("FOUNDRY_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
