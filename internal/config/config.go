package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	VerifyToken   string
	AccessToken   string
	PhoneNumberID string
	APIVersion    string
	GraphBaseURL  string

	GeminiAPIKey string
	OpenAIAPIKey string

	Port         string
	StateBackend string
	DataDir      string
}

func Load() (*Config, error) {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		VerifyToken:   os.Getenv("WEBHOOK_VERIFY_TOKEN"),
		AccessToken:   os.Getenv("META_ACCESS_TOKEN"),
		PhoneNumberID: os.Getenv("PHONE_NUMBER_ID"),
		APIVersion:    os.Getenv("API_VERSION"),
		GraphBaseURL:  os.Getenv("GRAPH_BASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("CHATGPT_API_KEY"),
		Port:          os.Getenv("PORT"),
		StateBackend:  os.Getenv("STATE_BACKEND"),
		DataDir:       os.Getenv("DATA_DIR"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.APIVersion == "" {
		cfg.APIVersion = "v22.0"
	}

	if cfg.GraphBaseURL == "" {
		cfg.GraphBaseURL = "https://graph.facebook.com"
	}

	if cfg.StateBackend == "" {
		cfg.StateBackend = "memory"
	}

	if cfg.StateBackend != "memory" && cfg.StateBackend != "bolt" {
		return nil, fmt.Errorf("STATE_BACKEND must be %q or %q, got %q", "memory", "bolt", cfg.StateBackend)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}

	for _, req := range []struct {
		name, val string
	}{
		{"WEBHOOK_VERIFY_TOKEN", cfg.VerifyToken},
		{"META_ACCESS_TOKEN", cfg.AccessToken},
		{"PHONE_NUMBER_ID", cfg.PhoneNumberID},
		{"GEMINI_API_KEY", cfg.GeminiAPIKey},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("required env var %s is not set", req.name)
		}
	}

	return cfg, nil
}
