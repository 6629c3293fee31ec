package config

import "fmt"

type Config struct {
	Server  ServerConfig
	Shop    ShopConfig
	Ollama  OllamaConfig
	Groq    GroqConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

// ShopConfig points at the storefront domain API and carries the shared
// secret used to reverse its encrypted session cookies.
type ShopConfig struct {
	BaseURL       string
	AppKey        string
	SessionCookie string
	TokenCookie   string
	CookieDomain  string
}

// OllamaConfig enables the local completion provider when Model is set.
type OllamaConfig struct {
	BaseURL string
	Model   string
}

// GroqConfig enables the hosted completion provider when APIKey is set.
type GroqConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 3300,
		},
		Shop: ShopConfig{
			BaseURL:       "http://localhost:8000",
			SessionCookie: "aninka_session",
			TokenCookie:   "aninkafashion-token",
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
		},
		Groq: GroqConfig{
			Model: "llama-3.1-8b-instant",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/chatd/config.json, then applies CHATD_* environment
// overrides. Secrets (the shop app key and the Groq API key) are never
// written to the file and should be provided via environment variables.
//
// At least one completion provider must be configured: a local Ollama
// model or a Groq API key.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Ollama.Model == "" && cfg.Groq.APIKey == "" {
		return Config{}, fmt.Errorf("no chat providers available: " +
			"set CHATD_OLLAMA_MODEL for a local model or CHATD_GROQ_API_KEY for Groq")
	}

	return cfg, nil
}
