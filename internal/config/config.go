package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Storage    StorageConfig
	Generation GenerationConfig
	Ollama     OllamaConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Profiles   ProfilesConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level  string
	Format string
}

type StorageConfig struct {
	DataDir string
}

// GenerationConfig holds the parameters handed to the text-generation
// backend on every compose call.
type GenerationConfig struct {
	Backend        string
	MaxTokens      int
	Temperature    float64
	TopP           float64
	TimeoutSeconds int
	Concurrency    int
	RateLimit      float64
}

// Timeout returns the per-call generation deadline.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

type OllamaConfig struct {
	BaseURL    string
	Model      string
	EmbedModel string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey string
	Model  string
}

type ProfilesConfig struct {
	CacheTTLSeconds int
}

// CacheTTL returns how long fetched remote profiles stay cached.
func (p ProfilesConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

// Backend names accepted by generation.backend.
const (
	BackendOllama     = "ollama"
	BackendGemini     = "gemini"
	BackendOpenRouter = "openrouter"
)

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Generation: GenerationConfig{
			Backend:        BackendOllama,
			MaxTokens:      512,
			Temperature:    0.7,
			TopP:           0.9,
			TimeoutSeconds: 30,
			Concurrency:    4,
		},
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			Model:      "tinyllama",
			EmbedModel: "nomic-embed-text",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "meta-llama/llama-3.1-8b-instruct",
		},
		Profiles: ProfilesConfig{
			CacheTTLSeconds: 600,
		},
	}
}

// Load reads configuration from the YAML file at
// $XDG_CONFIG_HOME/coldreach/config.yaml, a .env file in the working
// directory, and COLDREACH_* environment variables, in increasing order of
// precedence. Secrets (API keys) are only read from the environment.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()), ".env")
}

func loadWith(b ConfigBackend, dotenvPath string) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	loadDotEnv(dotenvPath)
	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Generation.Backend {
	case BackendOllama:
	case BackendGemini:
		if cfg.Gemini.APIKey == "" {
			return fmt.Errorf("missing required config: Gemini API key. Set it via environment variable %s", envName("gemini.api_key"))
		}
	case BackendOpenRouter:
		if cfg.OpenRouter.APIKey == "" {
			return fmt.Errorf("missing required config: OpenRouter API key. Set it via environment variable %s", envName("openrouter.api_key"))
		}
	default:
		return fmt.Errorf("invalid generation.backend %q: must be one of %s, %s, %s",
			cfg.Generation.Backend, BackendOllama, BackendGemini, BackendOpenRouter)
	}
	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 2 {
		return fmt.Errorf("invalid generation.temperature %v: must be within [0, 2]", cfg.Generation.Temperature)
	}
	if cfg.Generation.TopP <= 0 || cfg.Generation.TopP > 1 {
		return fmt.Errorf("invalid generation.top_p %v: must be within (0, 1]", cfg.Generation.TopP)
	}
	if cfg.Generation.MaxTokens <= 0 {
		return fmt.Errorf("invalid generation.max_tokens %d: must be positive", cfg.Generation.MaxTokens)
	}
	return nil
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "coldreach-data"
		}
	}
	return filepath.Join(dir, "coldreach")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "coldreach", "config.yaml")
}
