package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/todmy/hamster-court/internal/dispute"
	"github.com/todmy/hamster-court/internal/judge"
	"github.com/todmy/hamster-court/internal/seal"
)

// Config holds all service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	AI      AIConfig      `yaml:"ai"`
	Judge   JudgeConfig   `yaml:"judge"`
	Seal    SealConfig    `yaml:"seal"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AIConfig configures the chat-completion endpoint
type AIConfig struct {
	APIKey      string        `yaml:"api_key"`
	EndpointURL string        `yaml:"endpoint_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float32       `yaml:"temperature"`
}

// JudgeConfig configures scoring and rendering
type JudgeConfig struct {
	// Labels is "parties" (甲方/乙方) or "couple" (女方/男方)
	Labels string `yaml:"labels"`
	// SimulatedDelay is the cosmetic pause of the web form in simulated mode
	SimulatedDelay time.Duration `yaml:"simulated_delay"`
}

// SealConfig configures verdict seals
type SealConfig struct {
	Secret   string        `yaml:"secret"`
	Validity time.Duration `yaml:"validity"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	ai := judge.DefaultAIConfig()
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:*", "https://*"},
			ShutdownTimeout: 10 * time.Second,
		},
		AI: AIConfig{
			EndpointURL: ai.EndpointURL,
			Model:       ai.Model,
			Timeout:     ai.Timeout,
			Temperature: ai.Temperature,
		},
		Judge: JudgeConfig{
			Labels:         string(dispute.SchemeParties),
			SimulatedDelay: 2 * time.Second,
		},
		Seal: SealConfig{
			Validity: seal.DefaultConfig().Validity,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load reads .env, then the yaml file at path (optional), then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if addr := os.Getenv("HAMSTER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}

	for _, name := range []string{"QWEN_API_KEY", "HAMSTER_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			cfg.AI.APIKey = v
		}
	}
	if v := os.Getenv("HAMSTER_API_URL"); v != "" {
		cfg.AI.EndpointURL = v
	}
	if v := os.Getenv("HAMSTER_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("HAMSTER_AI_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for HAMSTER_AI_TIMEOUT_SECONDS: %s", v)
		}
		cfg.AI.Timeout = time.Duration(n) * time.Second
	}

	if v := os.Getenv("HAMSTER_LABELS"); v != "" {
		cfg.Judge.Labels = v
	}
	if v := os.Getenv("HAMSTER_SEAL_SECRET"); v != "" {
		cfg.Seal.Secret = v
	}
	if v := os.Getenv("HAMSTER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// Validate checks the configuration for values the service cannot run with
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if _, err := dispute.ParseLabelScheme(c.Judge.Labels); err != nil {
		return fmt.Errorf("judge.labels: %w", err)
	}
	if c.AI.Timeout <= 0 {
		return errors.New("ai.timeout must be positive")
	}
	if c.Judge.SimulatedDelay < 0 {
		return errors.New("judge.simulated_delay must not be negative")
	}
	if c.AI.APIKey != "" {
		url := strings.TrimSpace(c.AI.EndpointURL)
		if !(strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) {
			return errors.New("ai.endpoint_url must be a valid HTTP/HTTPS URL")
		}
	}
	return nil
}

// AIClientConfig returns the immutable AI configuration for the resolver
func (c Config) AIClientConfig() judge.AIConfig {
	return judge.AIConfig{
		APIKey:      c.AI.APIKey,
		EndpointURL: c.AI.EndpointURL,
		Model:       c.AI.Model,
		Timeout:     c.AI.Timeout,
		Temperature: c.AI.Temperature,
	}
}

// LabelScheme returns the parsed label scheme. Validate has checked it.
func (c Config) LabelScheme() dispute.LabelScheme {
	scheme, err := dispute.ParseLabelScheme(c.Judge.Labels)
	if err != nil {
		return dispute.SchemeParties
	}
	return scheme
}

// SealerConfig returns the sealer configuration
func (c Config) SealerConfig() seal.Config {
	return seal.Config{
		Secret:   c.Seal.Secret,
		Validity: c.Seal.Validity,
	}
}
