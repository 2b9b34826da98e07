package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

type Config struct {
	AI       AIConfig       `yaml:"ai"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Limits   Limits         `yaml:"limits"`
	Paths    PathsConfig    `yaml:"paths"`
	Server   ServerConfig   `yaml:"server"`
}

type AIConfig struct {
	Provider            string           `yaml:"provider" validate:"required,oneof=gemini openai mock"`
	APIKey              string           `yaml:"api_key" validate:"required_unless=Provider mock"`
	Model               string           `yaml:"model"`
	BaseURL             string           `yaml:"base_url" validate:"omitempty,url"`
	Timeout             time.Duration    `yaml:"timeout" validate:"min=1s,max=1h"`
	SystemPrompt        string           `yaml:"system_prompt"`
	Generation          GenerationConfig `yaml:"generation"`
	RevisionTemperature float32          `yaml:"revision_temperature" validate:"gte=0,lte=2"`
}

type GenerationConfig struct {
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	TopP        float32 `yaml:"top_p" validate:"gte=0,lte=1"`
	TopK        int     `yaml:"top_k" validate:"gte=0,lte=1000"`
	MaxTokens   int     `yaml:"max_tokens" validate:"min=64,max=65536"`
}

type PipelineConfig struct {
	SceneCount    int    `yaml:"scene_count" validate:"min=1,max=24"`
	StoryMaxWords int    `yaml:"story_max_words" validate:"min=50,max=5000"`
	StyleHint     string `yaml:"style_hint"`
	Concurrency   int    `yaml:"concurrency" validate:"min=1,max=16"`
}

type PathsConfig struct {
	OutputDir  string `yaml:"output_dir" validate:"required"`
	PromptsDir string `yaml:"prompts_dir"`
	RunNaming  string `yaml:"run_naming" validate:"oneof=uuid timestamp descriptive"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"min=1s,max=5m"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		AI: AIConfig{
			Provider:     ProviderGemini,
			Timeout:      2 * time.Minute,
			SystemPrompt: "You are a professional comic book writer and visual storyteller.",
			Generation: GenerationConfig{
				Temperature: 0.8,
				TopP:        0.9,
				TopK:        40,
				MaxTokens:   2048,
			},
			RevisionTemperature: 0.7,
		},
		Pipeline: PipelineConfig{
			SceneCount:    6,
			StoryMaxWords: 220,
			StyleHint:     "dynamic comic, cinematic panels, high contrast",
			Concurrency:   1,
		},
		Limits: DefaultLimits(),
		Paths: PathsConfig{
			OutputDir: defaultOutputDir(),
			RunNaming: "uuid",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads configuration from path (or the default location when empty),
// applies overrides, resolves the API key and validates the result.
// A missing file is not an error.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = getConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	for _, override := range overrides {
		override(&cfg)
	}

	cfg.resolveAPIKey()
	cfg.Paths.OutputDir = expandTilde(cfg.Paths.OutputDir)
	cfg.Paths.PromptsDir = expandTilde(cfg.Paths.PromptsDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// apiKeyEnv lists the environment variables consulted for each provider.
var apiKeyEnv = map[string][]string{
	ProviderGemini: {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	ProviderOpenAI: {"SAMBANOVA_API_KEY", "OPENAI_API_KEY"},
}

func (c *Config) resolveAPIKey() {
	if strings.Contains(c.AI.APIKey, "$") {
		c.AI.APIKey = os.ExpandEnv(c.AI.APIKey)
	}
	if c.AI.APIKey != "" {
		return
	}
	for _, name := range apiKeyEnv[c.AI.Provider] {
		if v := os.Getenv(name); v != "" {
			c.AI.APIKey = v
			return
		}
	}
}

func getConfigPath() string {
	if path := os.Getenv("COMICSCRIPT_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "comicscript", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "comicscript", "config.yaml")
}

func defaultOutputDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "comicscript", "output")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "comicscript", "output")
}

// expandTilde expands a leading ~/ to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
