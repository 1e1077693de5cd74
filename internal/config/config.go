package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Log       LogConfig
	LLM       LLMConfig
	JobRunner JobRunnerConfig `mapstructure:"jobrunner"`
	Google    GoogleConfig
	Server    ServerConfig
	History   HistoryConfig
}

// LogConfig holds the logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Supported intent backends.
const (
	ProviderGumloop = "gumloop"
	ProviderOpenAI  = "openai"
)

// LLMConfig selects the backend that turns prompts into intents.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// JobRunnerConfig holds the hosted pipeline runner configuration
type JobRunnerConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	UserID       string        `mapstructure:"user_id"`
	PipelineID   string        `mapstructure:"pipeline_id"`
	InputName    string        `mapstructure:"input_name"`
	OutputName   string        `mapstructure:"output_name"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollBudget   int           `mapstructure:"poll_budget"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
}

// GoogleConfig holds the Google Workspace OAuth configuration
type GoogleConfig struct {
	CredentialsFile string   `mapstructure:"credentials_file"`
	TokenFile       string   `mapstructure:"token_file"`
	Services        []string `mapstructure:"services"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// HistoryConfig holds the conversation store configuration
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

const envPrefix = "WSA"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("llm.provider", ProviderGumloop)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")

	v.SetDefault("jobrunner.base_url", "https://api.gumloop.com/api/v1")
	v.SetDefault("jobrunner.api_key", "")
	v.SetDefault("jobrunner.user_id", "")
	v.SetDefault("jobrunner.pipeline_id", "")
	v.SetDefault("jobrunner.input_name", "input")
	v.SetDefault("jobrunner.output_name", "output")
	v.SetDefault("jobrunner.poll_interval", 2*time.Second)
	v.SetDefault("jobrunner.poll_budget", 30)
	v.SetDefault("jobrunner.http_timeout", 30*time.Second)

	v.SetDefault("google.credentials_file", "credentials.json")
	v.SetDefault("google.token_file", "token.json")
	v.SetDefault("google.services", []string{"calendar", "gmail", "tasks", "drive"})

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")

	v.SetDefault("history.path", "history.db")
}

// Load reads configuration from $CONFIG_PATH, or config.yaml in the working
// directory when it exists. Values from a .env file and WSA_* environment
// variables override the file.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings required by the selected provider.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLM.Provider {
	case ProviderGumloop, "":
		if c.JobRunner.APIKey == "" {
			errs = append(errs, errors.New("jobrunner.api_key is required"))
		}
		if c.JobRunner.UserID == "" {
			errs = append(errs, errors.New("jobrunner.user_id is required"))
		}
		if c.JobRunner.PipelineID == "" {
			errs = append(errs, errors.New("jobrunner.pipeline_id is required"))
		}
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			errs = append(errs, errors.New("llm.api_key is required"))
		}
		if c.LLM.Model == "" {
			errs = append(errs, errors.New("llm.model is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider))
	}
	if c.JobRunner.PollInterval <= 0 {
		errs = append(errs, errors.New("jobrunner.poll_interval must be positive"))
	}
	if c.JobRunner.PollBudget <= 0 {
		errs = append(errs, errors.New("jobrunner.poll_budget must be positive"))
	}
	return errors.Join(errs...)
}
