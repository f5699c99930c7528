package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	AppPort       int           `mapstructure:"APP_PORT"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	OpenAIAPIKey  string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAITimeout time.Duration `mapstructure:"OPENAI_TIMEOUT"`
	StorageDriver string        `mapstructure:"STORAGE_DRIVER"`
	DatabasePath  string        `mapstructure:"DATABASE_PATH"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	StoragePrefix string        `mapstructure:"STORAGE_PREFIX"`
	AutosaveDelay time.Duration `mapstructure:"AUTOSAVE_DELAY"`
	KnowledgePath string        `mapstructure:"KNOWLEDGE_PATH"`
	ModelsFile    string        `mapstructure:"MODELS_FILE"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_TIMEOUT", "60s")
	viper.SetDefault("STORAGE_DRIVER", DriverSQLite)
	viper.SetDefault("DATABASE_PATH", "capture-gpt.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("STORAGE_PREFIX", "captureThisGPT")
	viper.SetDefault("AUTOSAVE_DELAY", "500ms")
	viper.SetDefault("KNOWLEDGE_PATH", "")
	viper.SetDefault("MODELS_FILE", "")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the application cannot start with. A missing API
// key is allowed; sends then reply with a configuration hint.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q (want sqlite, redis or memory)", c.StorageDriver)
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.AppPort)
	}
	if c.OpenAITimeout < 0 || c.AutosaveDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}
