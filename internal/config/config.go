package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "BANGLISH"

type Config struct {
	Env     string
	Server  ServerConfig
	JWT     JWTConfig
	Storage StorageConfig
	Mongo   MongoConfig
	LLM     LLMConfig
	Prompt  PromptConfig
	PDF     PDFConfig
	Admin   AdminConfig
}

type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type StorageConfig struct {
	// Backend is "file" or "mongo".
	Backend string
	DataDir string
}

type MongoConfig struct {
	URI      string
	Database string
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Breaker  BreakerConfig
}

type BreakerConfig struct {
	MaxFailures uint32
	Cooldown    time.Duration
}

type PromptConfig struct {
	ExampleLimit int
}

type PDFConfig struct {
	FontsDir    string
	DefaultFont string
}

// AdminConfig seeds an administrator account at startup when all fields are set.
type AdminConfig struct {
	Email    string
	Username string
	Password string
}

const (
	devJWTSecret    = "dev-secret-change-me"
	maxExampleLimit = 50
)

// NewViper returns a viper instance carrying the defaults and environment
// bindings. Callers may bind command-line flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("env", "development")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("jwt.secret", devJWTSecret)
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "banglish_converter")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.breaker.max_failures", 5)
	v.SetDefault("llm.breaker.cooldown", 30*time.Second)
	v.SetDefault("prompt.example_limit", 10)
	v.SetDefault("pdf.fonts_dir", "./static/fonts")
	v.SetDefault("pdf.default_font", "kalpurush")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys are commonly exported without our prefix.
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("mongo.uri", EnvPrefix+"_MONGO_URI", "MONGO_URI")

	return v
}

// Load reads an optional .env file, the optional config file and the
// environment into a validated Config.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	if v == nil {
		v = NewViper()
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("banglish")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Env: strings.ToLower(v.GetString("env")),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			AllowedOrigins:  v.GetStringSlice("server.allowed_origins"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage.backend")),
			DataDir: v.GetString("storage.data_dir"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			APIKey:   v.GetString("llm.api_key"),
			Model:    v.GetString("llm.model"),
			BaseURL:  v.GetString("llm.base_url"),
			Timeout:  v.GetDuration("llm.timeout"),
			Breaker: BreakerConfig{
				MaxFailures: v.GetUint32("llm.breaker.max_failures"),
				Cooldown:    v.GetDuration("llm.breaker.cooldown"),
			},
		},
		Prompt: PromptConfig{
			ExampleLimit: v.GetInt("prompt.example_limit"),
		},
		PDF: PDFConfig{
			FontsDir:    v.GetString("pdf.fonts_dir"),
			DefaultFont: strings.ToLower(v.GetString("pdf.default_font")),
		},
		Admin: AdminConfig{
			Email:    v.GetString("admin.email"),
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// SeedAdmin reports whether an administrator should be created at startup.
func (c *Config) SeedAdmin() bool {
	return c.Admin.Email != "" && c.Admin.Username != "" && c.Admin.Password != ""
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file":
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the file backend")
		}
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required for the mongo backend")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required for the mongo backend")
		}
	default:
		return fmt.Errorf("storage.backend must be file or mongo, got %q", c.Storage.Backend)
	}

	switch c.LLM.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("llm.provider must be gemini, openai or ollama, got %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	if c.LLM.Breaker.MaxFailures == 0 {
		return fmt.Errorf("llm.breaker.max_failures must be at least 1")
	}

	if c.Prompt.ExampleLimit < 0 || c.Prompt.ExampleLimit > maxExampleLimit {
		return fmt.Errorf("prompt.example_limit must be between 0 and %d", maxExampleLimit)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.IsProduction() && c.JWT.Secret == devJWTSecret {
		return fmt.Errorf("jwt.secret must be set in production")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("jwt.expiration must be positive")
	}
	return nil
}
