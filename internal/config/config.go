package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"volunteerHub/internal/models/volunteer"
)

const envPrefix = "VHUB"

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Campaign   CampaignConfig   `mapstructure:"campaign"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections" validate:"gte=0"`
	MinConnections int32         `mapstructure:"min_connections" validate:"gte=0,ltefield=MaxConnections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" validate:"oneof=postgres inmemory"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	Issuer     string        `mapstructure:"issuer" validate:"required"`
	TokenTTL   time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	BcryptCost int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

type CampaignConfig struct {
	Domains []string `mapstructure:"domains" validate:"min=1,dive,required"`
}

type WorkerConfig struct {
	// zero disables the worker
	LikeRecountInterval time.Duration `mapstructure:"like_recount_interval" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("logging.development", false)

	v.SetDefault("repository.type", RepositoryPostgres)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "volunteerHub")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("campaign.domains", volunteer.DefaultCampaignDomains)

	v.SetDefault("worker.like_recount_interval", 10*time.Minute)
}

// Load reads config.yml (or the given file), then applies a .env file and
// VHUB_* environment overrides. Without an explicit path a missing config.yml is
// not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Repository.Type == RepositoryPostgres && c.Database.URL == "" {
		return errors.New("invalid config: database.url is required for the postgres repository")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
