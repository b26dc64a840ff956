package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Posting  PostingConfig  `yaml:"posting"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type AppConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type StorageConfig struct {
	Backend           string `yaml:"backend"`
	MongoURI          string `yaml:"mongo_uri"`
	MongoDB           string `yaml:"mongo_db"`
	MongoTransactions bool   `yaml:"mongo_transactions"`
	DatabaseURL       string `yaml:"database_url"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	AdminUsername   string `yaml:"admin_username"`
	AdminEmail      string `yaml:"admin_email"`
	AdminPassword   string `yaml:"admin_password"`
}

type PostingConfig struct {
	Fee          float64 `yaml:"fee"`
	LifetimeDays int     `yaml:"lifetime_days"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func (p PostingConfig) Lifetime() time.Duration {
	return time.Duration(p.LifetimeDays) * 24 * time.Hour
}

func Default() *Config {
	return &Config{
		App: AppConfig{Port: "8001", GinMode: "debug"},
		Storage: StorageConfig{
			Backend:  StorageMongo,
			MongoURI: "mongodb://localhost:27017",
			MongoDB:  "bds_vietnam",
		},
		Auth: AuthConfig{
			TokenTTLMinutes: 30,
			AdminUsername:   "admin",
			AdminEmail:      "admin@bdsvietnam.com",
		},
		Posting: PostingConfig{Fee: 50000, LifetimeDays: 30},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and the environment, in that order of precedence (env wins).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.App.Port, "PORT")
	setString(&cfg.App.GinMode, "GIN_MODE")

	setString(&cfg.Storage.Backend, "STORAGE")
	setString(&cfg.Storage.MongoURI, "MONGO_URL")
	setString(&cfg.Storage.MongoDB, "DB_NAME")
	setString(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	if err := setBool(&cfg.Storage.MongoTransactions, "MONGO_TRANSACTIONS"); err != nil {
		return err
	}

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.AdminUsername, "ADMIN_USERNAME")
	setString(&cfg.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.Auth.AdminPassword, "ADMIN_PASSWORD")
	if err := setInt(&cfg.Auth.TokenTTLMinutes, "ACCESS_TOKEN_EXPIRE_MINUTES"); err != nil {
		return err
	}

	if v := os.Getenv("POST_FEE"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("POST_FEE: %w", err)
		}
		cfg.Posting.Fee = fee
	}
	if err := setInt(&cfg.Posting.LifetimeDays, "POST_LIFETIME_DAYS"); err != nil {
		return err
	}

	setString(&cfg.Telegram.BotToken, "BOT_TOKEN")
	if v := os.Getenv("LOG_CHANNEL_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LOG_CHANNEL_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Storage.Backend != StorageMongo && c.Storage.Backend != StorageMemory {
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Posting.Fee < 0 {
		return errors.New("config: posting fee must not be negative")
	}
	if c.Posting.LifetimeDays <= 0 {
		return errors.New("config: posting lifetime must be positive")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("config: token ttl must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
