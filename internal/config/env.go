package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full runtime configuration of the bot.
type Config struct {
	BotToken string `yaml:"bot_token" validate:"required"`
	Owner    string `yaml:"owner"`

	// Empty means open access.
	AuthorizedUsers []int64 `yaml:"authorized_users"`

	// Group/channel the user must belong to, e.g. "@mychannel". Empty
	// disables the check.
	RequiredMembership string `yaml:"required_membership"`

	// Policy for membership query failures other than "not a participant".
	// Default false: deny with an error reply.
	MembershipFailOpen bool `yaml:"membership_fail_open"`

	EnableVIP  bool  `yaml:"enable_vip"`
	DailyQuota int64 `yaml:"daily_quota" validate:"gte=0"`

	Workers int `yaml:"workers" validate:"gte=1"`

	DBBackend   string `yaml:"db_backend" validate:"oneof=sqlite postgres"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`

	RedisAddr     string `yaml:"redis_addr" validate:"required"`
	RedisPassword string `yaml:"redis_password"`

	AdminAddr string `yaml:"admin_addr"`

	YtdlpBinary string `yaml:"ytdlp_binary"`
	TempRoot    string `yaml:"temp_root"`

	// VIP activation tokens accepted by the payment verifier.
	PaymentTokens []string `yaml:"payment_tokens"`

	Minio MinioConfig `yaml:"minio"`
}

// MinioConfig enables archival of delivered files when Endpoint is set.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Look for .env file, but don't fail if not found (environment variables
	// might be set system-wide)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load builds the configuration from environment variables, overlays an
// optional YAML file pointed to by YTDL_CONFIG, and validates the result.
func Load() (*Config, error) {
	failOpen, err := envBool("MEMBERSHIP_FAIL_OPEN", false)
	if err != nil {
		return nil, err
	}
	enableVIP, err := envBool("ENABLE_VIP", false)
	if err != nil {
		return nil, err
	}
	dailyQuota, err := envInt64("DAILY_QUOTA", 10)
	if err != nil {
		return nil, err
	}
	workers, err := envInt64("WORKERS", 100)
	if err != nil {
		return nil, err
	}
	useSSL, err := envBool("MINIO_USE_SSL", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:           strings.TrimSpace(os.Getenv("TOKEN")),
		Owner:              strings.TrimSpace(os.Getenv("OWNER")),
		RequiredMembership: strings.TrimSpace(os.Getenv("REQUIRED_MEMBERSHIP")),
		MembershipFailOpen: failOpen,
		EnableVIP:          enableVIP,
		DailyQuota:         dailyQuota,
		Workers:            int(workers),
		DBBackend:          envDefault("DB_BACKEND", "sqlite"),
		SQLitePath:         envDefault("SQLITE_PATH", "data/ytdlbot.db"),
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		RedisAddr:          envDefault("REDIS", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		AdminAddr:          envDefault("ADMIN_ADDR", ":8080"),
		YtdlpBinary:        envDefault("YTDLP_BINARY", "yt-dlp"),
		TempRoot:           os.Getenv("TEMP_ROOT"),
	}

	if users := os.Getenv("AUTHORIZED_USER"); users != "" {
		for _, raw := range strings.Split(users, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid AUTHORIZED_USER entry %q: %w", raw, err)
			}
			cfg.AuthorizedUsers = append(cfg.AuthorizedUsers, id)
		}
	}

	if tokens := os.Getenv("PAYMENT_TOKENS"); tokens != "" {
		for _, t := range strings.Split(tokens, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.PaymentTokens = append(cfg.PaymentTokens, t)
			}
		}
	}

	cfg.Minio = MinioConfig{
		Endpoint:  os.Getenv("MINIO_ENDPOINT"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    envDefault("MINIO_BUCKET", "ytdlbot-archive"),
		UseSSL:    useSSL,
	}

	if path := os.Getenv("YTDL_CONFIG"); path != "" {
		if err := overlayYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}
	if cfg.DBBackend == "postgres" && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("DB_BACKEND=postgres requires POSTGRES_DSN")
	}

	return cfg, nil
}

// InitializeConfig loads environment and validates configuration.
// This is the main entry point for configuration loading.
func InitializeConfig() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	return Load()
}

func overlayYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func envDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return fallback, nil
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s value %q: expected a boolean", key, v)
	}
}

func envInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}
