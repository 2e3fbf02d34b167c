package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig is the HTTP listener configuration.
type ServerConfig struct {
	Port        string   `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// ModelConfig points at the trained classifier artifact.
type ModelConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DatabaseConfig is the configuration of the credential table store.
//
// WARNING: This data type contains sensitive fields and should not be logged.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver"` // sqlite / postgres
	DSN      string `mapstructure:"dsn" yaml:"dsn"`       // sqlite file path, or a full postgres DSN
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"` // Secret
	Name     string `mapstructure:"name" yaml:"name"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// AuthConfig is the configuration of the login gate.
//
// WARNING: This data type contains sensitive fields and should not be logged.
type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret" yaml:"jwt_secret"` // Secret
	TokenTTL     time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`   // 0 disables expiry
	PasswordHash string        `mapstructure:"password_hash" yaml:"password_hash"`
}

// StoreConfig selects where uploaded datasets and prediction results are kept.
type StoreConfig struct {
	Driver    string        `mapstructure:"driver" yaml:"driver"` // memory / redis
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db" yaml:"redis_db"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Config wraps the entire configuration of a churn service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Model    ModelConfig    `mapstructure:"model" yaml:"model"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

var (
	// envBindings maps a config key to the environment variables that can provide it.
	// The first name is preferred; later names are the ones the older deployments used.
	envBindings = map[string][]string{
		"server.port":         {"CHURN_SERVER_PORT", "PORT"},
		"server.cors_origins": {"CHURN_SERVER_CORS_ORIGINS", "CORS_ORIGINS"},
		"model.path":          {"CHURN_MODEL_PATH", "MODEL_PATH"},
		"database.driver":     {"CHURN_DB_DRIVER", "DB_DRIVER"},
		"database.dsn":        {"CHURN_DB_DSN", "DB_DSN"},
		"database.host":       {"CHURN_DB_HOST", "DB_HOST"},
		"database.port":       {"CHURN_DB_PORT", "DB_PORT"},
		"database.user":       {"CHURN_DB_USER", "DB_USER"},
		"database.password":   {"CHURN_DB_PASSWORD", "DB_PASSWORD"},
		"database.name":       {"CHURN_DB_NAME", "DB_NAME"},
		"database.ssl_mode":   {"CHURN_DB_SSL_MODE", "DB_SSL_MODE"},
		"auth.jwt_secret":     {"CHURN_AUTH_JWT_SECRET", "JWT_SECRET"},
		"auth.token_ttl":      {"CHURN_AUTH_TOKEN_TTL"},
		"auth.password_hash":  {"CHURN_AUTH_PASSWORD_HASH"},
		"store.driver":        {"CHURN_STORE_DRIVER", "STORE_DRIVER"},
		"store.redis_addr":    {"CHURN_STORE_REDIS_ADDR", "REDIS_ADDR"},
		"store.redis_db":      {"CHURN_STORE_REDIS_DB", "REDIS_DB"},
		"store.ttl":           {"CHURN_STORE_TTL"},
		"log.level":           {"CHURN_LOG_LEVEL", "LOG_LEVEL"},
	}

	defaults = map[string]any{
		"model.path":          "model.json",
		"database.driver":     "sqlite",
		"database.host":       "localhost",
		"database.port":       5432,
		"database.user":       "postgres",
		"database.name":       "churn",
		"database.ssl_mode":   "disable",
		"auth.jwt_secret":     "YOUR_SUPER_SECRET_KEY",
		"auth.token_ttl":      "24h",
		"auth.password_hash":  "bcrypt",
		"store.driver":        "memory",
		"store.redis_addr":    "localhost:6379",
		"store.ttl":           "1h",
		"log.level":           "info",
		"server.cors_origins": []string{"*"},
	}
)

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
// A .env file in the working directory is loaded into the environment first.
func Load(filePath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Path returns the config file path from CHURN_CONFIG, or config.yaml.
func Path() string {
	if p := os.Getenv("CHURN_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
