package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	devJWTSecret = "dev-secret-change-me"
)

type Config struct {
	Env                string
	ExposeErrorDetails bool

	HTTP     HTTPConfig
	Log      LogConfig
	Store    StoreConfig
	JWT      JWTConfig
	Bcrypt   BcryptConfig
	RabbitMQ RabbitMQConfig
	Shutdown ShutdownConfig
	CORS     CORSConfig
}

type HTTPConfig struct {
	Addr string
}

type LogConfig struct {
	Level  string
	Format string
}

type StoreConfig struct {
	Driver   string
	Mongo    MongoConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type PostgresConfig struct {
	DSN string
}

type SQLiteConfig struct {
	Path string
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	TTL         time.Duration
	RememberTTL time.Duration
}

type BcryptConfig struct {
	Cost int
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

type ShutdownConfig struct {
	Timeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load читает конфигурацию из окружения (TODO_*) и необязательного файла TODO_CONFIG_FILE
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	env := strings.ToLower(v.GetString("env"))
	cfg := &Config{
		Env: env,
		HTTP: HTTPConfig{
			Addr: v.GetString("http.addr"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			Mongo: MongoConfig{
				URI:      v.GetString("mongo.uri"),
				Database: v.GetString("mongo.database"),
			},
			Postgres: PostgresConfig{
				DSN: v.GetString("postgres.dsn"),
			},
			SQLite: SQLiteConfig{
				Path: v.GetString("sqlite.path"),
			},
		},
		JWT: JWTConfig{
			Secret:      v.GetString("jwt.secret"),
			Issuer:      v.GetString("jwt.issuer"),
			TTL:         v.GetDuration("jwt.ttl"),
			RememberTTL: v.GetDuration("jwt.remember_ttl"),
		},
		Bcrypt: BcryptConfig{
			Cost: v.GetInt("bcrypt.cost"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("rabbitmq.url"),
			Queue: v.GetString("rabbitmq.queue"),
		},
		Shutdown: ShutdownConfig{
			Timeout: v.GetDuration("shutdown.timeout"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
		},
	}

	// по умолчанию детали ошибок видны только вне production
	cfg.ExposeErrorDetails = env != EnvProduction
	if v.IsSet("expose_error_details") {
		cfg.ExposeErrorDetails = v.GetBool("expose_error_details")
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		}
	}
	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		cfg.JWT.Secret = devJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "todo")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("sqlite.path", "todo.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "todo-service")
	v.SetDefault("jwt.ttl", 7*24*time.Hour)
	v.SetDefault("jwt.remember_ttl", 30*24*time.Hour)
	v.SetDefault("bcrypt.cost", 10)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "task_events")
	v.SetDefault("shutdown.timeout", 15*time.Second)
	v.SetDefault("cors.allowed_origins", "*")
}

func (c *Config) validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("env: unknown environment %q", c.Env))
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" {
			errs = append(errs, errors.New("mongo.uri and mongo.database are required for the mongo driver"))
		}
	case DriverPostgres:
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres driver"))
		}
	case DriverSQLite:
		if c.Store.SQLite.Path == "" {
			errs = append(errs, errors.New("sqlite.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required in production"))
	}
	if c.JWT.TTL <= 0 || c.JWT.RememberTTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl and jwt.remember_ttl must be positive"))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	if c.Shutdown.Timeout <= 0 {
		errs = append(errs, errors.New("shutdown.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
