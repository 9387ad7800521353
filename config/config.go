package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type (
	APP struct {
		Name string `koanf:"name"`
		Host string `koanf:"host"`
		Port string `koanf:"port" validate:"required"`
		Env  string `koanf:"env"`
	}
	Log struct {
		Level      string `koanf:"level" validate:"oneof=debug info warn error"`
		File       string `koanf:"file"`
		MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
		MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
		MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
	}
	DB struct {
		User     string `koanf:"user" validate:"required"`
		Password string `koanf:"password"`
		Name     string `koanf:"db" validate:"required"`
		Host     string `koanf:"host" validate:"required"`
		Port     string `koanf:"port" validate:"required"`
		SSLMode  string `koanf:"sslmode"`
		MaxConns int32  `koanf:"max_conns" validate:"gte=0"`
	}
	// MQ settings are only checked when Enabled; a disabled broker means no
	// events are published or consumed.
	MQ struct {
		Enabled      bool   `koanf:"enabled"`
		User         string `koanf:"user" validate:"required_if=Enabled true"`
		Password     string `koanf:"password"`
		Vhost        string `koanf:"vhost"`
		Host         string `koanf:"host" validate:"required_if=Enabled true"`
		AmqpPort     string `koanf:"amqp_port" validate:"required_if=Enabled true"`
		Exchange     string `koanf:"exchange" validate:"required_if=Enabled true"`
		ExchangeType string `koanf:"exchange_type" validate:"required_if=Enabled true"`
		QueueName    string `koanf:"queue_name" validate:"required_if=Enabled true"`
	}

	Config struct {
		App APP `koanf:"service"`
		Log Log `koanf:"log"`
		DB  DB  `koanf:"postgres"`
		MQ  MQ  `koanf:"rabbitmq"`
	}
)

// env prefixes overlaid on top of the optional yaml file, SERVICE_PORT -> service.port
var envPrefixes = []string{"SERVICE_", "LOG_", "POSTGRES_", "RABBITMQ_"}

func defaults() Config {
	return Config{
		App: APP{
			Name: "customermanagerapi",
			Port: "8080",
			Env:  "debug",
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 7,
			MaxAgeDays: 14,
		},
		DB: DB{
			SSLMode: "disable",
		},
		MQ: MQ{
			Enabled:      true,
			Vhost:        "/",
			Exchange:     "customers",
			ExchangeType: "direct",
			QueueName:    "customer_events",
		},
	}
}

// Load merges (lowest precedence first) built-in defaults, the yaml file named by
// CONFIG_FILE and the environment. A .env file in the working directory is
// loaded into the environment first when present.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	for _, prefix := range envPrefixes {
		if err := k.Load(env.ProviderWithValue(prefix, ".", envKey), nil); err != nil {
			return Config{}, fmt.Errorf("load env %s*: %w", prefix, err)
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// envKey maps RABBITMQ_AMQP_PORT to rabbitmq.amqp_port. Empty values are
// skipped so they never shadow a default.
func envKey(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return strings.Replace(strings.ToLower(key), "_", ".", 1), value
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}

	dsn := fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	)
	if c.DB.SSLMode != "" {
		dsn += "?sslmode=" + url.QueryEscape(c.DB.SSLMode)
	}

	return dsn, nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
