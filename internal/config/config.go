package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

var ErrMissingJWTSecret = errors.New("auth.jwt_secret is required")

type Config struct {
	App struct {
		Port        string   `mapstructure:"port"`
		Env         string   `mapstructure:"env"`
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"app"`
	DB struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	GitHub struct {
		Token   string `mapstructure:"token"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"github"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
}

// LoadConfig reads config.yaml from path (default ".") and overlays environment
// variables. It is called once at startup; the result is treated as read-only.
func LoadConfig(path ...string) (cfg Config, err error) {
	configPath := "."
	if len(path) > 0 && path[0] != "" {
		configPath = path[0]
	}

	err = godotenv.Load(configPath + "/.env")
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "development")
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("mongo.database", "devconnector")
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("auth.token_lifespan", 100*time.Hour)
	v.SetDefault("github.base_url", "https://api.github.com")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.cors_origins", "CORS_ORIGINS")
	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.database", "MONGO_DATABASE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.ttl", "REDIS_TTL")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.base_url", "GITHUB_BASE_URL")
	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports settings without which the server must not start.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("db.dsn is required for the postgres driver")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required for the mongo driver")
		}
	case DriverMemory:
	default:
		return errors.New("db.driver must be one of postgres, mongo, memory")
	}
	return nil
}
