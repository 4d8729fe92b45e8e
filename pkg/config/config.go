package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"costume-shop"`
	ServerPort  int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	DatabaseURL string `env:"DATABASE_URL"`

	JWT           JWT           `envPrefix:"JWT_"`
	Kafka         Kafka         `envPrefix:"KAFKA_"`
	Elasticsearch Elasticsearch `envPrefix:"ES_"`
	Redis         Redis         `envPrefix:"REDIS_"`
	Stripe        Stripe        `envPrefix:"STRIPE_"`
}

type JWT struct {
	Secret string `env:"SECRET"`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
}

type Elasticsearch struct {
	URL      string `env:"URL"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Index    string `env:"INDEX" envDefault:"costumes"`
}

type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type Stripe struct {
	SecretKey string `env:"SECRET_KEY"`
	Currency  string `env:"CURRENCY" envDefault:"thb"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		log.Printf("notice: .env not loaded: %v. Using system environment variables", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Kafka.Brokers = CSV(strings.Join(cfg.Kafka.Brokers, ","))
	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
