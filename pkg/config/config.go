package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Base URL of the remote booking platform (auth, directory, booking
	// store and notifications all live behind it).
	BookingAPIURL string `env:"BOOKING_API_URL"`

	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"10s"`
	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"3"`

	// Empty address keeps sessions in process memory.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	Session SessionConfig
	Jobs    JobsConfig
}

type SessionConfig struct {
	JWTSecret string        `env:"SESSION_JWT_SECRET"`
	TTL       time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	Issuer    string        `env:"SESSION_ISSUER" envDefault:"office-booking"`
}

type JobsConfig struct {
	NotificationPollInterval time.Duration `env:"NOTIFICATION_POLL_INTERVAL" envDefault:"1m"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	if c.BookingAPIURL == "" {
		return Config{}, errors.New("BOOKING_API_URL is required")
	}

	if c.Session.JWTSecret == "" {
		return Config{}, errors.New("SESSION_JWT_SECRET is required")
	}

	return c, nil
}
