package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	Auth     Auth
	Paystack Paystack
	Payout   Payout
	Worker   Worker
}

type App struct {
	Name          string `env:"APP_NAME" envDefault:"heyspender-api"`
	Version       string `env:"APP_VERSION" envDefault:"dev"`
	ProbeAddress  string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricAddress string `env:"METRIC_LISTEN_ADDRESS" envDefault:":8082"`
}

type Auth struct {
	JWTSecret string `env:"AUTH_JWT_SECRET,notEmpty" json:"-"`
}

type Payout struct {
	AutoApproveLimitKobo int64 `env:"PAYOUT_AUTO_APPROVE_LIMIT_KOBO" envDefault:"500000"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
