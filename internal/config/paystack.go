package config

import "time"

type Paystack struct {
	BaseURL     string        `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	SecretKey   string        `env:"PAYSTACK_SECRET_KEY,notEmpty" json:"-"`
	CallbackURL string        `env:"PAYSTACK_CALLBACK_URL"`
	Timeout     time.Duration `env:"PAYSTACK_TIMEOUT" envDefault:"15s"`
}
