package config

import "time"

type Worker struct {
	ClaimTTL             time.Duration `env:"CLAIM_TTL" envDefault:"72h"`
	ClaimScanInterval    time.Duration `env:"CLAIM_SCAN_INTERVAL" envDefault:"1m"`
	ReminderScanInterval time.Duration `env:"REMINDER_SCAN_INTERVAL" envDefault:"30s"`
}
