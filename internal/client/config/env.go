package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig is a DTO for environment parsing. Zero values mean "not set"
// and leave the current Config value untouched.
type envConfig struct {
	APIBaseURL     string        `env:"BROKERGATE_API_BASE_URL"`
	StateDBPath    string        `env:"BROKERGATE_STATE_DB"`
	OTPSettleDelay time.Duration `env:"BROKERGATE_OTP_SETTLE_DELAY"`
	LogLevel       string        `env:"BROKERGATE_LOG_LEVEL"`
}

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.StateDBPath != "" {
		cfg.StateDBPath = ec.StateDBPath
	}
	if ec.OTPSettleDelay != 0 {
		cfg.OTPSettleDelay = ec.OTPSettleDelay
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
