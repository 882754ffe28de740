package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API.
//   - StateDBPath: path of the local sqlite state database holding the
//     durable session markers.
//   - OTPSettleDelay: wait after a successful OTP verification before the
//     first authenticated read.
//   - LogLevel: slog level name (debug/info/warn/error).
type Config struct {
	APIBaseURL     string
	StateDBPath    string
	OTPSettleDelay time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5005"
	c.StateDBPath = "brokergate.db"
	c.OTPSettleDelay = 500 * time.Millisecond
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables (including a .env file),
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
