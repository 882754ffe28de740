// Package config loads runtime configuration for the brokergate client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), including a .env file in the
//     working directory.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-s string   path of the local state database
//	-l string   log level (debug/info/warn/error)
//
// Environment variables
//
//	BROKERGATE_API_BASE_URL
//	BROKERGATE_STATE_DB
//	BROKERGATE_OTP_SETTLE_DELAY
//	BROKERGATE_LOG_LEVEL
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "500ms" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5005",
//	  "state_db_path": "brokergate.db",
//	  "otp_settle_delay": "500ms",
//	  "log_level": "info"
//	}
//
// Primary API
//
//   - type Config                     — holds the API endpoint, state DB path and tuning knobs
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
