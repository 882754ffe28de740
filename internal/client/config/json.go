package config

import (
	"encoding/json"
	"os"

	"github.com/brokergate/client/internal/flagx"
	"github.com/brokergate/client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the settle delay either as a string
// like "500ms" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	StateDBPath    string         `json:"state_db_path"`
	OTPSettleDelay timex.Duration `json:"otp_settle_delay"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file named via
// the -c or -config flags. Absent flags mean no JSON is loaded. Read or
// unmarshal errors panic (caller may recover). Fields left empty in the
// file keep their current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.StateDBPath != "" {
		cfg.StateDBPath = jc.StateDBPath
	}
	if jc.OTPSettleDelay.Duration != 0 {
		cfg.OTPSettleDelay = jc.OTPSettleDelay.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
