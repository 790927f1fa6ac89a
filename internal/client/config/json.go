package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/fosys/fosys-client/internal/flagx"
	"github.com/fosys/fosys-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	BaaSURL             string         `json:"baas_url"`
	BaaSKey             string         `json:"baas_key"`
	BaaSRealtimeURL     string         `json:"baas_realtime_url"`
	RealtimeSchema      string         `json:"realtime_schema"`
	NATSURL             string         `json:"nats_url"`
	DBPath              string         `json:"db_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; empty JSON strings leave
//     the earlier value in place.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseEnv -> parseFlags, where
// later stages override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.BaaSURL, jc.BaaSURL)
	setString(&cfg.BaaSKey, jc.BaaSKey)
	setString(&cfg.BaaSRealtimeURL, jc.BaaSRealtimeURL)
	setString(&cfg.RealtimeSchema, jc.RealtimeSchema)
	setString(&cfg.NATSURL, jc.NATSURL)
	setString(&cfg.DBPath, jc.DBPath)
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
