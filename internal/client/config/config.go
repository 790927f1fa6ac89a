package config

import (
	"strings"
	"time"
)

// Config holds runtime settings for the FOSYS CLI.
//
// Fields:
//   - APIBaseURL: base URL of the FOSYS backend HTTP API.
//   - BaaSURL: base URL of the hosted data/auth service (empty disables it).
//   - BaaSKey: the service's public API key.
//   - BaaSRealtimeURL: websocket endpoint of the realtime feed; derived from
//     BaaSURL when left empty.
//   - RealtimeSchema: database schema the realtime topics are scoped to.
//   - NATSURL: broker used for cross-instance change signals (empty falls
//     back to the local-state poll).
//   - DBPath: path of the local sqlite state database.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//
// Units: OnlineCheckInterval is a time.Duration (e.g., 3*time.Second).
type Config struct {
	APIBaseURL          string
	BaaSURL             string
	BaaSKey             string
	BaaSRealtimeURL     string
	RealtimeSchema      string
	NATSURL             string
	DBPath              string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.RealtimeSchema = "public"
	c.DBPath = "fosys.db"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.FillDerived()
	return cfg
}

// FillDerived computes values that were left empty but follow from others.
func (c *Config) FillDerived() {
	if c.BaaSRealtimeURL == "" && c.BaaSURL != "" {
		c.BaaSRealtimeURL = deriveRealtimeURL(c.BaaSURL)
	}
}

// deriveRealtimeURL turns the service's HTTP base URL into its realtime
// websocket endpoint.
func deriveRealtimeURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/realtime/v1"
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/realtime/v1"
	}
	return baseURL + "/realtime/v1"
}
