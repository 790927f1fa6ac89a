package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over .env entries per godotenv semantics.
//
// Recognized variables:
//
//	FOSYS_API_URL
//	FOSYS_BAAS_URL
//	FOSYS_BAAS_KEY
//	FOSYS_BAAS_REALTIME_URL
//	FOSYS_REALTIME_SCHEMA
//	FOSYS_NATS_URL
//	FOSYS_DB_PATH
//	FOSYS_ONLINE_CHECK_INTERVAL (seconds)
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.APIBaseURL, os.Getenv("FOSYS_API_URL"))
	setString(&cfg.BaaSURL, os.Getenv("FOSYS_BAAS_URL"))
	setString(&cfg.BaaSKey, os.Getenv("FOSYS_BAAS_KEY"))
	setString(&cfg.BaaSRealtimeURL, os.Getenv("FOSYS_BAAS_REALTIME_URL"))
	setString(&cfg.RealtimeSchema, os.Getenv("FOSYS_REALTIME_SCHEMA"))
	setString(&cfg.NATSURL, os.Getenv("FOSYS_NATS_URL"))
	setString(&cfg.DBPath, os.Getenv("FOSYS_DB_PATH"))

	if v := os.Getenv("FOSYS_ONLINE_CHECK_INTERVAL"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.OnlineCheckInterval = time.Duration(seconds) * time.Second
		}
	}
}
