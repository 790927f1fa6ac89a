package config

import (
	"flag"
	"os"
	"time"

	"github.com/fosys/fosys-client/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API (default from Config)
//	-b string   base URL of the hosted data/auth service
//	-k string   API key of the hosted data/auth service
//	-r string   websocket URL of the realtime feed
//	-n string   URL of the NATS broker
//	-d string   path of the local state database
//	-i int      online check interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-k", "-r", "-n", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.BaaSURL, "b", cfg.BaaSURL, "base URL of the hosted data service")
	fs.StringVar(&cfg.BaaSKey, "k", cfg.BaaSKey, "API key of the hosted data service")
	fs.StringVar(&cfg.BaaSRealtimeURL, "r", cfg.BaaSRealtimeURL, "websocket URL of the realtime feed")
	fs.StringVar(&cfg.NATSURL, "n", cfg.NATSURL, "URL of the NATS broker")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local state database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
