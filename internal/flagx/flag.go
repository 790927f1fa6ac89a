// Package flagx helps several config layers share one command line. Each
// layer parses only the flags it owns; FilterArgs strips everything else so
// a flag.FlagSet never chokes on another layer's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps exactly the allowed flags and their values from args,
// preserving order. Both spellings are recognized: a separate value
// ("-a http://localhost:8000") and an inline one ("-a=http://localhost:8000").
// A kept flag's trailing value is kept with it unless the next token starts
// with a dash, in which case the flag is passed through bare.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// "" when neither is present. It parses nothing else, so the main flag layer
// can define its own set without collisions.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
