// Command irene-validate checks a configuration file for schema and
// cross-component consistency errors without starting the runtime.
//
// Exit codes: 0 valid, 1 invalid configuration, 2 tool error (bad flags,
// unreadable file, decode failure).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lookatitude/irene/pkg/config"
)

func main() {
	configDir := flag.String("config-dir", ".", "directory to search for the config file")
	configName := flag.String("config-name", "config", "base name of the config file (without extension)")
	quiet := flag.Bool("quiet", false, "suppress output on success")
	flag.Parse()

	opts := config.LoaderOptions{
		ConfigName:  *configName,
		ConfigPaths: []string{*configDir},
		EnvPrefix:   "IRENE",
	}

	loader, err := config.NewLoader(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "irene-validate: %v\n", err)
		os.Exit(2)
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "irene-validate: %v\n", err)
		os.Exit(2)
	}

	report := config.Validate(cfg)
	if !report.OK() {
		for _, e := range report.Errors {
			fmt.Fprintln(os.Stderr, "invalid:", e)
		}
		os.Exit(1)
	}

	if !*quiet {
		fmt.Println("configuration valid")
	}
	os.Exit(0)
}
