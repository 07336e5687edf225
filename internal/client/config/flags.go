package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/tsn/internal/flagx"
)

// parseFlags populates Config from command-line flags.
//
//	-h string   server host
//	-u string   username
//	-p string   server port
func parseFlags(cfg *Config, osArgs []string) error {
	args := flagx.FilterArgs(osArgs, []string{"-h", "-u", "-p"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Host, "h", cfg.Host, "server host")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "username")
	fs.StringVar(&cfg.Port, "p", cfg.Port, "server port")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
