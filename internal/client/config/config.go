// Package config handles configuration for the tsn client: defaults, an
// optional JSON file (-c/-config) and the -h/-u/-p flags.
package config

import (
	"net"
	"os"
	"time"
)

// Config holds runtime settings for the client.
type Config struct {
	Host           string
	Port           string
	Username       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.Host = "localhost"
	c.Port = "3010"
	c.Username = "default"
	c.RequestTimeout = 5 * time.Second
}

// Endpoint is the host:port to dial.
func (c *Config) Endpoint() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// LoadConfig applies defaults, then JSON, then flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
