package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tsn/internal/flagx"
	"github.com/dmitrijs2005/tsn/internal/timex"
)

// JsonConfig is the on-disk shape of the client config file.
type JsonConfig struct {
	Host           string          `json:"host"`
	Port           string          `json:"port"`
	Username       string          `json:"username"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	if jc.Host != "" {
		cfg.Host = jc.Host
	}
	if jc.Port != "" {
		cfg.Port = jc.Port
	}
	if jc.Username != "" {
		cfg.Username = jc.Username
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
