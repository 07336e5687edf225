package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tsn/internal/flagx"
	"github.com/dmitrijs2005/tsn/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "10s" style strings or integer nanoseconds. Missing fields keep the
// current value.
type JsonConfig struct {
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc"`
	WebSocketAddr    *string         `json:"ws_addr"`
	StorageDriver    string          `json:"storage_driver"`
	DataDir          string          `json:"data_dir"`
	DatabaseDSN      string          `json:"database_dsn"`
	MailboxCapacity  int             `json:"mailbox_capacity"`
	LogLevel         string          `json:"log_level"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {

	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	if c.WebSocketAddr != nil {
		config.WebSocketAddr = *c.WebSocketAddr
	}
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DataDir, c.DataDir)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.MailboxCapacity > 0 {
		config.MailboxCapacity = c.MailboxCapacity
	}
	setString(&config.LogLevel, c.LogLevel)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	return nil
}
