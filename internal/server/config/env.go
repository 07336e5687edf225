package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var lookupEnv = os.LookupEnv

// parseEnv overlays TSN_* variables. Values from dotenv are used only where
// the real environment has no value; a missing dotenv file is not an error.
func parseEnv(config *Config, dotenv string) error {
	fileVals := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", dotenv, err)
		}
		if m != nil {
			fileVals = m
		}
	}

	get := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}

	stringVars := map[string]*string{
		"TSN_GRPC_ADDR":        &config.EndpointAddrGRPC,
		"TSN_WS_ADDR":          &config.WebSocketAddr,
		"TSN_STORAGE":          &config.StorageDriver,
		"TSN_DATA_DIR":         &config.DataDir,
		"TSN_DATABASE_DSN":     &config.DatabaseDSN,
		"TSN_LOG_LEVEL":        &config.LogLevel,
		"TSN_S3_ROOT_USER":     &config.S3RootUser,
		"TSN_S3_ROOT_PASSWORD": &config.S3RootPassword,
		"TSN_S3_BUCKET":        &config.S3Bucket,
		"TSN_S3_REGION":        &config.S3Region,
		"TSN_S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for key, dst := range stringVars {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	if v, ok := get("TSN_MAILBOX_CAPACITY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("TSN_MAILBOX_CAPACITY: invalid value %q", v)
		}
		config.MailboxCapacity = n
	}
	if v, ok := get("TSN_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TSN_SHUTDOWN_TIMEOUT: %w", err)
		}
		config.ShutdownTimeout = d
	}
	return nil
}
