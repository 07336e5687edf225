package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/tsn/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g. ":3010")
//	-w string   WebSocket gateway bind address
//	-s string   storage driver: file | postgres
//	-f string   data directory for the file driver
//	-d string   PostgreSQL DSN
//	-m int      mailbox capacity
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
func parseFlags(config *Config, osArgs []string) error {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(osArgs, []string{"-a", "-w", "-s", "-f", "-d", "-m", "-l", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.WebSocketAddr, "w", config.WebSocketAddr, "websocket gateway address")
	fs.StringVar(&config.StorageDriver, "s", config.StorageDriver, "storage driver (file|postgres)")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.MailboxCapacity, "m", config.MailboxCapacity, "mailbox capacity")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if config.MailboxCapacity <= 0 {
		return fmt.Errorf("mailbox capacity must be positive, got %d", config.MailboxCapacity)
	}
	return nil
}
