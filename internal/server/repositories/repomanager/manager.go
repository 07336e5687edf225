// Package repomanager selects and assembles the storage backend: the roster,
// follow-set and timeline repositories plus backend setup and teardown.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tsn/internal/server/repositories/follows"
	"github.com/dmitrijs2005/tsn/internal/server/repositories/posts"
	"github.com/dmitrijs2005/tsn/internal/server/repositories/users"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type RepositoryManager interface {
	// RunMigrations prepares the backend (schema, directories).
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Follows() follows.Repository
	Posts() posts.Repository
	Close() error
}

// New returns the manager for driver: "file" stores everything under dataDir,
// "postgres" connects to dsn.
func New(driver, dataDir, dsn string) (RepositoryManager, error) {
	switch driver {
	case DriverFile, "":
		return NewFileRepositoryManager(dataDir)
	case DriverPostgres:
		return NewPostgresRepositoryManager(dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
