package repomanager

import (
	"context"

	"github.com/dmitrijs2005/tsn/internal/filex"
	"github.com/dmitrijs2005/tsn/internal/server/repositories/follows"
	"github.com/dmitrijs2005/tsn/internal/server/repositories/posts"
	"github.com/dmitrijs2005/tsn/internal/server/repositories/users"
)

const (
	followsDir   = "follows"
	timelinesDir = "timelines"
)

// FileRepositoryManager stores the roster, follow snapshots and timeline logs
// as JSON Lines files:
//
//	<dataDir>/users.jsonl
//	<dataDir>/follows/<username>.jsonl
//	<dataDir>/timelines/<username>.jsonl
type FileRepositoryManager struct {
	dataDir string
	users   *users.FileRepository
	follows *follows.FileRepository
	posts   *posts.FileRepository
}

func NewFileRepositoryManager(dataDir string) (*FileRepositoryManager, error) {
	return NewFileRepositoryManagerWithCodec(dataDir, filex.JSONCodec{})
}

// NewFileRepositoryManagerWithCodec is NewFileRepositoryManager with a custom
// record encoding. Directories are created eagerly.
func NewFileRepositoryManagerWithCodec(dataDir string, codec filex.Codec) (*FileRepositoryManager, error) {
	root, err := filex.EnsureDir(dataDir, "")
	if err != nil {
		return nil, err
	}
	fdir, err := filex.EnsureDir(root, followsDir)
	if err != nil {
		return nil, err
	}
	tdir, err := filex.EnsureDir(root, timelinesDir)
	if err != nil {
		return nil, err
	}

	return &FileRepositoryManager{
		dataDir: root,
		users:   users.NewFileRepository(root, codec),
		follows: follows.NewFileRepository(fdir, codec),
		posts:   posts.NewFileRepository(tdir, codec),
	}, nil
}

// RunMigrations is a no-op: the layout is created by the constructor.
func (m *FileRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *FileRepositoryManager) Users() users.Repository     { return m.users }
func (m *FileRepositoryManager) Follows() follows.Repository { return m.follows }
func (m *FileRepositoryManager) Posts() posts.Repository     { return m.posts }
func (m *FileRepositoryManager) Close() error                { return nil }
