package users

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/tsn/internal/filex"
	"github.com/dmitrijs2005/tsn/internal/server/models"
)

const rosterFile = "users.jsonl"

// FileRepository keeps the roster as one record per line in dir/users.jsonl.
type FileRepository struct {
	path  string
	codec filex.Codec
	mu    sync.Mutex
}

func NewFileRepository(dir string, codec filex.Codec) *FileRepository {
	return &FileRepository{path: filepath.Join(dir, rosterFile), codec: codec}
}

func (r *FileRepository) Create(ctx context.Context, user *models.User) error {
	data, err := r.codec.Encode(user)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", user.UserName, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return filex.AppendLine(r.path, data)
}

func (r *FileRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.User
	err := filex.ReadLines(r.path, func(line []byte) error {
		u := &models.User{}
		if err := r.codec.Decode(line, u); err != nil {
			return fmt.Errorf("decode roster line: %w", err)
		}
		result = append(result, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
