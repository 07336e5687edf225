package posts

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/tsn/internal/filex"
	"github.com/dmitrijs2005/tsn/internal/server/models"
)

// FileRepository keeps one append-only log per owner, dir/<owner>.jsonl.
// Lines that fail to decode are skipped on read so that a torn final write
// does not make the whole timeline unreadable.
type FileRepository struct {
	dir   string
	codec filex.Codec
	locks filex.Locks
}

func NewFileRepository(dir string, codec filex.Codec) *FileRepository {
	return &FileRepository{dir: dir, codec: codec}
}

func (r *FileRepository) path(owner string) string {
	return filepath.Join(r.dir, owner+".jsonl")
}

func (r *FileRepository) Append(ctx context.Context, owner string, post models.Post) error {
	data, err := r.codec.Encode(post)
	if err != nil {
		return fmt.Errorf("encode post: %w", err)
	}

	path := r.path(owner)
	mu := r.locks.For(path)
	mu.Lock()
	defer mu.Unlock()

	return filex.AppendLine(path, data)
}

func (r *FileRepository) Recent(ctx context.Context, owner string, limit int) ([]models.Post, error) {
	if limit <= 0 {
		return nil, nil
	}

	// ring of the last limit records
	ring := make([]models.Post, 0, limit)
	next := 0
	err := r.scan(owner, func(p models.Post) {
		if len(ring) < limit {
			ring = append(ring, p)
			return
		}
		ring[next] = p
		next = (next + 1) % limit
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.Post, 0, len(ring))
	result = append(result, ring[next:]...)
	result = append(result, ring[:next]...)
	return result, nil
}

func (r *FileRepository) All(ctx context.Context, owner string) ([]models.Post, error) {
	var result []models.Post
	if err := r.scan(owner, func(p models.Post) { result = append(result, p) }); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *FileRepository) scan(owner string, fn func(models.Post)) error {
	path := r.path(owner)
	mu := r.locks.For(path)
	mu.Lock()
	defer mu.Unlock()

	return filex.ReadLines(path, func(line []byte) error {
		var p models.Post
		if err := r.codec.Decode(line, &p); err != nil {
			return nil
		}
		fn(p)
		return nil
	})
}
