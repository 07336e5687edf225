package follows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/tsn/internal/filex"
)

// FileRepository keeps one file per follower, dir/<follower>.jsonl, holding
// one encoded username per line.
type FileRepository struct {
	dir   string
	codec filex.Codec
	locks filex.Locks
}

func NewFileRepository(dir string, codec filex.Codec) *FileRepository {
	return &FileRepository{dir: dir, codec: codec}
}

func (r *FileRepository) path(follower string) string {
	return filepath.Join(r.dir, follower+".jsonl")
}

func (r *FileRepository) Load(ctx context.Context, follower string) ([]string, error) {
	path := r.path(follower)
	mu := r.locks.For(path)
	mu.Lock()
	defer mu.Unlock()

	result := []string{}
	err := filex.ReadLines(path, func(line []byte) error {
		var name string
		if err := r.codec.Decode(line, &name); err != nil {
			return fmt.Errorf("decode follow entry of %s: %w", follower, err)
		}
		result = append(result, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *FileRepository) Append(ctx context.Context, follower, followee string) error {
	data, err := r.codec.Encode(followee)
	if err != nil {
		return fmt.Errorf("encode follow entry: %w", err)
	}

	path := r.path(follower)
	mu := r.locks.For(path)
	mu.Lock()
	defer mu.Unlock()

	return filex.AppendLine(path, data)
}

func (r *FileRepository) Replace(ctx context.Context, follower string, followees []string) error {
	lines := make([][]byte, 0, len(followees))
	for _, f := range followees {
		data, err := r.codec.Encode(f)
		if err != nil {
			return fmt.Errorf("encode follow entry: %w", err)
		}
		lines = append(lines, data)
	}

	path := r.path(follower)
	mu := r.locks.For(path)
	mu.Lock()
	defer mu.Unlock()

	return filex.WriteLinesAtomic(path, lines)
}
