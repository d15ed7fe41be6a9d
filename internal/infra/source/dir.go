package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/rizaldy/datachat/internal/domain/datasets"
)

// DirSource discovers *.json files in a local directory, non-recursive.
type DirSource struct {
	dir      string
	maxBytes int64
}

func NewDirSource(dir string, maxBytes int64) *DirSource {
	return &DirSource{dir: dir, maxBytes: maxBytes}
}

func (s *DirSource) Name() string { return "dir:" + s.dir }

func (s *DirSource) Discover(ctx context.Context) ([]domain.Discovered, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var found []domain.Discovered
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if s.maxBytes > 0 && info.Size() > s.maxBytes {
			// skip, jangan gagalkan scan gara-gara satu file besar
			continue
		}
		b, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var raw any
		if err := json.Unmarshal(b, &raw); err != nil {
			continue
		}
		found = append(found, domain.Discovered{
			Name:  e.Name(),
			Bytes: int64(len(b)),
			Raw:   raw,
		})
	}
	return found, nil
}
