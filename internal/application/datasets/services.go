package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/rizaldy/datachat/internal/application"
	domain "github.com/rizaldy/datachat/internal/domain/datasets"
)

// Service implements use-cases untuk Dataset
// Service is designed to be used concurrently and is thread-safe as long as
// the Registry is.
type Service struct {
	Registry domain.Registry
	Sources  []domain.Source
	Clock    application.Clock
	MaxBytes int64
}

// Upload parses and registers one JSON document. schema may be nil; when
// present it is stored alongside the data and used for prompting instead of
// an inferred sketch.
func (s *Service) Upload(ctx context.Context, name string, data io.Reader, schema io.Reader) (*domain.Dataset, error) {
	raw, n, err := s.decode(data)
	if err != nil {
		return nil, err
	}

	d := &domain.Dataset{
		ID:       domain.DatasetID(uuid.New().String()),
		Name:     name,
		Origin:   domain.OriginUpload,
		LoadedAt: s.Clock.Now(),
		Bytes:    n,
		Raw:      raw,
	}
	if schema != nil {
		sraw, _, err := s.decode(schema)
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		d.Schema = sraw
	}

	s.Registry.Put(d)
	return d, nil
}

// NamedReader pairs an upload part with its file name.
type NamedReader struct {
	Name   string
	Reader io.Reader
}

// UploadStatus reports the per-file outcome of a batch upload.
type UploadStatus struct {
	Name  string           `json:"name"`
	ID    domain.DatasetID `json:"id,omitempty"`
	Error string           `json:"error,omitempty"`
}

// UploadBatch registers many files at once. One bad file does not abort the
// batch; the caller gets a status per file.
func (s *Service) UploadBatch(ctx context.Context, files []NamedReader) []UploadStatus {
	out := make([]UploadStatus, 0, len(files))
	for _, f := range files {
		st := UploadStatus{Name: f.Name}
		d, err := s.Upload(ctx, f.Name, f.Reader, nil)
		if err != nil {
			st.Error = err.Error()
		} else {
			st.ID = d.ID
		}
		out = append(out, st)
	}
	return out
}

// Sync runs every configured source (dataset directory, bucket) and
// registers whatever was discovered. Returns the number registered.
func (s *Service) Sync(ctx context.Context) (int, error) {
	total := 0
	for _, src := range s.Sources {
		found, err := src.Discover(ctx)
		if err != nil {
			return total, fmt.Errorf("source %s: %w", src.Name(), err)
		}
		origin := domain.OriginDir
		if strings.HasPrefix(src.Name(), "bucket:") {
			origin = domain.OriginBucket
		}
		for _, f := range found {
			s.Registry.Put(&domain.Dataset{
				ID:       domain.DatasetID(uuid.New().String()),
				Name:     f.Name,
				Origin:   origin,
				LoadedAt: s.Clock.Now(),
				Bytes:    f.Bytes,
				Raw:      f.Raw,
			})
			total++
		}
	}
	return total, nil
}

// List semua dataset terdaftar
func (s *Service) List(ctx context.Context) []*domain.Dataset {
	return s.Registry.List()
}

// Get ambil 1 dataset by id
func (s *Service) Get(ctx context.Context, id domain.DatasetID) (*domain.Dataset, error) {
	d, ok := s.Registry.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// Remove hapus dataset dari registry
func (s *Service) Remove(ctx context.Context, id domain.DatasetID) error {
	if !s.Registry.Remove(id) {
		return domain.ErrNotFound
	}
	return nil
}

// Summarize builds the prompt digest for a dataset.
func (s *Service) Summarize(ctx context.Context, id domain.DatasetID) (domain.Summary, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(d), nil
}

func (s *Service) decode(r io.Reader) (any, int64, error) {
	limit := s.MaxBytes
	if limit <= 0 {
		limit = 20 << 20
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, 0, err
	}
	if int64(len(b)) > limit {
		return nil, 0, domain.ErrTooLarge
	}
	if len(b) == 0 {
		return nil, 0, domain.ErrEmptyPayload
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrInvalidJSON, err)
	}
	return raw, int64(len(b)), nil
}
