package memory

import (
	"sort"
	"sync"

	domain "github.com/rizaldy/datachat/internal/domain/datasets"
)

// DatasetRegistry is the process-lifetime dataset store. Re-uploading a file
// with the same name replaces the previous entry, matching what assigning
// into a dict keyed by file name does.
type DatasetRegistry struct {
	mu   sync.RWMutex
	byID map[domain.DatasetID]*domain.Dataset
}

func NewDatasetRegistry() *DatasetRegistry {
	return &DatasetRegistry{byID: make(map[domain.DatasetID]*domain.Dataset)}
}

func (r *DatasetRegistry) Put(d *domain.Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// last write wins per name
	for id, existing := range r.byID {
		if existing.Name == d.Name {
			delete(r.byID, id)
		}
	}
	r.byID[d.ID] = d
}

func (r *DatasetRegistry) Get(id domain.DatasetID) (*domain.Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

func (r *DatasetRegistry) List() []*domain.Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Dataset, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoadedAt.Equal(out[j].LoadedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].LoadedAt.Before(out[j].LoadedAt)
	})
	return out
}

func (r *DatasetRegistry) Remove(id domain.DatasetID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	delete(r.byID, id)
	return ok
}
