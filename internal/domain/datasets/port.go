package datasets

import "context"

// Registry port (interface untuk simpan dataset di memori)
// Implementations live for the process lifetime only; nothing is persisted.
type Registry interface {
	Put(d *Dataset)
	Get(id DatasetID) (*Dataset, bool)
	List() []*Dataset
	Remove(id DatasetID) bool
}

// Discovered is a dataset candidate found by a Source before registration.
type Discovered struct {
	Name  string
	Bytes int64
	Raw   any
}

// Source port (interface untuk auto-discovery dataset JSON)
type Source interface {
	Name() string
	Discover(ctx context.Context) ([]Discovered, error)
}
