package memory

import (
	"sync"

	domain "github.com/rizaldy/datachat/internal/domain/queries"
)

const defaultQueryLogCap = 100

// QueryLog keeps the most recent queries in memory, newest first.
type QueryLog struct {
	mu      sync.RWMutex
	entries []*domain.Query
	cap     int
}

func NewQueryLog(capacity int) *QueryLog {
	if capacity <= 0 {
		capacity = defaultQueryLogCap
	}
	return &QueryLog{cap: capacity}
}

func (l *QueryLog) Save(q *domain.Query) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]*domain.Query{q}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
}

func (l *QueryLog) Latest(limit int) []*domain.Query {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]*domain.Query, limit)
	copy(out, l.entries[:limit])
	return out
}
