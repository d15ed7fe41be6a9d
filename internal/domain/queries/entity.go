package queries

import (
	"time"

	"github.com/rizaldy/datachat/internal/domain/datasets"
)

// ID tipe untuk Query
type QueryID string

// Status enum
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Aggregate Root: Query
// One ask-the-model round trip: question in, generated code, execution outcome.
type Query struct {
	ID         QueryID            `json:"id"`
	DatasetID  datasets.DatasetID `json:"dataset_id"`
	Question   string             `json:"question"`
	Code       string             `json:"code,omitempty"`
	Status     Status             `json:"status"`
	Error      string             `json:"error,omitempty"`
	Result     *Result            `json:"result,omitempty"`
	AskedAt    time.Time          `json:"asked_at"`
	DurationMS int64              `json:"duration_ms"`
}
