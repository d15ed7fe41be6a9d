package datasets

import (
	"time"
)

// ID tipe untuk Dataset
type DatasetID string

// Origin enum: dari mana dataset masuk
type Origin string

const (
	OriginUpload Origin = "upload"
	OriginDir    Origin = "dir"
	OriginBucket Origin = "bucket"
)

// Aggregate Root: Dataset
//
// Raw holds the parsed JSON document as decoded by encoding/json
// (map[string]any, []any, string, float64, bool, nil). Schema is the
// optional user supplied schema document, same decoding.
type Dataset struct {
	ID       DatasetID `json:"id"`
	Name     string    `json:"name"`
	Origin   Origin    `json:"origin"`
	LoadedAt time.Time `json:"loaded_at"`
	Bytes    int64     `json:"bytes"`
	Raw      any       `json:"-"`
	Schema   any       `json:"-"`
}
