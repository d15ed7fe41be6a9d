package ai

import "context"

// GenerateRequest membawa konteks dataset untuk prompt
type GenerateRequest struct {
	Question string
	Schema   string // structure sketch or user supplied schema, JSON encoded
	Sample   string // small sample of the dataset, JSON encoded
}

// Generator port (interface untuk code generation lewat model)
type Generator interface {
	GenerateCode(ctx context.Context, req GenerateRequest) (string, error)
}
