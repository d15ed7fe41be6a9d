package queries

import "context"

// RunRequest untuk Runner
type RunRequest struct {
	Code string
	Data any // parsed dataset, injected as the `data` variable
}

// RunResult hasil dari Runner
type RunResult struct {
	Result     Result
	DurationMS int64
}

// Runner port (interface untuk eksekusi kode hasil generate)
type Runner interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
}

// Log port: riwayat query di memori, tidak dipersist
type Log interface {
	Save(q *Query)
	Latest(limit int) []*Query
}
