package queries

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rizaldy/datachat/internal/application"
	"github.com/rizaldy/datachat/internal/domain/ai"
	domds "github.com/rizaldy/datachat/internal/domain/datasets"
	domain "github.com/rizaldy/datachat/internal/domain/queries"
)

// Service implements the ask use-case: summarize the dataset, have the model
// write code, run the code, classify the outcome. Synchronous per request,
// matching one user interaction end to end.
type Service struct {
	Registry domds.Registry
	Gen      ai.Generator
	Runner   domain.Runner
	Log      domain.Log
	Clock    application.Clock
}

// AskCommand input untuk Ask
type AskCommand struct {
	DatasetID domds.DatasetID
	Question  string
}

// Ask runs the full pipeline. The returned Query is recorded in the log even
// on failure, so the dashboard can show what code was generated and why it
// did not produce a view.
func (s *Service) Ask(ctx context.Context, cmd AskCommand) (*domain.Query, error) {
	q := &domain.Query{
		ID:        domain.QueryID(uuid.New().String()),
		DatasetID: cmd.DatasetID,
		Question:  strings.TrimSpace(cmd.Question),
		AskedAt:   s.Clock.Now(),
		Status:    domain.StatusFailed,
	}

	if q.Question == "" {
		return s.fail(q, domain.ErrEmptyQuestion)
	}
	ds, ok := s.Registry.Get(cmd.DatasetID)
	if !ok {
		return s.fail(q, domds.ErrNotFound)
	}

	sum := domds.Summarize(ds)
	code, err := s.Gen.GenerateCode(ctx, ai.GenerateRequest{
		Question: q.Question,
		Schema:   sum.Schema,
		Sample:   sum.Sample,
	})
	if err != nil {
		return s.fail(q, err)
	}
	q.Code = code

	res, err := s.Runner.Run(ctx, domain.RunRequest{Code: code, Data: ds.Raw})
	q.DurationMS = res.DurationMS
	if err != nil {
		return s.fail(q, err)
	}

	q.Status = domain.StatusSuccess
	q.Result = &res.Result
	s.Log.Save(q)
	return q, nil
}

// Latest ambil N query terakhir
func (s *Service) Latest(ctx context.Context, limit int) []*domain.Query {
	return s.Log.Latest(limit)
}

func (s *Service) fail(q *domain.Query, err error) (*domain.Query, error) {
	q.Error = err.Error()
	s.Log.Save(q)
	return q, err
}
