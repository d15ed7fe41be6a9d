package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizaldy/datachat/internal/domain/ai"
	domds "github.com/rizaldy/datachat/internal/domain/datasets"
	domain "github.com/rizaldy/datachat/internal/domain/queries"
	"github.com/rizaldy/datachat/internal/infra/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeGen struct {
	code string
	err  error
	got  ai.GenerateRequest
}

func (g *fakeGen) GenerateCode(ctx context.Context, req ai.GenerateRequest) (string, error) {
	g.got = req
	return g.code, g.err
}

type fakeRunner struct {
	res domain.RunResult
	err error
	got domain.RunRequest
}

func (r *fakeRunner) Run(ctx context.Context, req domain.RunRequest) (domain.RunResult, error) {
	r.got = req
	return r.res, r.err
}

func newService(gen *fakeGen, runner *fakeRunner) (*Service, domds.Registry) {
	reg := memory.NewDatasetRegistry()
	reg.Put(&domds.Dataset{
		ID:   "ds1",
		Name: "sales.json",
		Raw:  []any{map[string]any{"region": "west", "sales": 10.0}},
	})
	return &Service{
		Registry: reg,
		Gen:      gen,
		Runner:   runner,
		Log:      memory.NewQueryLog(10),
		Clock:    fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}, reg
}

func TestService_Ask(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		gen := &fakeGen{code: `table := datachat.Table{}`}
		runner := &fakeRunner{res: domain.RunResult{
			Result:     domain.Result{Kind: domain.KindTable, Table: &domain.Table{Columns: []string{"x"}}},
			DurationMS: 42,
		}}
		svc, _ := newService(gen, runner)

		q, err := svc.Ask(context.Background(), AskCommand{DatasetID: "ds1", Question: " total sales? "})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusSuccess, q.Status)
		assert.Equal(t, "total sales?", q.Question)
		assert.Equal(t, gen.code, q.Code)
		assert.Equal(t, int64(42), q.DurationMS)
		require.NotNil(t, q.Result)
		assert.Equal(t, domain.KindTable, q.Result.Kind)

		// prompt digest was built from the dataset
		assert.Contains(t, gen.got.Sample, "west")
		assert.Contains(t, gen.got.Schema, "string")

		// runner received the generated code and the raw dataset
		assert.Equal(t, gen.code, runner.got.Code)
		assert.NotNil(t, runner.got.Data)
	})

	t.Run("empty question", func(t *testing.T) {
		svc, _ := newService(&fakeGen{}, &fakeRunner{})
		q, err := svc.Ask(context.Background(), AskCommand{DatasetID: "ds1", Question: "   "})
		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
		assert.Equal(t, domain.StatusFailed, q.Status)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		svc, _ := newService(&fakeGen{}, &fakeRunner{})
		_, err := svc.Ask(context.Background(), AskCommand{DatasetID: "nope", Question: "q"})
		assert.ErrorIs(t, err, domds.ErrNotFound)
	})

	t.Run("model error propagates and is recorded", func(t *testing.T) {
		gen := &fakeGen{err: ai.ErrModelUnavailable}
		svc, _ := newService(gen, &fakeRunner{})

		q, err := svc.Ask(context.Background(), AskCommand{DatasetID: "ds1", Question: "q"})
		assert.ErrorIs(t, err, ai.ErrModelUnavailable)
		assert.Equal(t, domain.StatusFailed, q.Status)

		latest := svc.Latest(context.Background(), 1)
		require.Len(t, latest, 1)
		assert.Equal(t, q.ID, latest[0].ID)
		assert.NotEmpty(t, latest[0].Error)
	})

	t.Run("execution error keeps the generated code on the record", func(t *testing.T) {
		gen := &fakeGen{code: `boom()`}
		runner := &fakeRunner{err: domain.ErrExecFailed}
		svc, _ := newService(gen, runner)

		q, err := svc.Ask(context.Background(), AskCommand{DatasetID: "ds1", Question: "q"})
		assert.ErrorIs(t, err, domain.ErrExecFailed)
		assert.Equal(t, "boom()", q.Code)
	})

	t.Run("successes land in the log newest first", func(t *testing.T) {
		gen := &fakeGen{code: "x"}
		runner := &fakeRunner{res: domain.RunResult{Result: domain.Result{Kind: domain.KindTable, Table: &domain.Table{}}}}
		svc, _ := newService(gen, runner)

		_, err := svc.Ask(context.Background(), AskCommand{DatasetID: "ds1", Question: "first"})
		require.NoError(t, err)
		_, err = svc.Ask(context.Background(), AskCommand{DatasetID: "ds1", Question: "second"})
		require.NoError(t, err)

		latest := svc.Latest(context.Background(), 10)
		require.Len(t, latest, 2)
		assert.Equal(t, "second", latest[0].Question)
	})
}
