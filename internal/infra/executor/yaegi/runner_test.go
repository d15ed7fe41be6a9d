package yaegi

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rizaldy/datachat/internal/domain/queries"
)

func sales(t *testing.T) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(
		`[{"region":"west","sales":10},{"region":"east","sales":25}]`), &v))
	return v
}

func TestRunner_Table(t *testing.T) {
	r := NewRunner(10 * time.Second)

	code := `
rows := data.([]any)
out := [][]any{}
for _, row := range rows {
	m := row.(map[string]any)
	out = append(out, []any{m["region"], m["sales"]})
}
table := datachat.Table{Columns: []string{"region", "sales"}, Rows: out}
`
	res, err := r.Run(context.Background(), domain.RunRequest{Code: code, Data: sales(t)})
	require.NoError(t, err)

	require.Equal(t, domain.KindTable, res.Result.Kind)
	require.NotNil(t, res.Result.Table)
	assert.Equal(t, []string{"region", "sales"}, res.Result.Table.Columns)
	require.Len(t, res.Result.Table.Rows, 2)
	assert.Equal(t, "west", res.Result.Table.Rows[0][0])
	assert.Equal(t, 10.0, res.Result.Table.Rows[0][1])
}

func TestRunner_Chart(t *testing.T) {
	r := NewRunner(10 * time.Second)

	code := `
rows := data.([]any)
labels := []string{}
vals := []float64{}
for _, row := range rows {
	m := row.(map[string]any)
	labels = append(labels, m["region"].(string))
	vals = append(vals, m["sales"].(float64))
}
chart := datachat.Chart{Type: "bar", Title: "sales by region", Labels: labels, Series: []datachat.Series{{Name: "sales", Values: vals}}}
`
	res, err := r.Run(context.Background(), domain.RunRequest{Code: code, Data: sales(t)})
	require.NoError(t, err)

	require.Equal(t, domain.KindChart, res.Result.Kind)
	require.NotNil(t, res.Result.Chart)
	assert.Equal(t, "bar", res.Result.Chart.Type)
	assert.Equal(t, []string{"west", "east"}, res.Result.Chart.Labels)
	require.Len(t, res.Result.Chart.Series, 1)
	assert.Equal(t, []float64{10, 25}, res.Result.Chart.Series[0].Values)
}

func TestRunner_ChartWinsOverTable(t *testing.T) {
	r := NewRunner(10 * time.Second)

	code := `
table := datachat.Table{Columns: []string{"x"}, Rows: [][]any{{1.0}}}
chart := datachat.Chart{Type: "line", Labels: []string{"a"}, Series: []datachat.Series{{Name: "s", Values: []float64{1}}}}
`
	res, err := r.Run(context.Background(), domain.RunRequest{Code: code, Data: sales(t)})
	require.NoError(t, err)
	assert.Equal(t, domain.KindChart, res.Result.Kind)
}

func TestRunner_MapSliceNormalizedToTable(t *testing.T) {
	r := NewRunner(10 * time.Second)

	code := `table := []map[string]any{{"b": 2.0, "a": 1.0}}`
	res, err := r.Run(context.Background(), domain.RunRequest{Code: code, Data: nil})
	require.NoError(t, err)

	require.Equal(t, domain.KindTable, res.Result.Kind)
	assert.Equal(t, []string{"a", "b"}, res.Result.Table.Columns)
	assert.Equal(t, [][]any{{1.0, 2.0}}, res.Result.Table.Rows)
}

func TestRunner_AllowedImport(t *testing.T) {
	r := NewRunner(10 * time.Second)

	code := `
import "strings"

rows := data.([]any)
m := rows[0].(map[string]any)
table := datachat.Table{Columns: []string{"region"}, Rows: [][]any{{strings.ToUpper(m["region"].(string))}}}
`
	res, err := r.Run(context.Background(), domain.RunRequest{Code: code, Data: sales(t)})
	require.NoError(t, err)
	assert.Equal(t, "WEST", res.Result.Table.Rows[0][0])
}

func TestRunner_ForbiddenImportRejected(t *testing.T) {
	r := NewRunner(10 * time.Second)

	for _, code := range []string{
		"import \"os\"\ntable := datachat.Table{Columns: []string{os.Getenv(\"HOME\")}}",
		"import (\n\t\"net/http\"\n)\n_ = http.DefaultClient",
		"import x \"os/exec\"\n_ = x.Command",
	} {
		_, err := r.Run(context.Background(), domain.RunRequest{Code: code, Data: nil})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCodeRejected)
	}
}

func TestRunner_EmptySnippetRejected(t *testing.T) {
	r := NewRunner(10 * time.Second)

	_, err := r.Run(context.Background(), domain.RunRequest{Code: "   \n", Data: nil})
	assert.ErrorIs(t, err, domain.ErrCodeRejected)
}

func TestRunner_BrokenCodeFails(t *testing.T) {
	r := NewRunner(10 * time.Second)

	_, err := r.Run(context.Background(), domain.RunRequest{Code: "table := noSuchFunc()", Data: nil})
	assert.ErrorIs(t, err, domain.ErrExecFailed)
}

func TestRunner_NoResult(t *testing.T) {
	r := NewRunner(10 * time.Second)

	_, err := r.Run(context.Background(), domain.RunRequest{Code: "x := 1\n_ = x", Data: nil})
	assert.ErrorIs(t, err, domain.ErrNoResult)
}

func TestRunner_MutationDoesNotLeakToCaller(t *testing.T) {
	r := NewRunner(10 * time.Second)

	shared := sales(t)
	code := `
m := data.([]any)[0].(map[string]any)
m["region"] = "scribbled"
table := datachat.Table{Columns: []string{"region"}, Rows: [][]any{{m["region"]}}}
`
	res, err := r.Run(context.Background(), domain.RunRequest{Code: code, Data: shared})
	require.NoError(t, err)

	// the snippet saw its own mutation
	assert.Equal(t, "scribbled", res.Result.Table.Rows[0][0])
	// the caller's value did not
	assert.Equal(t, "west", shared.([]any)[0].(map[string]any)["region"])
}

func TestRunner_Timeout(t *testing.T) {
	r := NewRunner(200 * time.Millisecond)

	_, err := r.Run(context.Background(), domain.RunRequest{Code: "for {}", Data: nil})
	assert.ErrorIs(t, err, domain.ErrTimeout)
}
