package yaegi

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	domain "github.com/rizaldy/datachat/internal/domain/queries"
)

// Runner interprets model-generated Go snippets instead of compiling them.
// Each run gets a fresh interpreter with the dataset bound to `data` and the
// result types exported under the `datachat` import path. After the snippet
// runs, the conventional slots `chart` and `table` are read back out.
//
// Restrictions:
// - import whitelist, stdlib data-wrangling packages only
// - no os, os/exec, net, syscall, unsafe
// - wall-clock timeout enforced via context
type Runner struct {
	allowedImports map[string]bool
	timeout        time.Duration
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{
		timeout: timeout,
		allowedImports: map[string]bool{
			"strings":       true,
			"strconv":       true,
			"fmt":           true,
			"math":          true,
			"sort":          true,
			"time":          true,
			"encoding/json": true,
			"regexp":        true,
			"errors":        true,
			"datachat":      true, // result type helpers, exported below
		},
	}
}

func (r *Runner) Run(ctx context.Context, req domain.RunRequest) (domain.RunResult, error) {
	start := time.Now()

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.RunResult{}, fmt.Errorf("%w: empty snippet", domain.ErrCodeRejected)
	}
	if err := r.validateImports(code); err != nil {
		return domain.RunResult{}, fmt.Errorf("%w: %v", domain.ErrCodeRejected, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return domain.RunResult{}, fmt.Errorf("load stdlib symbols: %w", err)
	}

	// The snippet gets its own copy of the dataset. Injecting the registry's
	// value directly would let a mutating snippet corrupt it for later asks,
	// and an abandoned timed-out goroutine could keep writing to maps a later
	// run reads.
	boxed, err := deepCopy(req.Data)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("copy dataset: %w", err)
	}
	if err := i.Use(interp.Exports{
		"datachat/datachat": {
			"Data":   reflect.ValueOf(&boxed).Elem(),
			"Table":  reflect.ValueOf((*domain.Table)(nil)),
			"Chart":  reflect.ValueOf((*domain.Chart)(nil)),
			"Series": reflect.ValueOf((*domain.Series)(nil)),
		},
	}); err != nil {
		return domain.RunResult{}, fmt.Errorf("export dataset symbols: %w", err)
	}
	if _, err := i.Eval(`import "datachat"`); err != nil {
		return domain.RunResult{}, fmt.Errorf("bind dataset package: %w", err)
	}
	if _, err := i.Eval(`data := datachat.Data`); err != nil {
		return domain.RunResult{}, fmt.Errorf("bind data variable: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				errCh <- fmt.Errorf("panic: %v", rec)
			}
		}()
		_, err := i.Eval(code)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return domain.RunResult{}, fmt.Errorf("%w: %v", domain.ErrExecFailed, err)
		}
	case <-ctx.Done():
		// the interpreter goroutine is abandoned; it only holds this run's
		// private dataset copy, so it cannot touch later runs
		return domain.RunResult{}, fmt.Errorf("%w after %s", domain.ErrTimeout, r.timeout)
	}

	res, err := r.collect(i)
	if err != nil {
		return domain.RunResult{}, err
	}
	return domain.RunResult{Result: res, DurationMS: time.Since(start).Milliseconds()}, nil
}

// deepCopy detaches the dataset from the caller via a JSON round-trip.
// Datasets always come out of json.Unmarshal, so the round-trip is lossless.
func deepCopy(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// collect reads the result slots out of the interpreter, chart first.
func (r *Runner) collect(i *interp.Interpreter) (domain.Result, error) {
	if v, err := i.Eval("chart"); err == nil {
		if c, ok := asChart(v); ok {
			return domain.Result{Kind: domain.KindChart, Chart: c}, nil
		}
	}
	if v, err := i.Eval("table"); err == nil {
		if t, ok := asTable(v); ok {
			return domain.Result{Kind: domain.KindTable, Table: t}, nil
		}
	}
	return domain.Result{}, domain.ErrNoResult
}

func asChart(v reflect.Value) (*domain.Chart, bool) {
	switch c := v.Interface().(type) {
	case domain.Chart:
		return &c, true
	case *domain.Chart:
		return c, c != nil
	}
	return nil, false
}

func asTable(v reflect.Value) (*domain.Table, bool) {
	switch t := v.Interface().(type) {
	case domain.Table:
		return &t, true
	case *domain.Table:
		return t, t != nil
	case []map[string]any:
		return tableFromMaps(t), true
	case []any:
		maps := make([]map[string]any, 0, len(t))
		for _, el := range t {
			m, ok := el.(map[string]any)
			if !ok {
				return nil, false
			}
			maps = append(maps, m)
		}
		return tableFromMaps(maps), true
	}
	return nil, false
}

// tableFromMaps flattens a row-map slice the way the prompt tells the model
// not to bother doing itself. Columns are the sorted union of keys.
func tableFromMaps(rows []map[string]any) *domain.Table {
	colSet := map[string]bool{}
	for _, row := range rows {
		for k := range row {
			colSet[k] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	out := &domain.Table{Columns: cols, Rows: make([][]any, 0, len(rows))}
	for _, row := range rows {
		vals := make([]any, len(cols))
		for i, c := range cols {
			vals[i] = row[c]
		}
		out.Rows = append(out.Rows, vals)
	}
	return out
}

// validateImports checks that the snippet only imports whitelisted packages.
func (r *Runner) validateImports(code string) error {
	var forbidden []string
	inBlock := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
			continue
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
			continue
		}

		var pkg string
		if inBlock && trimmed != "" {
			pkg = trimmed
		} else if strings.HasPrefix(trimmed, "import ") {
			pkg = strings.TrimPrefix(trimmed, "import ")
		} else {
			continue
		}
		// drop an alias, keep the quoted path
		if i := strings.Index(pkg, `"`); i >= 0 {
			pkg = pkg[i:]
		}
		pkg = strings.Trim(pkg, `"`)
		if pkg != "" && !r.allowedImports[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %v", forbidden)
	}
	return nil
}
