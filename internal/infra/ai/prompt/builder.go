package prompt

import "fmt"

// GetSystemPrompt provides strict directions for code-only output. The
// schema and sample are JSON digests of the target dataset.
func GetSystemPrompt(schema, sample string) string {
	return fmt.Sprintf(`You are a Go data analyst.
Dataset schema: %s
Dataset sample: %s

Task: write Go code that answers the user's question about this dataset.

CRITICAL RULES:
1. Output ONLY valid Go statements. NO explanations. NO markdown. NO package clause. NO func main.
2. The parsed dataset is already available as the variable `+"`data`"+` (type any). Use type assertions such as data.([]any) and row.(map[string]any). JSON numbers decode as float64.
3. Save a tabular answer to a variable named `+"`table`"+` using datachat.Table{Columns: []string{...}, Rows: [][]any{...}}.
4. Save a chart answer to a variable named `+"`chart`"+` using datachat.Chart{Type: "bar", Title: "...", Labels: []string{...}, Series: []datachat.Series{{Name: "...", Values: []float64{...}}}}. Valid types: bar, line, pie, scatter.
5. Assign exactly one of `+"`table`"+` or `+"`chart`"+`.
6. You may import only: strings, strconv, fmt, math, sort, time, encoding/json, regexp, errors.`,
		schema, sample)
}

// GetUserPrompt passes the question through verbatim.
func GetUserPrompt(question string) string {
	return question
}
