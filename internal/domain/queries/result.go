package queries

// ResultKind enum
type ResultKind string

const (
	KindTable ResultKind = "table"
	KindChart ResultKind = "chart"
)

// Result value object: whichever slot the generated code populated.
// Chart wins when both are set.
type Result struct {
	Kind  ResultKind `json:"kind"`
	Table *Table     `json:"table,omitempty"`
	Chart *Chart     `json:"chart,omitempty"`
}

// Table is the tabular result slot.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Chart is a renderer-neutral chart description. The dashboard draws it
// client side; the server never rasterizes anything.
type Chart struct {
	Type   string   `json:"type"` // bar | line | pie | scatter
	Title  string   `json:"title,omitempty"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Series is one named sequence of values in a chart.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}
