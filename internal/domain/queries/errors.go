package queries

import "errors"

// ErrEmptyQuestion indicates an ask with no question text.
var ErrEmptyQuestion = errors.New("question is empty")

// ErrCodeRejected indicates the generated code failed pre-execution checks
// (forbidden import, empty snippet) and was never run.
var ErrCodeRejected = errors.New("generated code rejected")

// ErrExecFailed indicates the generated code ran and failed (compile error
// inside the interpreter, runtime panic, or returned error).
var ErrExecFailed = errors.New("generated code execution failed")

// ErrNoResult indicates the generated code ran to completion without
// assigning either result slot.
var ErrNoResult = errors.New("code ran but produced no table or chart")

// ErrTimeout indicates the generated code exceeded its execution budget.
var ErrTimeout = errors.New("code execution timed out")
