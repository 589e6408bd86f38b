// Package extract implements schema inference and standardization for
// labeled-text datasets: deciding which field of an arbitrary record is
// "the text", which is "the label", and coercing the label into the shape
// a target task requires.
//
// The engine is two-phase. Resolve inspects a single sample record once
// and produces an immutable Resolved spec; ExtractText and ExtractLabel
// are then pure per-record functions safe for parallel fan-out.
package extract

import "fmt"

// Task directs label coercion.
type Task string

const (
	TaskBinary     Task = "binary"
	TaskRegression Task = "regression"
	TaskMultilabel Task = "multilabel"
)

// ParseTask validates a task directive string.
func ParseTask(s string) (Task, error) {
	switch Task(s) {
	case TaskBinary, TaskRegression, TaskMultilabel:
		return Task(s), nil
	default:
		return "", fmt.Errorf("unknown task %q (want binary, regression, or multilabel)", s)
	}
}
