package rwr

import (
	"errors"
	"fmt"
)

// ErrNotConverged is matched by ConvergenceError. It is a warning: the
// accompanying result holds the best available iterate for every row.
var ErrNotConverged = errors.New("random walk did not converge")

// ConvergenceError lists the rows that reached the iteration cap.
type ConvergenceError struct {
	Rows          []int
	MaxIterations int
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	const preview = 5
	rows := e.Rows
	suffix := ""
	if len(rows) > preview {
		rows = rows[:preview]
		suffix = ", ..."
	}
	return fmt.Sprintf("%s: %d row(s) reached %d iterations (rows %v%s)",
		ErrNotConverged, len(e.Rows), e.MaxIterations, rows, suffix)
}

// Is reports whether target is ErrNotConverged.
func (e *ConvergenceError) Is(target error) bool {
	return target == ErrNotConverged
}
