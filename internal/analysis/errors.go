package analysis

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is matched by errors.Is for every EmptyDatasetError.
var ErrEmptyDataset = &EmptyDatasetError{}

// EmptyDatasetError indicates a table with zero rows.
type EmptyDatasetError struct{}

func (e *EmptyDatasetError) Error() string { return "dataset has no rows" }

// Is makes every EmptyDatasetError match ErrEmptyDataset.
func (e *EmptyDatasetError) Is(target error) bool {
	_, ok := target.(*EmptyDatasetError)
	return ok
}

// AllAbsentColumnError indicates a numeric column with no present values,
// which leaves nothing to impute from.
type AllAbsentColumnError struct {
	Column string
}

func (e *AllAbsentColumnError) Error() string {
	return fmt.Sprintf("column %q has no values to impute from", e.Column)
}

// AnalysisError wraps an unexpected failure inside one analysis step.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("analysis failed: %v", e.Err)
	}
	return fmt.Sprintf("analysis failed: %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// IsInputError reports whether err stems from the shape of the input data
// rather than an internal failure.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}
	var absent *AllAbsentColumnError
	return errors.Is(err, ErrEmptyDataset) || errors.As(err, &absent)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *AnalysisError
	if errors.As(err, &ae) || IsInputError(err) {
		return err
	}
	return &AnalysisError{Op: op, Err: err}
}
