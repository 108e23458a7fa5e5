package main

import (
	"errors"
	"fmt"
)

// ErrEmptyResult signals that a filter specification matched zero rows,
// which is different from an aggregate view producing zero-count buckets.
var ErrEmptyResult = errors.New("empty dataset after filter application")

// ErrInsufficientData signals fewer than 3 aligned points for correlation.
var ErrInsufficientData = errors.New("not enough aligned points for correlation")

// MissingColumnError reports a requested field absent from the dataset.
// The affected view is skipped, the rest of the request proceeds.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q is missing in input data", e.Column)
}

func IsMissingColumn(err error) bool {
	var mc *MissingColumnError
	return errors.As(err, &mc)
}
