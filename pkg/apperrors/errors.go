package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrZeroDenominator = errors.New("zero denominator")
	ErrEmptyTable      = errors.New("empty table")
	ErrStaleCapacity   = errors.New("occupancy above estimated capacity")
	ErrUnknownSource   = errors.New("unknown reservation source kind")
)
