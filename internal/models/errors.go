package models

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("access denied")
	ErrInvalidInput = errors.New("invalid input")

	// ErrScheduleGone is returned when a schedule was deleted or already
	// advanced between the due scan and its materialization.
	ErrScheduleGone = errors.New("scheduled transaction no longer due")
)
