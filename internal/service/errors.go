package service

import "errors"

var (
	// ErrMeterUnknown means no readings are stored for the meter.
	ErrMeterUnknown = errors.New("meter unknown")
	// ErrNoDataInWindow means the meter has readings but none in the requested window.
	ErrNoDataInWindow = errors.New("no data in window")
	// ErrNoPricePlan means the meter has no current price plan in the catalog.
	ErrNoPricePlan = errors.New("no price plan for meter")
	// ErrInvalidArgument means the request itself is malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)
