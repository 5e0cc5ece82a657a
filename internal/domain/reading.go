package domain

import "time"

// Reading is a single electricity consumption sample of a smart meter.
// Amount is the energy recorded for the implicit interval ending at Time.
type Reading struct {
	Time   time.Time
	Amount Decimal
}
