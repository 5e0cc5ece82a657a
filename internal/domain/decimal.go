package domain

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// precision is the least number of significant digits an operation works with.
const precision = 34

// Decimal is a fixed-point number used for consumption amounts, unit rates and costs.
// Binary floating point is never used for money.
type Decimal struct {
	value apd.Decimal
}

func NewDecimal(s string) (Decimal, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("invalid decimal %q: not finite", s)
	}
	return Decimal{value: d}, nil
}

// MustDecimal is like NewDecimal but panics on malformed input. Use it for constants.
func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func NewDecimalFromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

func (d Decimal) String() string {
	return d.value.Text('f')
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int {
	return d.value.Sign()
}

// Exponent is the power of ten of the least significant digit, i.e. minus the scale.
func (d Decimal) Exponent() int32 {
	return d.value.Exponent
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

// Equal reports numeric equality, ignoring trailing zeros.
func (d Decimal) Equal(other Decimal) bool {
	return d.Cmp(other) == 0
}

// Add returns the exact sum of d and other.
func (d Decimal) Add(other Decimal) Decimal {
	digits := max(msd(&d.value), msd(&other.value)) - min(d.value.Exponent, other.value.Exponent) + 1
	var result apd.Decimal
	_, err := contextFor(digits).Add(&result, &d.value, &other.value)
	return settle(result, err)
}

// Mul returns the exact product of d and other.
func (d Decimal) Mul(other Decimal) Decimal {
	digits := int32(d.value.NumDigits() + other.value.NumDigits())
	var result apd.Decimal
	_, err := contextFor(digits).Mul(&result, &d.value, &other.value)
	return settle(result, err)
}

// DivRound divides d by other and rounds half up to the given exponent,
// so DivRound(x, -1) keeps one fractional digit. The quotient is rounded once,
// whatever the number of digits it needs. other must not be zero.
func (d Decimal) DivRound(other Decimal, exponent int32) Decimal {
	// The quotient is below 10^(msd(d)-msd(other)+1). One guard digit past the
	// target exponent lets truncation followed by half-up rounding match a single
	// half-up rounding of the exact quotient.
	digits := msd(&d.value) - msd(&other.value) + 1 - exponent + 1
	ctx := contextFor(digits)

	var quo, result apd.Decimal
	ctx.Rounding = apd.RoundDown
	if _, err := ctx.Quo(&quo, &d.value, &other.value); err != nil {
		return settle(quo, err)
	}
	ctx.Rounding = apd.RoundHalfUp
	_, err := ctx.Quantize(&result, &quo, exponent)
	return settle(result, err)
}

// IsFinite is false for the NaN left behind by a failed operation, such as a
// division by zero.
func (d Decimal) IsFinite() bool {
	return d.value.Form == apd.Finite
}

// msd is the power of ten just above the most significant digit of x.
func msd(x *apd.Decimal) int32 {
	return int32(x.NumDigits()) + x.Exponent
}

// contextFor returns a context keeping at least digits significant digits.
func contextFor(digits int32) *apd.Context {
	p := uint32(precision)
	if digits > 0 && uint32(digits)+1 > p {
		p = uint32(digits) + 1
	}
	return apd.BaseContext.WithPrecision(p)
}

// settle turns a failed operation into NaN so that it can never pass for a number.
func settle(d apd.Decimal, err error) Decimal {
	if err != nil {
		d.SetFinite(0, 0)
		d.Form = apd.NaN
	}
	return Decimal{value: d}
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.IsFinite() {
		return nil, fmt.Errorf("decimal %s is not a JSON number", d.String())
	}
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid decimal %s: %w", s, err)
		}
		s = unq
	}
	parsed, err := NewDecimal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
