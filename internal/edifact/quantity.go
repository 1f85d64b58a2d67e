package edifact

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// QuantityPlaces is the number of fractional digits in a QTY segment.
const QuantityPlaces = 2

// MaxQuantityDigits is the largest number of integer digits a quantity may
// have. Larger values, such as "1e100000", are out of range.
const MaxQuantityDigits = 15

// maxQuantityLength caps the input text so rounding stays cheap.
const maxQuantityLength = 64

// numericPrefix matches the leading decimal number of a string, the part a
// lenient numeric conversion would keep ("12abc" -> "12").
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseQuantity parses raw as a plain decimal number, ignoring surrounding
// whitespace. ok is false when raw is not entirely numeric or is out of
// range. Values below 0.001 in magnitude come back as zero.
func ParseQuantity(raw string) (d decimal.Decimal, ok bool) {
	return parseBounded(strings.TrimSpace(raw))
}

func parseBounded(s string) (decimal.Decimal, bool) {
	if s == "" || len(s) > maxQuantityLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if d.IsZero() {
		return decimal.Zero, true
	}

	coef := d.Coefficient()
	intDigits := int64(len(coef.Abs(coef).String())) + int64(d.Exponent())
	switch {
	case intDigits > MaxQuantityDigits:
		return decimal.Zero, false
	case intDigits < -QuantityPlaces:
		// Rounds to 0.00; skipping the rescale keeps huge negative
		// exponents cheap.
		return decimal.Zero, true
	}
	return d, true
}

// FormatQuantity renders raw with exactly two fractional digits, '.' as the
// decimal mark and no grouping. Values are rounded half away from zero
// (2.995 -> 3.00, -1.005 -> -1.01). Input that is not a number is reduced
// to its leading numeric prefix, or to 0.00 when there is none. Values with
// more than MaxQuantityDigits integer digits render as 0.00, the same as
// input that is not a number.
func FormatQuantity(raw string) string {
	d, ok := ParseQuantity(raw)
	if !ok {
		d = decimal.Zero
		if m := numericPrefix.FindString(strings.TrimSpace(raw)); m != "" {
			if p, ok := parseBounded(m); ok {
				d = p
			}
		}
	}
	return d.StringFixed(QuantityPlaces)
}
