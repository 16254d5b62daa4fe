package analytics

import (
	"fmt"
	"math"
	"strconv"
)

// Placeholder rendered wherever an input value is missing.
const notAvailable = "n/a"

// Percent formats a fractional value as a percentage with two decimals.
func Percent(v float64) string {
	if math.IsNaN(v) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// PercentPrec formats a fractional value as a percentage with the given
// number of decimals.
func PercentPrec(v float64, prec int) string {
	if math.IsNaN(v) {
		return notAvailable
	}
	return fmt.Sprintf("%.*f%%", prec, v*100)
}

// Currency formats a dollar amount with two decimals.
func Currency(v float64) string {
	if math.IsNaN(v) {
		return notAvailable
	}
	return fmt.Sprintf("$%.2f", v)
}

// Ratio formats a unitless ratio with two decimals. Infinities render
// literally, matching the reference output.
func Ratio(v float64) string {
	if math.IsNaN(v) {
		return notAvailable
	}
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.2f", v)
}

// Decimal formats a value with the given number of decimals.
func Decimal(v float64, prec int) string {
	if math.IsNaN(v) {
		return notAvailable
	}
	return fmt.Sprintf("%.*f", prec, v)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return groupThousands(strconv.FormatInt(int64(n), 10))
}

// WholeNumber rounds a float to the nearest integer and formats it with
// thousands separators.
func WholeNumber(v float64) string {
	if math.IsNaN(v) {
		return notAvailable
	}
	return groupThousands(strconv.FormatFloat(math.Round(v), 'f', 0, 64))
}

func groupThousands(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
