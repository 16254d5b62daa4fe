package exporter

import (
	"fmt"
	"math"
)

var nan = math.NaN()

// formatPrice formats a price-like value with two decimal places.
// Missing values export as empty cells.
func formatPrice(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

// formatRatio formats a return-like value with six decimal places.
func formatRatio(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.6f", f)
}

// formatWhole formats a count-like value with no decimal places.
func formatWhole(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.0f", f)
}
