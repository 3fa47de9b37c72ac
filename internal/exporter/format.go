package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat formats a money value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatNumber keeps every significant digit, for durations and extra columns
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue renders an extra column cell; missing values become empty
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return formatNumber(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
