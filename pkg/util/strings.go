package util

import "fmt"

// FormatMarketCap renders a market capitalization as $X.XXT/B/M.
func FormatMarketCap(v float64) string {
	switch {
	case v <= 0:
		return "N/A"
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	default:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
}
