// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/mb/internal/money"

	"github.com/charmbracelet/lipgloss"
)

// FormatAmount renders an amount with its currency symbol, red when
// negative and green otherwise.
func FormatAmount(a money.Amount, symbol string) string {
	style := positiveStyle
	if a.IsNegative() {
		style = negativeStyle
	}
	return style.Render(a.Format(symbol))
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatMonths formats a whole month count.
func FormatMonths(n int64) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d month", n)
	}
	return fmt.Sprintf("%d months", n)
}

// Pad right-pads s to width w, counting only visible characters.
func Pad(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// PadLeft left-pads s to width w, counting only visible characters.
func PadLeft(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}
