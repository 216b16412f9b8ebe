package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatBytes renders a byte count with a one-decimal unit suffix.
func FormatBytes(b int64) string {
	v := float64(b)
	switch {
	case v >= 1<<40:
		return fmt.Sprintf("%.1f TB", v/(1<<40))
	case v >= 1<<30:
		return fmt.Sprintf("%.1f GB", v/(1<<30))
	case v >= 1<<20:
		return fmt.Sprintf("%.1f MB", v/(1<<20))
	case v >= 1<<10:
		return fmt.Sprintf("%.1f KB", v/(1<<10))
	default:
		return strconv.FormatInt(b, 10) + " B"
	}
}

// FormatInt renders an integer with thousands separators.
func FormatInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Percent returns part of total as a rounded whole percentage; a zero
// total yields 0.
func Percent(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
