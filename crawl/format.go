package crawl

import (
	"fmt"
	"strings"
)

// ShortURL renders a post URL for progress lines. The scheme is dropped and
// URLs longer than width keep their tail, where the slug lives.
func ShortURL(raw string, width int) string {
	if width <= 0 {
		return ""
	}
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return "..." + string(r[len(r)-width+3:])
}

// FormatBytes renders a byte count using binary units.
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	for _, unit := range []string{"KB", "MB"} {
		if v < 1024 || unit == "MB" {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024
	}
	return ""
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// FormatWords renders a word count, rounding to thousands past 999.
func FormatWords(words int) string {
	if words < 1000 {
		return fmt.Sprintf("%d words", words)
	}
	return fmt.Sprintf("~%dk words", (words+500)/1000)
}
