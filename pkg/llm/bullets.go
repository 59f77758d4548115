package llm

import (
	"strings"
)

// bulletMarkers are stripped from both ends of every bullet line.
const bulletMarkers = "-•*–— \t"

// ParseBullets turns a raw bullets completion into clean bullet strings. Each line is
// trimmed of whitespace, list markers and ordinal prefixes like "1." or "2)"; lines left
// empty are dropped. Order is preserved.
func ParseBullets(completion string) (bullets []string) {
	bullets = make([]string, 0)

	for _, line := range strings.Split(completion, "\n") {
		item := strings.TrimSpace(line)
		item = strings.Trim(item, bulletMarkers)
		item = stripOrdinal(item)
		item = strings.TrimSpace(item)

		if item == "" {
			continue
		}
		bullets = append(bullets, item)
	}

	return bullets
}

// FormatBullets renders bullets as "- item" lines.
func FormatBullets(bullets []string) (text string) {
	lines := make([]string, len(bullets))
	for i, bullet := range bullets {
		lines[i] = "- " + bullet
	}
	text = strings.Join(lines, "\n")
	return text
}

// stripOrdinal removes a leading "12." or "3)" list number.
func stripOrdinal(item string) (stripped string) {
	stripped = item

	digits := 0
	for _, r := range item {
		if r < '0' || r > '9' {
			break
		}
		digits++
	}

	if digits == 0 || digits > 3 || digits >= len(item) {
		return stripped
	}

	switch item[digits] {
	case '.', ')':
		// Only when followed by a space or the end, so "3.5x faster" is kept.
		if digits+1 == len(item) || item[digits+1] == ' ' {
			stripped = strings.Trim(item[digits+1:], bulletMarkers)
		}
	}

	return stripped
}
