package suggest

import (
	"strings"
	"unicode"
)

// isMarker reports whether r may lead a list item: bullets, dashes, ASCII
// digits, periods and whitespace.
func isMarker(r rune) bool {
	return isBullet(r) || r == '.' || (r >= '0' && r <= '9') || unicode.IsSpace(r)
}

// isBullet reports whether r is a dash or bullet glyph.
func isBullet(r rune) bool {
	switch r {
	case '-', '*', '•', '–', '·', '●', '▪', '◦':
		return true
	}
	return false
}

// cleanLine strips leading list markers and trailing whitespace.
func cleanLine(line string) string {
	return strings.TrimRightFunc(strings.TrimLeftFunc(line, isMarker), unicode.IsSpace)
}

// ParseSuggestions turns raw model output into at most count distinct,
// non-empty items in the order they were generated. Duplicates are exact,
// case-sensitive matches after cleaning; the first occurrence wins.
//
// Digits are stripped as markers, so an item that itself starts with a
// number ("3D modeling") loses it.
func ParseSuggestions(raw string, count int) []string {
	out := []string{}
	if count <= 0 {
		return out
	}
	seen := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		item := cleanLine(line)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if len(out) == count {
			break
		}
	}
	return out
}

// ExtractBullets returns the bulleted or numbered lines of a document,
// cleaned and deduplicated in order. Prose lines are ignored.
func ExtractBullets(text string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch first := []rune(line)[0]; {
		case isBullet(first), first >= '0' && first <= '9':
		default:
			continue
		}
		item := strings.TrimSpace(cleanLine(line))
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
