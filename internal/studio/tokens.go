package studio

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/desertthunder/prima/internal/models"
)

// ParseTokens reads a token count typed by the operator.
//
// Leading space and a sign are skipped, then the longest run of decimal digits is read;
// anything after it (a fractional part, a unit) is ignored. Empty, non-numeric, negative
// or out-of-range input yields 0.
func ParseTokens(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseEntries converts raw form values keyed by platform name into token counts.
// Keys that do not name a known platform are dropped.
func ParseEntries(raw map[string]string) map[models.PlatformName]int {
	out := make(map[models.PlatformName]int, len(raw))
	for key, value := range raw {
		name, ok := models.ParsePlatformName(key)
		if !ok {
			continue
		}
		out[name] = ParseTokens(value)
	}
	return out
}
