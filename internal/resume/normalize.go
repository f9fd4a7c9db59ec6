package resume

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// LocationFallback is shown when no usable location is stored.
const LocationFallback = "Location not specified"

var stripMarkup = bluemonday.StrictPolicy()

// JoinList renders a list field as editable text.
func JoinList(items []string, sep string) string {
	return strings.Join(items, sep)
}

// SplitList is the inverse of JoinList. Entries are trimmed and blank ones
// dropped. An entry that itself contains sep cannot round-trip.
func SplitList(text, sep string) []string {
	out := []string{}
	if sep == "" {
		if s := strings.TrimSpace(text); s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, part := range strings.Split(text, sep) {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FormatLocation picks a display string out of a stored location value.
func FormatLocation(v any) string {
	switch loc := v.(type) {
	case Location:
		if loc.City != "" {
			return loc.City
		}
	case *Location:
		if loc != nil && loc.City != "" {
			return loc.City
		}
	case map[string]string:
		m := make(map[string]any, len(loc))
		for k, s := range loc {
			m[k] = s
		}
		return FormatLocation(m)
	case map[string]any:
		if city, ok := loc["city"].(string); ok && city != "" {
			return city
		}
		if hasNumericKeys(loc) {
			return joinNumericKeys(loc)
		}
	}
	return LocationFallback
}

// Lines turns a free-text or list value into display lines: arrays lose
// blank entries, strings are split on newlines.
func Lines(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		raw = strings.Split(t, "\n")
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		raw = strings.Split(fmt.Sprint(t), "\n")
	}

	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.ContainsRune(line, '<') {
			// the policy escapes entities; templates escape again on output
			line = html.UnescapeString(stripMarkup.Sanitize(line))
		}
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func numericKey(k string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(k), 64)
	return f, err == nil
}

func hasNumericKeys(m map[string]any) bool {
	for k := range m {
		if _, ok := numericKey(k); ok {
			return true
		}
	}
	return false
}

// joinNumericKeys rebuilds a string that was stored one character per
// numeric key.
func joinNumericKeys(m map[string]any) string {
	type entry struct {
		n float64
		v any
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		if n, ok := numericKey(k); ok {
			entries = append(entries, entry{n: n, v: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n < entries[j].n })

	var b strings.Builder
	for _, e := range entries {
		if e.v == nil {
			continue
		}
		fmt.Fprint(&b, e.v)
	}
	return b.String()
}
