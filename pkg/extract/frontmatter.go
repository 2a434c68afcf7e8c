package extract

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// frontMatterBlock matches the first block opened by a line of three dashes
// and closed by the next such line.
var frontMatterBlock = regexp.MustCompile(`(?ms)^---[ \t]*\r?\n(.*?)^---[ \t]*\r?$`)

// FrontMatter parses the YAML front matter of text. Missing delimiters, a
// YAML error, or a document that is not a mapping all yield an empty map.
func FrontMatter(text string) map[string]any {
	m := frontMatterBlock.FindStringSubmatch(text)
	if m == nil {
		return map[string]any{}
	}
	var doc any
	if err := yaml.Unmarshal([]byte(m[1]), &doc); err != nil {
		return map[string]any{}
	}
	out, ok := normalize(doc).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return out
}

// normalize converts YAML values into the shapes a JSON round trip
// produces, so a fresh record and its cached copy are identical. Mappings
// with non-string keys become map[string]any, timestamps become strings and
// non-finite floats keep their YAML spelling.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	case time.Time:
		return formatTime(t)
	case float64:
		switch {
		case math.IsNaN(t):
			return ".nan"
		case math.IsInf(t, 1):
			return ".inf"
		case math.IsInf(t, -1):
			return "-.inf"
		}
		return t
	default:
		return v
	}
}

// formatTime renders a YAML timestamp. Plain dates stay dates.
func formatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Equal(t.Truncate(24*time.Hour)) {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339Nano)
}
