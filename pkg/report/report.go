package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/repometa/pkg/model"
)

// Reserved column names. Metadata keys with these names never overwrite them.
const (
	ColRepo       = "repo"
	ColSourceFile = "source_file"
	ColArchived   = "archived"
)

// Present is the matrix cell value for a field that has a value.
const Present = "✔"

// Row is one flattened record, keyed by column name.
type Row map[string]any

// Report is the aggregate view of a scan. It is derived from records and
// never persisted except through its writers.
type Report struct {
	Rows              []Row
	FrontMatterCounts map[string]int
	SidebarCounts     map[string]int
	Fields            []string // sorted union of all row keys
	MatrixFields      []string // Fields without the reserved columns
	Matrix            []Row

	RunID       string    // optional, shown in the summary header
	GeneratedAt time.Time // optional, shown in the summary header
}

// Aggregate builds a report from records, preserving their order. Nil
// records are skipped.
func Aggregate(records []*model.Record) *Report {
	r := &Report{
		Rows:              make([]Row, 0, len(records)),
		FrontMatterCounts: map[string]int{},
		SidebarCounts:     map[string]int{},
	}

	fields := map[string]bool{}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		row := newRow(rec)
		for k, v := range rec.FrontMatter {
			r.FrontMatterCounts[k]++
			if !isReserved(k) {
				row[k] = v
			}
		}
		for k, v := range rec.Sidebar {
			r.SidebarCounts[k]++
			if !isReserved(k) {
				row[k] = Flatten(k, v)
			}
		}
		for k := range row {
			fields[k] = true
		}
		r.Rows = append(r.Rows, row)
	}

	r.Fields = sortedKeys(fields)
	for _, f := range r.Fields {
		if !isReserved(f) {
			r.MatrixFields = append(r.MatrixFields, f)
		}
	}

	r.Matrix = make([]Row, len(r.Rows))
	for i, row := range r.Rows {
		m := Row{ColRepo: row[ColRepo], ColArchived: row[ColArchived]}
		for _, f := range r.MatrixFields {
			if IsPresent(row[f]) {
				m[f] = Present
			} else {
				m[f] = ""
			}
		}
		r.Matrix[i] = m
	}
	return r
}

func newRow(rec *model.Record) Row {
	var source any
	if len(rec.SourceFiles) > 0 {
		source = strings.Join(rec.SourceFiles, ", ")
	}
	return Row{
		ColRepo:       rec.Repo,
		ColSourceFile: source,
		ColArchived:   rec.Archived,
	}
}

func isReserved(k string) bool {
	return k == ColRepo || k == ColSourceFile || k == ColArchived
}

// Flatten converts a sidebar value into a tabular cell. Lists of mappings
// become the comma-joined leader names for leaders_list and a JSON blob for
// any other key; other lists become a comma-joined string. Scalars are
// returned unchanged.
func Flatten(key string, v any) any {
	items, ok := asList(v)
	if !ok {
		return v
	}
	if allMaps(items) {
		if key == "leaders_list" {
			names := make([]string, len(items))
			for i, it := range items {
				if name, ok := it.(map[string]any)["name"]; ok && name != nil {
					names[i] = fmt.Sprint(name)
				}
			}
			return strings.Join(names, ", ")
		}
		return encodeJSON(items)
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprint(it)
	}
	return strings.Join(parts, ", ")
}

// asList accepts the list shapes produced by extraction and by decoding a
// cached record.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

func allMaps(items []any) bool {
	for _, it := range items {
		if _, ok := it.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// IsPresent reports whether a cell counts as filled in the matrix. Nil,
// empty strings, empty lists, false and numeric zero are blank.
func IsPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	}
	if items, ok := asList(v); ok {
		return len(items) > 0
	}
	return true
}

func encodeJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
