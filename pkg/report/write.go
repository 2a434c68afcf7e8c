package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/matzehuels/repometa/pkg/errors"
)

// Output file names written by [Report.WriteAll].
const (
	CSVFile        = "metadata.csv"
	JSONFile       = "metadata.json"
	SummaryFile    = "metadata_summary.md"
	MatrixCSVFile  = "metadata_matrix.csv"
	MatrixJSONFile = "metadata_matrix.json"
)

// WriteCSV writes the flattened rows with one column per field.
func (r *Report) WriteCSV(w io.Writer) error {
	return writeCSV(w, r.Fields, r.Rows)
}

// WriteJSON writes the flattened rows as an indented JSON array.
func (r *Report) WriteJSON(w io.Writer) error {
	return writeJSON(w, r.Rows)
}

// WriteMatrixCSV writes the presence matrix with repo and archived first.
func (r *Report) WriteMatrixCSV(w io.Writer) error {
	header := append([]string{ColRepo, ColArchived}, r.MatrixFields...)
	return writeCSV(w, header, r.Matrix)
}

// WriteMatrixJSON writes the presence matrix as an indented JSON array.
func (r *Report) WriteMatrixJSON(w io.Writer) error {
	return writeJSON(w, r.Matrix)
}

// WriteSummary writes Markdown tables of field counts by origin.
func (r *Report) WriteSummary(w io.Writer) error {
	bw := &errWriter{w: w}
	bw.printf("# Metadata Summary\n\n")
	if r.RunID != "" || !r.GeneratedAt.IsZero() {
		bw.printf("Repositories: %d", len(r.Rows))
		if !r.GeneratedAt.IsZero() {
			bw.printf(" · Generated: %s", r.GeneratedAt.UTC().Format(time.RFC3339))
		}
		if r.RunID != "" {
			bw.printf(" · Run: `%s`", r.RunID)
		}
		bw.printf("\n\n")
	}
	bw.printf("## Front Matter Fields (index.md)\n\n")
	writeCountTable(bw, r.FrontMatterCounts)
	bw.printf("\n## Sidebar Fields (info.md, leaders.md)\n\n")
	writeCountTable(bw, r.SidebarCounts)
	return bw.err
}

func writeCountTable(bw *errWriter, counts map[string]int) {
	bw.printf("| Field | Count |\n|---|---|\n")
	for _, k := range sortedKeys(counts) {
		bw.printf("| %s | %d |\n", k, counts[k])
	}
}

// WriteAll writes every artifact into dir, creating it if needed, and
// returns the paths written. Failing to create dir is an
// [errors.ErrCodeOutputDir] error.
func (r *Report) WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputDir, err, "create output directory %s", dir)
	}

	type artifact struct {
		name  string
		write func(io.Writer) error
	}
	var artifacts []artifact
	if len(r.Rows) > 0 {
		artifacts = append(artifacts, artifact{CSVFile, r.WriteCSV})
	}
	artifacts = append(artifacts,
		artifact{JSONFile, r.WriteJSON},
		artifact{SummaryFile, r.WriteSummary},
	)
	if len(r.Rows) > 0 {
		artifacts = append(artifacts,
			artifact{MatrixCSVFile, r.WriteMatrixCSV},
			artifact{MatrixJSONFile, r.WriteMatrixJSON},
		)
	}

	var written []string
	for _, a := range artifacts {
		path := filepath.Join(dir, a.name)
		if err := writeFile(path, a.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeCSV(w io.Writer, header []string, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = Cell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Cell formats a value for a CSV cell: strings as-is, nil as empty, bools
// and numbers in their usual text form, anything else as JSON.
func Cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return encodeJSON(v)
	}
}

func writeJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rows); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode rows")
	}
	return nil
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
