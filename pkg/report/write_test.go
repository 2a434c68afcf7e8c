package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/repometa/pkg/errors"
	"github.com/matzehuels/repometa/pkg/extract"
	"github.com/matzehuels/repometa/pkg/model"
)

func sampleReport() *Report {
	return Aggregate([]*model.Record{
		record("a", []string{"index.md"},
			map[string]any{"title": "A", "tags": []any{"x", "y"}},
			map[string]any{"license": "MIT", "leaders_list": []map[string]any{{"name": "Jane"}}}, false),
		record("b", nil, nil, map[string]any{"license": ""}, true),
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"archived", "leaders_list", "license", "repo", "source_file", "tags", "title"},
		{"false", "Jane", "MIT", "OWASP/a", "index.md", `["x","y"]`, "A"},
		{"true", "", "", "OWASP/b", "", "", ""},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestWriteMatrixCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteMatrixCSV(&buf); err != nil {
		t.Fatalf("WriteMatrixCSV error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"repo", "archived", "leaders_list", "license", "tags", "title"},
		{"OWASP/a", "false", Present, Present, Present, Present},
		{"OWASP/b", "true", "", "", "", ""},
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[1]["source_file"] != nil {
		t.Errorf("source_file should be null, got %v", rows[1]["source_file"])
	}
	if rows[0]["leaders_list"] != "Jane" {
		t.Errorf("leaders_list = %v", rows[0]["leaders_list"])
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	rep := &Report{Rows: []Row{{ColRepo: "OWASP/x", "bad": make(chan int)}}}
	err := rep.WriteJSON(&bytes.Buffer{})
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("WriteJSON error = %v, want %s", err, errors.ErrCodeInternal)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Aggregate(nil).WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON = %q, want []", buf.String())
	}
}

func TestWriteSummary(t *testing.T) {
	r := sampleReport()
	r.RunID = "run-1"
	r.GeneratedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := r.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	want := "# Metadata Summary\n\n" +
		"Repositories: 2 · Generated: 2024-05-01T12:00:00Z · Run: `run-1`\n\n" +
		"## Front Matter Fields (index.md)\n\n" +
		"| Field | Count |\n|---|---|\n" +
		"| tags | 1 |\n| title | 1 |\n" +
		"\n## Sidebar Fields (info.md, leaders.md)\n\n" +
		"| Field | Count |\n|---|---|\n" +
		"| leaders_list | 1 |\n| license | 2 |\n"
	if buf.String() != want {
		t.Errorf("summary =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "data")
	written, err := sampleReport().WriteAll(dir)
	if err != nil {
		t.Fatalf("WriteAll error: %v", err)
	}
	if len(written) != 5 {
		t.Errorf("wrote %d files, want 5: %v", len(written), written)
	}
	for _, name := range []string{CSVFile, JSONFile, SummaryFile, MatrixCSVFile, MatrixJSONFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestWriteAllExoticFrontMatter(t *testing.T) {
	fm := extract.FrontMatter("---\ntitle: ok\nscore: .inf\nratio: .nan\ndate: !!timestamp 2020-01-02\n---\n")
	rep := Aggregate([]*model.Record{
		record("good", []string{"index.md"}, map[string]any{"title": "fine"}, nil, false),
		record("odd", []string{"index.md"}, fm, nil, false),
	})

	dir := t.TempDir()
	written, err := rep.WriteAll(dir)
	if err != nil {
		t.Fatalf("WriteAll error: %v", err)
	}
	if len(written) != 5 {
		t.Errorf("wrote %d files, want 5: %v", len(written), written)
	}

	data, err := os.ReadFile(filepath.Join(dir, JSONFile))
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("decode %s: %v", JSONFile, err)
	}
	if len(rows) != 2 || rows[1]["score"] != ".inf" || rows[1]["date"] != "2020-01-02" {
		t.Errorf("rows = %v", rows)
	}
}

func TestWriteAllNoRecords(t *testing.T) {
	dir := t.TempDir()
	written, err := Aggregate(nil).WriteAll(dir)
	if err != nil {
		t.Fatalf("WriteAll error: %v", err)
	}
	if len(written) != 2 {
		t.Errorf("wrote %v, want only JSON and summary", written)
	}
	for _, name := range []string{CSVFile, MatrixCSVFile, MatrixJSONFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should not be written without records", name)
		}
	}
}

func TestWriteAllOutputDirError(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := sampleReport().WriteAll(filepath.Join(blocker, "data"))
	if !errors.Is(err, errors.ErrCodeOutputDir) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeOutputDir)
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{true, "true"},
		{42, "42"},
		{int64(7), "7"},
		{1.5, "1.5"},
		{[]any{"a", 1}, `["a",1]`},
		{map[string]any{"k": "<v>"}, `{"k":"<v>"}`},
	}
	for _, tt := range tests {
		if got := Cell(tt.in); got != tt.want {
			t.Errorf("Cell(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
