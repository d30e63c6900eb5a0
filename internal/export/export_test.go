package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/foodsurvey/internal/catalog"
	"github.com/sadopc/foodsurvey/internal/store"
)

func sampleData() []store.Configuration {
	return []store.Configuration{
		{
			ID:          "default",
			Name:        "Default Survey",
			Foods:       catalog.DefaultIDs(),
			CustomFoods: []catalog.FoodItem{},
			CreatedDate: "2026-01-01",
			LastUsed:    "2026-01-05",
			TimesUsed:   4,
			IsDefault:   true,
		},
		{
			ID:          "config-1700000000000",
			Name:        "Halftime",
			Foods:       []string{"wings", "pizza"},
			CustomFoods: []catalog.FoodItem{catalog.Custom("custom-1", "Nachos"), catalog.Custom("custom-2", "Poutine")},
			CreatedDate: "2026-01-02",
			LastUsed:    "2026-01-02",
			TimesUsed:   0,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Name", "Default", "Foods", "Custom Foods", "Food Count", "Created", "Last Used", "Times Used"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[2]
	if row[0] != "config-1700000000000" {
		t.Fatalf("ID = %q", row[0])
	}
	if row[2] != "false" {
		t.Fatalf("Default = %q, want false", row[2])
	}
	if row[3] != "wings,pizza" {
		t.Fatalf("Foods = %q, want wings,pizza", row[3])
	}
	if row[4] != "Nachos,Poutine" {
		t.Fatalf("Custom Foods = %q", row[4])
	}
	if row[5] != "4" {
		t.Fatalf("Food Count = %q, want 4", row[5])
	}
	if records[1][8] != "4" {
		t.Fatalf("Times Used = %q, want 4", records[1][8])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	configs := []store.Configuration{{ID: "c", Name: `Survey "Special", v2`}}
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV(configs, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][1] != `Survey "Special", v2` {
		t.Fatalf("name mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 || len(result.Configurations) != 2 {
		t.Fatalf("count = %d, configurations = %d, want 2", result.Count, len(result.Configurations))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	d := result.Configurations[0]
	if !d.IsDefault || d.FoodCount != 10 || d.TimesUsed != 4 {
		t.Fatalf("unexpected default entry: %+v", d)
	}
	c := result.Configurations[1]
	if strings.Join(c.CustomFoods, "|") != "Nachos|Poutine" {
		t.Fatalf("custom foods = %v", c.CustomFoods)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Configurations != nil {
		t.Fatal("configurations should be null for empty export")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	(&JSONExporter{}).Export(nil, &buf)
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

// ============================================================
// YAML
// ============================================================

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(sampleData(), &buf); err != nil {
		t.Fatal(err)
	}

	var result yamlExport
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	got := result.Configurations[1]
	if got.Name != "Halftime" || len(got.CustomFoods) != 2 || got.CustomFoods[0].Name != "Nachos" {
		t.Fatalf("unexpected configuration: %+v", got)
	}
	if !strings.Contains(buf.String(), "custom_foods:") {
		t.Fatalf("expected snake_case keys:\n%s", buf.String())
	}
}

// ============================================================
// NewExporter
// ============================================================

func TestNewExporter(t *testing.T) {
	for _, f := range []string{"csv", "json", "yaml", "yml"} {
		e, err := NewExporter(f)
		if err != nil {
			t.Fatalf("NewExporter(%q): %v", f, err)
		}
		if f != "yml" && e.Extension() != f {
			t.Fatalf("extension = %q, want %q", e.Extension(), f)
		}
	}
	if _, err := NewExporter("xlsx"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWriteFileAndFilename(t *testing.T) {
	e, _ := NewExporter("yaml")
	name := Filename(e, time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))
	if name != "foodsurvey-configurations-20260304-050607.yaml" {
		t.Fatalf("filename = %q", name)
	}

	path := filepath.Join(t.TempDir(), name)
	if err := WriteFile(e, sampleData(), path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty file, got %v, %v", info, err)
	}
}
