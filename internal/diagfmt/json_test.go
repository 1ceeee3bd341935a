package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"vmfkit/internal/diag"
	"vmfkit/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("world\n{\n\t\"skyname\" \"sky_day\n}")
	fileID := fs.AddVirtual("test.vmf", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 19, End: 20},
		"Unterminated quoted string",
	))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", d.Severity)
	}
	if d.Code != "LEX1001" {
		t.Errorf("Expected code=LEX1001, got %s", d.Code)
	}
	if d.Location.File != "test.vmf" {
		t.Errorf("Expected file=test.vmf, got %s", d.Location.File)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 12 {
		t.Errorf("Expected 3:12, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if d.Notes != nil {
		t.Errorf("Expected no notes, got %v", d.Notes)
	}
}

func TestJSONWithNotes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("world\n{\n")
	fileID := fs.AddVirtual("test.vmf", content)

	d := diag.New(diag.SevError, diag.SynUnclosedBlock, source.Span{File: fileID, Start: 0, End: 5}, "unclosed")
	d = d.WithNote(source.At(fileID, 8), "end of input reached here")
	bag := diag.NewBag(1)
	bag.Add(d)

	for _, include := range []bool{true, false} {
		var buf bytes.Buffer
		if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: include}); err != nil {
			t.Fatalf("JSON() error: %v", err)
		}
		var output DiagnosticsOutput
		if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
			t.Fatalf("Invalid JSON output: %v", err)
		}
		notes := output.Diagnostics[0].Notes
		if !include {
			if len(notes) != 0 {
				t.Errorf("notes must be omitted, got %v", notes)
			}
			continue
		}
		if len(notes) != 1 {
			t.Fatalf("Expected 1 note, got %d", len(notes))
		}
		if notes[0].Location.StartLine != 3 || notes[0].Location.StartCol != 1 {
			t.Errorf("unexpected note position %+v", notes[0].Location)
		}
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.vmf", []byte("\"a\" \"b\""))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevInfo, diag.SynTopLevelPair, source.Span{File: fileID, Start: 4, End: 7}, "Info message"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	d := output.Diagnostics[0]

	// omitempty прячет позиции
	if d.Location.StartLine != 0 {
		t.Errorf("Expected start_line to be omitted (0), got %d", d.Location.StartLine)
	}
	// байтовые позиции есть всегда
	if d.Location.StartByte != 4 || d.Location.EndByte != 7 {
		t.Errorf("Expected bytes 4..7, got %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.vmf", []byte("test content"))

	bag := diag.NewBag(10)
	for i := range uint32(5) {
		bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: i, End: i + 1}, "Error message"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 3}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got %d", output.Count)
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/maps/main.vmf", []byte("test"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 1}, "Error"))

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/maps/main.vmf"},
		{"Relative", PathModeRelative, "maps/main.vmf"},
		{"Basename", PathModeBasename, "main.vmf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := JSON(&buf, bag, fs, JSONOpts{PathMode: tt.pathMode}); err != nil {
				t.Fatalf("JSON() error: %v", err)
			}
			var output DiagnosticsOutput
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("Invalid JSON output: %v", err)
			}
			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
		})
	}
}
