package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("map.vmf", []byte("versioninfo {}"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// тот же путь с новым содержимым получает новый ID
	id2 := fs.Add("map.vmf", []byte("world {}"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("map.vmf")
	if !exists {
		t.Fatal("Expected file to exist after Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := fs.Get(id1).Text; got != "versioninfo {}" {
		t.Errorf("Expected first file text to be preserved, got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.vmf", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestTextSharesContent(t *testing.T) {
	fs := NewFileSet()
	buf := []byte("solid")
	file := fs.Get(fs.AddVirtual("view.vmf", buf))

	buf[0] = 'S'
	if file.Text != "Solid" {
		t.Fatalf("Text must be a view over Content, got %q", file.Text)
	}
}

func TestCloneDetachesContent(t *testing.T) {
	fs := NewFileSet()
	buf := []byte("solid\n{")
	file := fs.Get(fs.AddVirtual("clone.vmf", buf))
	cp := file.Clone()

	buf[0] = 'S'
	if cp.Text != "solid\n{" {
		t.Fatalf("clone must not share the buffer, got %q", cp.Text)
	}
	if cp.ID != file.ID || cp.Path != file.Path || cp.Hash != file.Hash {
		t.Error("clone must keep ID, Path and Hash")
	}
	if got := cp.Position(7); got != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("clone position = %+v", got)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.vmf", []byte("world\n{\n\t\"id\" \"1\"\n}\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{5, LineCol{Line: 1, Col: 6}}, // сам '\n' принадлежит первой строке
		{6, LineCol{Line: 2, Col: 1}},
		{9, LineCol{Line: 3, Col: 2}},
		{18, LineCol{Line: 4, Col: 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: expected %+v, got %+v", tt.off, tt.want, start)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("lines.vmf", []byte("first\r\nsecond\nthird")))

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := file.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadStripsBOMAndTranscodes(t *testing.T) {
	dir := t.TempDir()

	bomPath := filepath.Join(dir, "bom.vmf")
	if err := os.WriteFile(bomPath, []byte("\xEF\xBB\xBFworld {}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ansiPath := filepath.Join(dir, "ansi.vmf")
	if err := os.WriteFile(ansiPath, []byte("\"comments\" \"caf\xE9\""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(bomPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Text != "world {}" || f.Flags&FileHadBOM == 0 {
		t.Errorf("BOM not stripped: %q flags=%b", f.Text, f.Flags)
	}

	id, err = fs.Load(ansiPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f = fs.Get(id)
	if f.Text != "\"comments\" \"café\"" || f.Flags&FileTranscoded == 0 {
		t.Errorf("expected windows-1252 transcoding, got %q flags=%b", f.Text, f.Flags)
	}

	fs.SetEncoding(EncodingUTF8)
	id, err = fs.Load(ansiPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fs.Get(id).Flags&FileTranscoded != 0 {
		t.Error("EncodingUTF8 must not transcode")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.vmf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
