package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vmfkit/internal/diag"
	"vmfkit/internal/observ"
	"vmfkit/internal/pipeline"
	"vmfkit/internal/token"
	"vmfkit/internal/trace"
	"vmfkit/vmf"
)

func side(id int, material string) string {
	return fmt.Sprintf(`side
{
	"id" "%d"
	"plane" "(0 0 0) (0 64 0) (64 0 0)"
	"material" "%s"
	"uaxis" "[1 0 0 0] 0.25"
	"vaxis" "[0 -1 0 0] 0.25"
}
`, id, material)
}

var sampleMap = `versioninfo
{
	"editorversion" "400"
	"editorbuild" "6157"
	"mapversion" "1"
	"formatversion" "100"
	"prefab" "0"
}
visgroups
{
	visgroup
	{
		"name" "outer"
		"visgroupid" "1"
		visgroup
		{
			"name" "inner"
			"visgroupid" "2"
		}
	}
}
world
{
	"id" "1"
	"classname" "worldspawn"
	solid
	{
		"id" "2"
		` + side(1, "DEV/X") + side(2, "dev/x") + `
	}
	group
	{
		"id" "5"
	}
}
entity
{
	"id" "3"
	"classname" "func_detail"
	solid
	{
		"id" "4"
		` + side(3, "TOOLS/TOOLSNODRAW") + `
	}
}
entity
{
	"id" "6"
	"classname" "logic_relay"
	connections
	{
		"OnTrigger" "door,Open,,0,-1"
	}
}
cameras
{
	"activecamera" "-1"
}
custom_block
{
}
`

const brokenMap = "world\n{\n\"id\" \"1\"\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.vmf", "world { \"id\" \"1\" }")
	res, err := Tokenize(context.Background(), path, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []token.Kind{token.Ident, token.LBrace, token.String, token.String, token.RBrace, token.EOF}
	if len(res.Tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(res.Tokens), len(want))
	}
	for i, k := range want {
		if res.Tokens[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, res.Tokens[i].Kind, k)
		}
	}
	if res.Bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Bag.Items())
	}
}

func TestTokenizeReportsUnterminatedString(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.vmf", "world { \"id")
	res, err := Tokenize(context.Background(), path, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected a lexical error")
	}
	if got := res.Bag.Items()[0].Code; got != diag.LexUnterminatedString {
		t.Errorf("code = %v", got)
	}
	if last := res.Tokens[len(res.Tokens)-1]; last.Kind != token.EOF {
		t.Errorf("last token = %v, want EOF", last.Kind)
	}
}

func TestParse(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.vmf", sampleMap)
	timer := observ.NewTimer()
	res, err := Parse(context.Background(), path, Options{MaxDiagnostics: 10, Jobs: 4, Timer: timer})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("unexpected parse error: %v", res.Err)
	}
	if len(res.Values) != 7 {
		t.Fatalf("got %d values, want 7", len(res.Values))
	}
	kinds := []vmf.ValueKind{vmf.KindVersionInfo, vmf.KindVisgroups, vmf.KindWorld, vmf.KindEntity, vmf.KindEntity, vmf.KindCameras, vmf.KindUnknown}
	for i, k := range kinds {
		if res.Values[i].Kind() != k {
			t.Errorf("value %d: kind %v, want %v", i, res.Values[i].Kind(), k)
		}
	}

	report := timer.Report()
	var names []string
	for _, p := range report.Phases {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "load,tree,extract" {
		t.Errorf("phases = %s", got)
	}
}

func TestParseFailureGoesToBag(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.vmf", brokenMap)
	res, err := Parse(context.Background(), path, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !errors.Is(res.Err, vmf.ErrUnterminatedBlock) {
		t.Fatalf("Err = %v, want unterminated block", res.Err)
	}
	// построитель уже сообщил об ошибке с заметкой; повтор из report отброшен
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnclosedBlock {
		t.Fatalf("diagnostics = %+v", items)
	}
	if len(items[0].Notes) != 1 {
		t.Fatalf("builder note lost: %+v", items[0])
	}
}

func TestParseKeepsLexerWarnings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "quote.vmf", "foo\n{\n\tk\"v\"\n}\n")
	res, err := Parse(context.Background(), path, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexStrayQuote || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %+v", items)
	}
}

func TestParseFilesReportsEachFailureOnce(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.vmf", "world\n{\n\"id\" \"1\n"),
		writeFile(t, dir, "b.vmf", brokenMap),
	}
	_, results, err := ParseFiles(context.Background(), files, dir, Options{MaxDiagnostics: 10, Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []diag.Code{diag.LexUnterminatedString, diag.SynUnclosedBlock}
	for i, r := range results {
		items := r.Bag.Items()
		if len(items) != 1 || items[0].Code != want[i] {
			t.Errorf("%s: diagnostics = %+v", r.Name, items)
		}
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(context.Background(), filepath.Join(t.TempDir(), "none.vmf"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not exist", err)
	}
}

func TestParseEmitsTraceSpans(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.vmf", sampleMap)
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelDebug, Format: trace.FormatText, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := trace.WithTracer(context.Background(), tr)
	if _, err := Parse(ctx, path, Options{MaxDiagnostics: 10}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, name := range []string{"parse", "load", "tree", "extract"} {
		if !strings.Contains(out, "→ "+name) {
			t.Errorf("trace has no begin event for %s:\n%s", name, out)
		}
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.vmf", brokenMap)
	writeFile(t, dir, "a.vmf", sampleMap)
	writeFile(t, dir, "sub/c.VMF", "cameras\n{\n}\n")
	writeFile(t, dir, "notes.txt", "not a map")

	rec := &pipeline.Recorder{}
	_, results, err := ParseDir(context.Background(), dir, Options{MaxDiagnostics: 10, Jobs: 2, Progress: rec})
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	var names []string
	for _, r := range results {
		names = append(names, r.Name)
	}
	if got := strings.Join(names, ","); got != "a.vmf,b.vmf,sub/c.VMF" {
		t.Fatalf("files = %s", got)
	}
	if results[0].Err != nil || len(results[0].Values) != 7 {
		t.Errorf("a.vmf: err=%v values=%d", results[0].Err, len(results[0].Values))
	}
	if results[1].Err == nil || !results[1].Bag.HasErrors() {
		t.Error("b.vmf must fail with a diagnostic")
	}
	if results[2].Err != nil || len(results[2].Values) != 1 {
		t.Errorf("c.VMF: err=%v values=%d", results[2].Err, len(results[2].Values))
	}

	final := map[string]pipeline.Status{}
	for _, ev := range rec.Events() {
		if ev.Terminal() {
			if prev, ok := final[ev.File]; ok {
				t.Errorf("%s: second terminal event %s after %s", ev.File, ev.Status, prev)
			}
			final[ev.File] = ev.Status
		}
	}
	want := map[string]pipeline.Status{
		"a.vmf":     pipeline.StatusDone,
		"b.vmf":     pipeline.StatusError,
		"sub/c.VMF": pipeline.StatusDone,
	}
	for f, st := range want {
		if final[f] != st {
			t.Errorf("%s: final status %q, want %q", f, final[f], st)
		}
	}
}

func TestParseFilesLoadError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.vmf", "cameras\n{\n}\n")
	missing := filepath.Join(dir, "missing.vmf")

	_, results, err := ParseFiles(context.Background(), []string{missing, good}, dir, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if results[0].File != nil || results[0].Err == nil {
		t.Fatal("missing file must have no File and an error")
	}
	if got := results[0].Bag.Items()[0].Code; got != diag.IOLoadFileError {
		t.Errorf("code = %v", got)
	}
	if results[1].Err != nil {
		t.Errorf("good file: %v", results[1].Err)
	}
}

func TestParseFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.vmf", sampleMap)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ParseFiles(ctx, []string{path}, dir, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	values, err := vmf.Parse([]byte(sampleMap))
	if err != nil {
		t.Fatal(err)
	}
	got := Summarize(values)
	want := Stats{
		Blocks:        7,
		Unknown:       1,
		Entities:      2,
		BrushEntities: 1,
		Solids:        2,
		Sides:         3,
		Materials:     2, // DEV/X и dev/x считаются одним материалом
		Connections:   1,
		Groups:        1,
		Visgroups:     2,
	}
	if got != want {
		t.Errorf("Summarize =\n%+v\nwant\n%+v", got, want)
	}
}

func TestCollectStatsUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.vmf", sampleMap)
	disk, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	_, first, err := CollectStats(context.Background(), []string{path}, dir, Options{MaxDiagnostics: 10}, NewStatsCache(1, disk))
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached {
		t.Fatal("first run must not hit the cache")
	}

	// новый StatsCache: попадание возможно только через диск
	rec := &pipeline.Recorder{}
	_, second, err := CollectStats(context.Background(), []string{path}, dir, Options{MaxDiagnostics: 10, Progress: rec}, NewStatsCache(1, disk))
	if err != nil {
		t.Fatal(err)
	}
	if !second[0].Cached {
		t.Fatal("second run must hit the disk cache")
	}
	if second[0].Stats != first[0].Stats {
		t.Errorf("cached stats differ: %+v vs %+v", second[0].Stats, first[0].Stats)
	}
	events := rec.Events()
	if last := events[len(events)-1]; last.Status != pipeline.StatusCached {
		t.Errorf("last event = %+v, want cached", last)
	}

	// другой MaxDepth — другой ключ
	_, third, err := CollectStats(context.Background(), []string{path}, dir, Options{MaxDiagnostics: 10, MaxDepth: 64}, NewStatsCache(1, disk))
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached {
		t.Error("a different max depth must miss the cache")
	}
}

func TestCollectStatsDoesNotCacheFailures(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.vmf", brokenMap)
	cache := NewStatsCache(1, nil)

	for run := 0; run < 2; run++ {
		_, results, err := CollectStats(context.Background(), []string{path}, dir, Options{MaxDiagnostics: 10}, cache)
		if err != nil {
			t.Fatal(err)
		}
		if results[0].Cached || results[0].Err == nil {
			t.Fatalf("run %d: cached=%v err=%v", run, results[0].Cached, results[0].Err)
		}
	}
}

func TestStatsCacheInvalidatesChangedContent(t *testing.T) {
	cache := NewStatsCache(1, nil)
	k1 := statsKey([32]byte{1}, Options{})
	k2 := statsKey([32]byte{2}, Options{})
	if err := cache.Put("a.vmf", k1, Stats{Solids: 3}); err != nil {
		t.Fatal(err)
	}
	if st, ok, _ := cache.Get("a.vmf", k1); !ok || st.Solids != 3 {
		t.Errorf("Get(k1) = %+v, %v", st, ok)
	}
	if _, ok, _ := cache.Get("a.vmf", k2); ok {
		t.Error("changed content must miss")
	}

	var nilCache *StatsCache
	if _, ok, err := nilCache.Get("a.vmf", k1); ok || err != nil {
		t.Error("nil cache must miss without error")
	}
}

func TestStatsKey(t *testing.T) {
	content := [32]byte{7}
	if statsKey(content, Options{}) != statsKey(content, Options{MaxDepth: 256}) {
		t.Error("zero MaxDepth must mean the default depth")
	}
	if statsKey(content, Options{}) == statsKey(content, Options{MaxDepth: 8}) {
		t.Error("MaxDepth must change the key")
	}
	if statsKey(content, Options{}) != statsKey(content, Options{Copy: true, Jobs: 3}) {
		t.Error("Copy and Jobs must not change the key")
	}
}

func TestDiskCacheRoundTripAndDrop(t *testing.T) {
	c, err := OpenDiskCache(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}
	key := Digest{9}
	if err := c.Put(key, &DiskPayload{Path: "m.vmf", Stats: Stats{Sides: 12}}); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	ok, err := c.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if out.Path != "m.vmf" || out.Stats.Sides != 12 || out.Schema != diskCacheSchemaVersion {
		t.Errorf("payload = %+v", out)
	}

	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, err := c.Get(key, &out); ok || err != nil {
		t.Errorf("after DropAll: %v, %v", ok, err)
	}
	if err := c.Put(key, &DiskPayload{}); err != nil {
		t.Errorf("Put after DropAll: %v", err)
	}
}

func TestAppendTimingsIgnoresBagLimit(t *testing.T) {
	bag := diag.NewBag(0)
	timer := observ.NewTimer()
	timer.Add("tree", 0, "")
	AppendTimings(bag, "parse", "a.vmf", timer)
	if bag.Len() != 1 {
		t.Fatalf("bag has %d items, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.ObsTimings || d.Severity != diag.SevInfo {
		t.Errorf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"kind":"parse"`) {
		t.Errorf("notes = %+v", d.Notes)
	}
}
