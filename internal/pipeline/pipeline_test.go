package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/halfmesh/internal/config"
	"github.com/Faultbox/halfmesh/pkg/formats"
	"github.com/Faultbox/halfmesh/pkg/math"
	"github.com/Faultbox/halfmesh/pkg/mesh"
)

const tetraOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

// Two triangles sharing no vertex.
const splitOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
v 5 0 0
v 6 0 0
v 5 1 0
f 1 2 3
f 4 5 6
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	p := New(nil, nil)
	if p.cfg == nil || p.log == nil {
		t.Fatal("New should fill in config and logger")
	}
	if p.cfg.Output.Suffix != "_norm" {
		t.Errorf("expected default config, got suffix %q", p.cfg.Output.Suffix)
	}
}

func TestLoadOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Input.Scale = 0.5
	cfg.Input.Offset = [3]float64{1, 2, 3}
	cfg.Input.Encoding = "euc-kr"
	cfg.Processing.Dedup = false
	cfg.Processing.DropCollapsed = true

	opts := New(cfg, nil).LoadOptions()
	if opts.Scale != 0.5 {
		t.Errorf("expected scale 0.5, got %g", opts.Scale)
	}
	if opts.Offset != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected offset %v", opts.Offset)
	}
	if opts.Encoding != "euc-kr" {
		t.Errorf("expected euc-kr, got %q", opts.Encoding)
	}
	if !opts.KeepDuplicates {
		t.Error("dedup disabled should keep duplicates")
	}
	if !opts.DropCollapsed {
		t.Error("drop_collapsed should map to DropCollapsed")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		suffix string
		in     string
		want   string
	}{
		{"next to source", "", "_norm", "/data/a.obj", "/data/a_norm.obj"},
		{"output dir", "/out", "_norm", "/data/a.obj", "/out/a_norm.obj"},
		{"no suffix", "/out", "", "/data/a.obj", "/out/a.obj"},
		{"no extension", "", "_n", "/data/a", "/data/a_n.obj"},
		{"keeps extension case", "", "_n", "/data/A.OBJ", "/data/A_n.OBJ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Output.Dir = tt.dir
			cfg.Output.Suffix = tt.suffix
			got := New(cfg, nil).OutputPath(tt.in)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "tetra.obj", tetraOBJ)

	res := New(config.Default(), nil).Convert(in, "")
	if !res.OK() {
		t.Fatalf("convert failed: %v", res.Err)
	}
	if res.Output != filepath.Join(dir, "tetra_norm.obj") {
		t.Errorf("unexpected output path %s", res.Output)
	}
	if res.Vertices != 4 || res.Faces != 4 {
		t.Errorf("expected 4 vertices and 4 faces, got %d and %d", res.Vertices, res.Faces)
	}
	if res.Boundary != 0 || res.Components != 1 {
		t.Errorf("expected closed connected mesh, got boundary %d components %d", res.Boundary, res.Components)
	}

	// The written mesh is normalized into the unit box around the origin.
	out, err := mesh.Load(res.Output, 1, mesh.LoadOptions{})
	if err != nil {
		t.Fatalf("reloading output: %v", err)
	}
	b := out.Bounds()
	if !b.Min.ApproxEqual(math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, 1e-9) ||
		!b.Max.ApproxEqual(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, 1e-9) {
		t.Errorf("unexpected bounds %v..%v", b.Min, b.Max)
	}
	if len(out.Normals) != 4 {
		t.Errorf("expected one written normal per vertex, got %d", len(out.Normals))
	}
}

func TestConvertStagesDisabled(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "tetra.obj", tetraOBJ)

	cfg := config.Default()
	cfg.Processing.Normalize = false
	cfg.Processing.ComputeNormals = false

	res := New(cfg, nil).Convert(in, filepath.Join(dir, "copy.obj"))
	if !res.OK() {
		t.Fatalf("convert failed: %v", res.Err)
	}

	out, err := mesh.Load(res.Output, 1, mesh.LoadOptions{})
	if err != nil {
		t.Fatalf("reloading output: %v", err)
	}
	b := out.Bounds()
	if !b.Min.ApproxEqual(math.Vec3{}, 1e-9) || !b.Max.ApproxEqual(math.Vec3{X: 1, Y: 1, Z: 1}, 1e-9) {
		t.Errorf("positions should be untouched, got %v..%v", b.Min, b.Max)
	}
	if len(out.Normals) != 0 {
		t.Errorf("expected no normals, got %d", len(out.Normals))
	}
}

func TestConvertOutputExists(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "tetra.obj", tetraOBJ)
	out := writeFile(t, dir, "tetra_norm.obj", "# placeholder\n")

	cfg := config.Default()
	res := New(cfg, nil).Convert(in, "")
	if !errors.Is(res.Err, ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", res.Err)
	}

	cfg.Output.Overwrite = true
	res = New(cfg, nil).Convert(in, "")
	if !res.OK() {
		t.Fatalf("convert with overwrite failed: %v", res.Err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "# placeholder\n" {
		t.Error("output was not replaced")
	}
}

func TestConvertRequireConnected(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "split.obj", splitOBJ)

	cfg := config.Default()
	cfg.Processing.RequireConnected = true

	res := New(cfg, nil).Convert(in, "")
	if !errors.Is(res.Err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", res.Err)
	}
	if _, err := os.Stat(res.Output); !os.IsNotExist(err) {
		t.Error("no output should be written for a rejected mesh")
	}

	cfg.Processing.RequireConnected = false
	if res := New(cfg, nil).Convert(in, ""); !res.OK() {
		t.Fatalf("disconnected mesh should convert when allowed: %v", res.Err)
	} else if res.Components != 2 {
		t.Errorf("expected 2 components, got %d", res.Components)
	}
}

func TestConvertParseError(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "bad.obj", "v 0 0 0\nv 1 0 0\nv 0 one 0\n")

	res := New(config.Default(), nil).Convert(in, "")
	var perr *formats.ParseError
	if !errors.As(res.Err, &perr) {
		t.Fatalf("expected *formats.ParseError, got %v", res.Err)
	}
	if perr.Line != 3 {
		t.Errorf("expected line 3, got %d", perr.Line)
	}
	if perr.Path != in {
		t.Errorf("expected path %s, got %s", in, perr.Path)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.obj", tetraOBJ)
	writeFile(t, dir, "a.obj", tetraOBJ)
	writeFile(t, dir, "a_norm.obj", tetraOBJ)
	writeFile(t, dir, "notes.txt", "not a mesh")

	cfg := config.Default()
	files, err := New(cfg, nil).Collect(dir, "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{filepath.Join(dir, "a.obj"), filepath.Join(dir, "b.obj")}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}

	// With a separate output directory nothing is skipped.
	cfg.Output.Dir = t.TempDir()
	files, err = New(cfg, nil).Collect(dir, "*.obj")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("expected 3 files, got %v", files)
	}

	if _, err := New(cfg, nil).Collect(dir, "["); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	var files []string
	for _, name := range []string{"m0.obj", "m1.obj", "m2.obj", "m3.obj"} {
		files = append(files, writeFile(t, dir, name, tetraOBJ))
	}
	files = append(files, writeFile(t, dir, "m4.obj", "f 1 2 3\n"))

	cfg := config.Default()
	cfg.Output.Dir = outDir
	cfg.Batch.Workers = 3

	core, logs := observer.New(zapcore.InfoLevel)
	results := New(cfg, zap.New(core)).Batch(context.Background(), files)

	if len(results) != len(files) {
		t.Fatalf("expected %d results, got %d", len(files), len(results))
	}
	for i, r := range results {
		if r.Input != files[i] {
			t.Errorf("results[%d] is for %s, want %s", i, r.Input, files[i])
		}
	}
	for i := 0; i < 4; i++ {
		if !results[i].OK() {
			t.Errorf("results[%d] failed: %v", i, results[i].Err)
		}
		if _, err := os.Stat(results[i].Output); err != nil {
			t.Errorf("missing output for %s: %v", files[i], err)
		}
	}
	if !errors.Is(results[4].Err, formats.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange for m4, got %v", results[4].Err)
	}

	err := Errors(results)
	if got := len(multierr.Errors(err)); got != 1 {
		t.Errorf("expected 1 combined error, got %d: %v", got, err)
	}

	entries := logs.FilterMessage("batch complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["failed"] != int64(1) || fields["total"] != int64(5) {
		t.Errorf("unexpected summary fields %v", fields)
	}
	if n := logs.FilterMessage("convert failed").Len(); n != 1 {
		t.Errorf("expected 1 failure log entry, got %d", n)
	}
}

func TestBatchCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.obj", tetraOBJ),
		writeFile(t, dir, "b.obj", tetraOBJ),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := New(config.Default(), nil).Batch(ctx, files)
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d]: expected context.Canceled, got %v", i, r.Err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "a_norm.obj")); !os.IsNotExist(err) {
		t.Error("cancelled batch should not write output")
	}
}

func TestBatchEmpty(t *testing.T) {
	results := New(nil, nil).Batch(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if err := Errors(results); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
