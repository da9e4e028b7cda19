// Package pipeline runs meshes through load, build, validate, normalize and
// write, for one file or a directory of files.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/halfmesh/internal/config"
	"github.com/Faultbox/halfmesh/pkg/math"
	"github.com/Faultbox/halfmesh/pkg/mesh"
)

// Pipeline errors.
var (
	ErrOutputExists = errors.New("output already exists")
	ErrDisconnected = errors.New("mesh is not connected")
)

// Processor converts meshes according to a config.
type Processor struct {
	cfg *config.Config
	log *zap.Logger
}

// New returns a Processor. A nil cfg means config.Default and a nil log
// discards all output.
func New(cfg *config.Config, log *zap.Logger) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{cfg: cfg, log: log}
}

// Result is the outcome of converting one file.
type Result struct {
	Input      string
	Output     string
	Vertices   int
	Faces      int
	Boundary   int
	Components int
	Stats      mesh.BuildStats
	Duration   time.Duration
	Err        error
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// LoadOptions maps the input and processing settings onto mesh options.
func (p *Processor) LoadOptions() mesh.LoadOptions {
	in := p.cfg.Input
	return mesh.LoadOptions{
		BuildOptions: mesh.BuildOptions{
			KeepDuplicates: !p.cfg.Processing.Dedup,
			DropCollapsed:  p.cfg.Processing.DropCollapsed,
		},
		Scale:    in.Scale,
		Offset:   math.Vec3{X: in.Offset[0], Y: in.Offset[1], Z: in.Offset[2]},
		Encoding: in.Encoding,
	}
}

// Load reads and builds the mesh at path.
func (p *Processor) Load(path string) (*mesh.Mesh, error) {
	m, err := mesh.Load(path, p.cfg.Processing.BlendWeight, p.LoadOptions())
	if err != nil {
		return nil, err
	}

	st := m.Stats()
	p.log.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", m.FaceCount()),
		zap.Int("duplicates", st.Duplicates),
		zap.Int("collapsed", st.Collapsed),
		zap.Int("boundary", st.Topology.Boundary),
		zap.Int("non_manifold", st.Topology.NonManifold))
	if st.Topology.NonManifold > 0 {
		p.log.Warn("non-manifold edges left as boundary",
			zap.String("path", path),
			zap.Int("count", st.Topology.NonManifold))
	}
	return m, nil
}

// Apply runs the configured derived-geometry stages on m in place.
func (p *Processor) Apply(m *mesh.Mesh) error {
	proc := p.cfg.Processing
	if proc.RequireConnected && !m.IsConnected() {
		return fmt.Errorf("%w: %d components", ErrDisconnected, m.Components())
	}
	if proc.Normalize {
		m.NormalizeBoundingBox()
	}
	if proc.ComputeNormals {
		m.ComputeVertexNormals()
		m.BakeVertexNormals()
	}
	return nil
}

// OutputPath returns where the converted form of in is written: the output
// directory (or the source directory) plus the base name with the suffix.
func (p *Processor) OutputPath(in string) string {
	dir := p.cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	ext := filepath.Ext(in)
	base := strings.TrimSuffix(filepath.Base(in), ext)
	if ext == "" {
		ext = ".obj"
	}
	return filepath.Join(dir, base+p.cfg.Output.Suffix+ext)
}

// Convert loads in, applies the pipeline and writes the result to out. An
// empty out means OutputPath(in).
func (p *Processor) Convert(in, out string) Result {
	start := time.Now()
	if out == "" {
		out = p.OutputPath(in)
	}
	res := Result{Input: in, Output: out}
	fail := func(err error) Result {
		res.Err = err
		res.Duration = time.Since(start)
		p.log.Error("convert failed", zap.String("input", in), zap.Error(err))
		return res
	}

	if !p.cfg.Output.Overwrite {
		if _, err := os.Stat(out); err == nil {
			return fail(fmt.Errorf("%w: %s", ErrOutputExists, out))
		}
	}

	m, err := p.Load(in)
	if err != nil {
		return fail(err)
	}
	if err := p.Apply(m); err != nil {
		return fail(fmt.Errorf("%s: %w", in, err))
	}
	if err := m.Save(out); err != nil {
		return fail(err)
	}

	res.Vertices = len(m.Vertices)
	res.Faces = m.FaceCount()
	res.Boundary = m.BoundaryEdges()
	res.Components = m.Components()
	res.Stats = m.Stats()
	res.Duration = time.Since(start)

	p.log.Info("converted",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("faces", res.Faces),
		zap.Duration("took", res.Duration))
	return res
}
