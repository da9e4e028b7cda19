// meshtool is a CLI utility for checking and normalizing triangle meshes
// stored as OBJ text.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/halfmesh/internal/config"
	"github.com/Faultbox/halfmesh/internal/logger"
	"github.com/Faultbox/halfmesh/internal/pipeline"
	"github.com/Faultbox/halfmesh/pkg/math"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command-line flags
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Initialize logger
	opts := logger.Options{
		Level:   cfg.Logging.Level,
		File:    logger.DefaultFileConfig(cfg.Logging.LogFile),
		Console: true,
		Quiet:   cfg.Logging.Quiet,
	}
	if err := logger.Init(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	p := pipeline.New(cfg, logger.Log)
	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		return cmdInfo(p, rest)
	case "check":
		return cmdCheck(p, cfg, rest)
	case "convert":
		return cmdConvert(p, rest)
	case "batch":
		return cmdBatch(p, rest)
	case "config":
		return cmdConfig(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println(`meshtool - half-edge mesh checker and normalizer

Usage:
  meshtool [flags] <command> [options]

Commands:
  info <file.obj>              Show mesh statistics
  check [-closed] <file.obj>   Validate topology, exit 1 on failure
  convert <in.obj> [out.obj]   Normalize and write one mesh
  batch <dir> [pattern]        Convert every matching mesh in dir
  config [save]                Print (or save) the effective config

Flags:
  -config <path>     Config file (default ./meshtool.yaml)
  -debug             Debug logging
  -q                 Warnings and errors only
  -log <path>        Also log to a rotating file
  -weight <w>        Blend weight tag for loaded meshes
  -workers <n>       Batch workers
  -out <dir>         Output directory
  -encoding <name>   Source charset (euc-kr, shift_jis, windows-1252)
  -no-normalize      Keep original positions
  -no-normals        Skip vertex normals
  -keep-duplicates   Keep duplicate faces
  -drop-collapsed    Drop faces with a repeated vertex
  -overwrite         Replace existing outputs

Examples:
  meshtool info model.obj
  meshtool -out ./normalized convert model.obj
  meshtool -workers 8 -encoding euc-kr batch ./models "*.obj"`)
}

func cmdInfo(p *pipeline.Processor, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info <file.obj>")
		return 1
	}

	m, err := p.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	st := m.Stats()

	fmt.Printf("Mesh:        %s\n", args[0])
	fmt.Printf("Vertices:    %d\n", len(m.Vertices))
	fmt.Printf("Faces:       %d (%d source triangles)\n", m.FaceCount(), st.SourceTriangles)
	fmt.Printf("Half-edges:  %d\n", len(m.HalfEdges))
	fmt.Printf("Normals:     %d\n", len(m.Normals))
	fmt.Printf("Texcoords:   %d\n", len(m.TexCoords))
	fmt.Printf("Boundary:    %d half-edges\n", st.Topology.Boundary)
	fmt.Printf("Dropped:     %d duplicate, %d collapsed\n", st.Duplicates, st.Collapsed)
	fmt.Printf("Non-manifold: %d\n", st.Topology.NonManifold)
	fmt.Printf("Components:  %d\n", m.Components())
	printBounds("Bounds:     ", m.Bounds())

	// Preview normalization without touching the loaded mesh
	preview, err := m.Clone()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	preview.NormalizeBoundingBox()
	printBounds("Normalized: ", preview.Bounds())
	fmt.Printf("Transform:   offset %v scale %g\n", preview.Offset, preview.Scale)
	return 0
}

func printBounds(label string, b math.Bounds) {
	if b.Empty() {
		fmt.Printf("%s (empty)\n", label)
		return
	}
	fmt.Printf("%s %v .. %v\n", label, b.Min, b.Max)
}

func cmdCheck(p *pipeline.Processor, cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	closed := fs.Bool("closed", false, "Fail when any boundary edge remains")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool check [-closed] <file.obj>")
		return 1
	}
	path := fs.Arg(0)

	// Load validates the built topology; integrity failures surface here
	m, err := p.Load(path)
	if err != nil {
		logger.Error("check failed", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
		return 1
	}

	failed := false
	if cfg.Processing.RequireConnected && !m.IsConnected() {
		fmt.Fprintf(os.Stderr, "FAIL %s: %d components\n", path, m.Components())
		failed = true
	}
	if n := m.BoundaryEdges(); *closed && n > 0 {
		fmt.Fprintf(os.Stderr, "FAIL %s: %d boundary half-edges\n", path, n)
		failed = true
	}
	if failed {
		return 1
	}

	logger.Debug("integrity ok",
		zap.String("path", path),
		zap.Int("components", m.Components()),
		zap.Int("boundary", m.BoundaryEdges()))
	fmt.Printf("OK   %s\n", path)
	return 0
}

func cmdConvert(p *pipeline.Processor, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool convert <in.obj> [out.obj]")
		return 1
	}
	out := ""
	if len(args) > 1 {
		out = args[1]
	}

	res := p.Convert(args[0], out)
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
		return 1
	}
	fmt.Printf("Wrote: %s (%d vertices, %d faces)\n", res.Output, res.Vertices, res.Faces)
	return 0
}

func cmdBatch(p *pipeline.Processor, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool batch <dir> [pattern]")
		return 1
	}
	pattern := ""
	if len(args) > 1 {
		pattern = args[1]
	}

	files, err := p.Collect(args[0], pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No files matched in %s\n", args[0])
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := p.Batch(ctx, files)

	var faces, dropped int
	for _, r := range results {
		if r.OK() {
			faces += r.Faces
			dropped += r.Stats.Duplicates + r.Stats.Collapsed
		}
	}
	errs := multierr.Errors(pipeline.Errors(results))

	fmt.Printf("Converted: %d/%d\n", len(results)-len(errs), len(results))
	fmt.Printf("Faces:     %d (%d dropped)\n", faces, dropped)
	if len(errs) > 0 {
		logger.Warn("batch finished with failures", zap.Int("failed", len(errs)), zap.Int("total", len(results)))
		fmt.Printf("Failed:    %d\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  %v\n", e)
		}
		return 1
	}
	return 0
}

func cmdConfig(cfg *config.Config, args []string) int {
	if len(args) > 0 && args[0] == "save" {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		fmt.Println("Saved config to", config.ConfigDir())
		return 0
	}
	if err := cfg.Write(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
