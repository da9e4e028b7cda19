package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagQuiet       = flag.Bool("q", false, "Quiet mode, warnings and errors only")
	flagLog         = flag.String("log", "", "Log file path")
	flagWeight      = flag.Float64("weight", 0, "Blend weight tag carried by loaded meshes")
	flagWorkers     = flag.Int("workers", 0, "Batch worker count")
	flagOut         = flag.String("out", "", "Output directory")
	flagEncoding    = flag.String("encoding", "", "Source charset (euc-kr, shift_jis, windows-1252)")
	flagNoNormalize = flag.Bool("no-normalize", false, "Keep original positions")
	flagNoNormals   = flag.Bool("no-normals", false, "Skip vertex normal computation")
	flagKeepDups    = flag.Bool("keep-duplicates", false, "Do not drop duplicate faces")
	flagDropFlat    = flag.Bool("drop-collapsed", false, "Drop faces with a repeated vertex")
	flagOverwrite   = flag.Bool("overwrite", false, "Replace existing output files")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagQuiet {
		cfg.Logging.Quiet = true
	}
	if *flagLog != "" {
		cfg.Logging.LogFile = *flagLog
	}
	if *flagWeight > 0 {
		cfg.Processing.BlendWeight = *flagWeight
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagEncoding != "" {
		cfg.Input.Encoding = *flagEncoding
	}
	if *flagNoNormalize {
		cfg.Processing.Normalize = false
	}
	if *flagNoNormals {
		cfg.Processing.ComputeNormals = false
	}
	if *flagKeepDups {
		cfg.Processing.Dedup = false
	}
	if *flagDropFlat {
		cfg.Processing.DropCollapsed = true
	}
	if *flagOverwrite {
		cfg.Output.Overwrite = true
	}
}
