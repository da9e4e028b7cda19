// Package config handles meshtool configuration loading and management.
package config

// Config holds all meshtool settings.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Processing ProcessingConfig `yaml:"processing"`
	Output     OutputConfig     `yaml:"output"`
	Batch      BatchConfig      `yaml:"batch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InputConfig controls how source files are read.
type InputConfig struct {
	Encoding string     `yaml:"encoding"` // Source charset, empty for UTF-8
	Scale    float64    `yaml:"scale"`    // Uniform scale applied while reading
	Offset   [3]float64 `yaml:"offset"`   // Added to positions before scaling
}

// ProcessingConfig selects pipeline stages.
type ProcessingConfig struct {
	Dedup            bool    `yaml:"dedup"`
	DropCollapsed    bool    `yaml:"drop_collapsed"`
	ComputeNormals   bool    `yaml:"compute_normals"`
	Normalize        bool    `yaml:"normalize"`
	RequireConnected bool    `yaml:"require_connected"`
	BlendWeight      float64 `yaml:"blend_weight"`
}

// OutputConfig controls where converted meshes go.
type OutputConfig struct {
	Dir       string `yaml:"dir"`    // Empty means next to the source
	Suffix    string `yaml:"suffix"` // Appended to the base name
	Overwrite bool   `yaml:"overwrite"`
}

// BatchConfig holds batch conversion settings.
type BatchConfig struct {
	Workers int    `yaml:"workers"`
	Pattern string `yaml:"pattern"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Quiet   bool   `yaml:"quiet"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Encoding: "",
			Scale:    1,
		},
		Processing: ProcessingConfig{
			Dedup:            true,
			DropCollapsed:    false,
			ComputeNormals:   true,
			Normalize:        true,
			RequireConnected: false,
			BlendWeight:      1,
		},
		Output: OutputConfig{
			Dir:       "",
			Suffix:    "_norm",
			Overwrite: false,
		},
		Batch: BatchConfig{
			Workers: 4,
			Pattern: "*.obj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
