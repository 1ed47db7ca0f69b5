// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the YAML dataset of subjects and snapshots.
	// Empty means the embedded sample dataset.
	DatasetPath string `koanf:"dataset_path"`

	// CanvasSize is the square SVG viewport edge in user units.
	CanvasSize int `koanf:"canvas_size"`

	// ChartRadius is the radar polygon's outer radius in user units.
	ChartRadius float64 `koanf:"chart_radius"`

	// Tension is the curve fitting smoothing factor.
	Tension float64 `koanf:"tension"`

	// BoundarySlices subdivides each group boundary into blended slices.
	BoundarySlices int `koanf:"boundary_slices"`

	// StepDurationMs is the timelapse time per snapshot, in milliseconds.
	StepDurationMs int `koanf:"step_duration_ms"`

	// GhostTrail is how many preceding snapshots the timelapse renders
	// at decaying opacity behind the current frame.
	GhostTrail int `koanf:"ghost_trail"`

	// VisibilityThreshold is the visible ratio that autostarts playback.
	VisibilityThreshold float64 `koanf:"visibility_threshold"`

	// ExportDir receives batch-exported SVG files.
	ExportDir string `koanf:"export_dir"`

	// ExportQueueSize bounds the in-memory export job queue.
	ExportQueueSize int `koanf:"export_queue_size"`

	// ExportWorkers sets the number of export render workers.
	ExportWorkers int `koanf:"export_workers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DatasetPath:         "",
		CanvasSize:          420,
		ChartRadius:         160,
		Tension:             0.35,
		BoundarySlices:      6,
		StepDurationMs:      2000,
		GhostTrail:          3,
		VisibilityThreshold: 0.3,
		ExportDir:           "export",
		ExportQueueSize:     1024,
		ExportWorkers:       4,
	}
}
