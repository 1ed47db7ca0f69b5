package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/stagescape/radial/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.CanvasSize, convey.ShouldEqual, 420)
				convey.So(cfg.StepDurationMs, convey.ShouldEqual, 2000)
				convey.So(cfg.GhostTrail, convey.ShouldEqual, 3)
				convey.So(cfg.ExportWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			// Set environment variables
			_ = os.Setenv("RADIAL_ADDR", ":8080")
			_ = os.Setenv("RADIAL_CANVAS_SIZE", "600")
			_ = os.Setenv("RADIAL_CHART_RADIUS", "220")
			_ = os.Setenv("RADIAL_STEP_DURATION_MS", "1500")
			_ = os.Setenv("RADIAL_GHOST_TRAIL", "5")
			_ = os.Setenv("RADIAL_EXPORT_WORKERS", "8")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CanvasSize, convey.ShouldEqual, 600)
				convey.So(cfg.ChartRadius, convey.ShouldEqual, 220.0)
				convey.So(cfg.StepDurationMs, convey.ShouldEqual, 1500)
				convey.So(cfg.GhostTrail, convey.ShouldEqual, 5)
				convey.So(cfg.ExportWorkers, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			// Create a temporary YAML config file
			yamlContent := `
addr: ":9090"
canvas_size: 500
chart_radius: 200
step_duration_ms: 3000
export_dir: "out"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			// Set the config file path
			_ = os.Setenv("RADIAL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CanvasSize, convey.ShouldEqual, 500)
				convey.So(cfg.ChartRadius, convey.ShouldEqual, 200.0)
				convey.So(cfg.StepDurationMs, convey.ShouldEqual, 3000)
				convey.So(cfg.ExportDir, convey.ShouldEqual, "out")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
canvas_size: 500
step_duration_ms: 3000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			// Set both file and environment variables
			_ = os.Setenv("RADIAL_CONFIG", tmpFile)
			_ = os.Setenv("RADIAL_ADDR", ":8080")           // This should override the file
			_ = os.Setenv("RADIAL_STEP_DURATION_MS", "500") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")         // Overridden by env
				convey.So(cfg.CanvasSize, convey.ShouldEqual, 500)       // From file
				convey.So(cfg.StepDurationMs, convey.ShouldEqual, 500)   // Overridden by env
				convey.So(cfg.GhostTrail, convey.ShouldEqual, 3)         // From defaults
				convey.So(cfg.ExportQueueSize, convey.ShouldEqual, 1024) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RADIAL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RADIAL_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("RADIAL_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
export_workers: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RADIAL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")        // From file
				convey.So(cfg.ExportWorkers, convey.ShouldEqual, 2)     // From file
				convey.So(cfg.CanvasSize, convey.ShouldEqual, 420)      // From defaults
				convey.So(cfg.StepDurationMs, convey.ShouldEqual, 2000) // From defaults
				convey.So(cfg.Tension, convey.ShouldEqual, 0.35)        // From defaults
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RADIAL_CANVAS_SIZE", "invalid")
			_ = os.Setenv("RADIAL_EXPORT_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When the radius does not fit the canvas", func() {
			_ = os.Setenv("RADIAL_CANVAS_SIZE", "300")
			_ = os.Setenv("RADIAL_CHART_RADIUS", "200")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "chart_radius")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the step duration is zero", func() {
			_ = os.Setenv("RADIAL_STEP_DURATION_MS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "step_duration_ms")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the visibility threshold is out of range", func() {
			_ = os.Setenv("RADIAL_VISIBILITY_THRESHOLD", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "visibility_threshold")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the ghost trail is negative", func() {
			_ = os.Setenv("RADIAL_GHOST_TRAIL", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "ghost_trail")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with special characters in addr", func() {
			_ = os.Setenv("RADIAL_ADDR", "localhost:8080")
			_ = os.Setenv("RADIAL_ADDR", "0.0.0.0:9090")
			_ = os.Setenv("RADIAL_ADDR", "[::1]:8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should handle various addr formats", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "[::1]:8080") // Last one wins
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
addr: ":9090"  # Inline comment
canvas_size: 500
# Another comment
boundary_slices: 8
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RADIAL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CanvasSize, convey.ShouldEqual, 500)
				convey.So(cfg.BoundarySlices, convey.ShouldEqual, 8)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RADIAL_CONFIG",
		"RADIAL_ADDR",
		"RADIAL_CANVAS_SIZE",
		"RADIAL_CHART_RADIUS",
		"RADIAL_STEP_DURATION_MS",
		"RADIAL_GHOST_TRAIL",
		"RADIAL_EXPORT_WORKERS",
		"RADIAL_VISIBILITY_THRESHOLD",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "radial-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
