package smoke

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/stagescape/radial/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoke_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Radial Smoke Tool
=================

Exercises every public route of a running Radial service and checks the
responses for shape and playback consistency.

Usage:
  go run cmd/smoke/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help

Checks:
  - /subjects lists at least one subject
  - radar, timelapse and area documents parse as SVG for every subject
  - /frames geometry stays inside the loop (index and fraction bounds)
  - frames one full loop apart resolve identically
  - unknown subjects return 404, malformed elapsed returns 400
  - /export accepts radar and areas jobs
  - /stats reports a started service
`)
}
