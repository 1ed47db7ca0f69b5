package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/stagescape/radial/internal/smoke"
)

// Default configuration constants.
const (
	defaultTimeout  = 30 * time.Second
	defaultRunLimit = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Log file for run output (default: smoke_log_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	// Setup logging
	if err := smoke.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	config := &smoke.Config{
		BaseURL: *baseURL,
		Timeout: *timeout,
		LogFile: *logFile,
		Verbose: *verbose,
	}

	if err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
