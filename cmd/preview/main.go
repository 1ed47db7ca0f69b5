// Command preview plays a subject's timelapse in the terminal. Bars
// stand in for the radar outline; the playback loop, interpolation and
// group colors are the same ones the HTTP renderer uses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stagescape/radial/internal/adapters/catalog"
	"github.com/stagescape/radial/internal/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var storeOpts []catalog.Option
	if cfg.DatasetPath != "" {
		storeOpts = append(storeOpts, catalog.WithDatasetPath(cfg.DatasetPath))
	}
	store, err := catalog.NewMemStore(storeOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	subjects := store.Subjects(ctx)
	if len(subjects) == 0 {
		fmt.Fprintln(os.Stderr, "Error: dataset has no subjects")
		os.Exit(1)
	}
	subject := subjects[0]
	if len(os.Args) > 1 {
		subject = os.Args[1]
	}
	if _, err := store.Series(ctx, subject); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	step := time.Duration(cfg.StepDurationMs) * time.Millisecond
	model, err := newModel(ctx, store, subjects, subject, step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
