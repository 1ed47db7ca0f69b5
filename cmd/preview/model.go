package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stagescape/radial/internal/adapters/catalog"
	"github.com/stagescape/radial/internal/domain/blend"
	"github.com/stagescape/radial/internal/domain/chart"
	"github.com/stagescape/radial/internal/domain/interp"
	"github.com/stagescape/radial/internal/domain/playback"
)

const (
	barWidth     = 30
	redrawPeriod = 50 * time.Millisecond
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(redrawPeriod, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	ctx      context.Context
	store    catalog.Store
	subjects []string
	current  int
	step     time.Duration

	series chart.Series
	clock  *playback.Clock
	frame  playback.Frame

	width    int
	quitting bool
}

func newModel(ctx context.Context, store catalog.Store, subjects []string, subject string, step time.Duration) (model, error) {
	m := model{
		ctx:      ctx,
		store:    store,
		subjects: subjects,
		step:     step,
	}
	for i, s := range subjects {
		if s == subject {
			m.current = i
			break
		}
	}
	if err := m.load(); err != nil {
		return model{}, err
	}
	return m, nil
}

// load swaps in the current subject's series and a fresh clock. The
// previous clock, if any, is disposed first.
func (m *model) load() error {
	series, err := m.store.Series(m.ctx, m.subjects[m.current])
	if err != nil {
		return err
	}
	clk, err := playback.NewClock(len(series.Snapshots),
		playback.WithStepDuration(m.step),
	)
	if err != nil {
		return err
	}
	if m.clock != nil {
		m.clock.Dispose()
	}
	m.series = series
	m.clock = clk
	m.clock.Start(m.ctx)
	m.clock.OnVisibility(m.ctx, 1.0)
	m.frame = m.clock.Current()
	return nil
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.clock.Dispose()
			return m, tea.Quit
		case " ":
			m.clock.Toggle(m.ctx)
			return m, nil
		case "right", "l", "tab":
			m.current = (m.current + 1) % len(m.subjects)
			if err := m.load(); err != nil {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		case "left", "h":
			m.current = (m.current - 1 + len(m.subjects)) % len(m.subjects)
			if err := m.load(); err != nil {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		return m, nil

	case tickMsg:
		m.frame = m.clock.Current()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	count := len(m.series.Snapshots)
	cur := m.series.Snapshots[m.frame.Index]
	next := m.series.Snapshots[(m.frame.Index+1)%count]
	vec, err := interp.Interpolate(cur.Scores, next.Scores, m.frame.Fraction)
	if err != nil {
		return "interpolation failed: " + err.Error()
	}

	rng := m.store.Range()
	colors := m.store.Colors()

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("radial preview") + "\n\n")
	b.WriteString("  " + titleStyle.Render(m.series.Subject) + "\n")
	b.WriteString("  " + yearStyle.Render(yearLine(cur.TimeLabel, next.TimeLabel, m.frame.Fraction)) + "\n\n")

	var lastGroup chart.Group
	for _, ax := range m.store.Axes() {
		if ax.Group != lastGroup {
			if lastGroup != "" {
				b.WriteString("\n")
			}
			b.WriteString("  " + groupStyle(colors[ax.Group]).Render(string(ax.Group)) + "\n")
			lastGroup = ax.Group
		}
		label := strings.ReplaceAll(ax.Label, "\n", " ")
		b.WriteString(fmt.Sprintf("  %-12s %s\n", label, scoreBar(vec[ax.Key], rng, colors[ax.Group])))
	}

	statusText := "playing"
	if m.clock.State() != playback.Playing {
		statusText = "paused"
	}
	b.WriteString("\n  " + statusStyle.Render(statusText) + "\n")
	b.WriteString("  " + helpStyle.Render("space play/pause · ←/→ subject · q quit") + "\n")
	return b.String()
}

func yearLine(cur, next string, fraction float64) string {
	if cur == next {
		return cur
	}
	return fmt.Sprintf("%s → %s  %3.0f%%", cur, next, fraction*100)
}

func scoreBar(s chart.Score, rng chart.Range, c blend.Color) string {
	if !s.Valid {
		return mutedStyle.Render(strings.Repeat("·", barWidth) + "    -")
	}
	filled := int(rng.Normalize(s.Value) * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := groupStyle(c).Render(strings.Repeat("━", filled)) + mutedStyle.Render(strings.Repeat("─", barWidth-filled))
	return fmt.Sprintf("%s %.1f", bar, s.Value)
}
