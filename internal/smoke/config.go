package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	LogFile string        // Log file for run output
	Verbose bool          // Enable verbose logging
}

// Stats tracks the outcome of a smoke run.
type Stats struct {
	Subjects    int
	ChecksRun   int
	ChecksOK    int
	ChecksFail  int
	StartedAt   time.Time
	CompletedAt time.Time
}

// frameResponse mirrors the /frames read shape.
type frameResponse struct {
	Subject   string              `json:"subject"`
	TimeLabel string              `json:"time_label"`
	NextLabel string              `json:"next_label"`
	Index     int                 `json:"index"`
	Fraction  float64             `json:"fraction"`
	Scores    map[string]*float64 `json:"scores"`
	Points    []point             `json:"points"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
