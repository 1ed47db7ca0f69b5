package smoke

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Probe limits.
const (
	maxSnapshotProbe = 64
	loopCheckOffset  = 123 * time.Millisecond
)

// Run executes the full smoke suite against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartedAt: time.Now()}
	client := newHTTPClient(config.Timeout)

	log.Printf("🚀 Smoke run against %s", config.BaseURL)

	step, err := checkStats(client, config, stats)
	if err != nil {
		return err
	}

	subjects, err := checkSubjects(client, config, stats)
	if err != nil {
		return err
	}
	stats.Subjects = len(subjects)

	for _, subject := range subjects {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		checkCharts(client, config, stats, subject)
		checkFrames(client, config, stats, subject, step)
		checkExport(client, config, stats, subject)
	}

	checkRejections(client, config, stats)

	stats.CompletedAt = time.Now()
	log.Printf("🏁 %d/%d checks passed across %d subjects in %s",
		stats.ChecksOK, stats.ChecksRun, stats.Subjects, stats.CompletedAt.Sub(stats.StartedAt).Round(time.Millisecond))

	if stats.ChecksFail > 0 {
		return fmt.Errorf("%d smoke checks failed", stats.ChecksFail)
	}
	return nil
}

func checkStats(client *HTTPClient, config *Config, stats *Stats) (time.Duration, error) {
	var body map[string]interface{}
	code, err := client.getJSON(config.BaseURL+"/stats", &body)
	if err != nil {
		return 0, fmt.Errorf("stats: %w", err)
	}
	record(stats, "stats responds", code == http.StatusOK)
	started, _ := body["started"].(bool)
	record(stats, "service started", started)

	stepMs, ok := body["stepDurationMs"].(float64)
	if !ok || stepMs <= 0 {
		record(stats, "stats reports step duration", false)
		return 0, fmt.Errorf("stats missing stepDurationMs")
	}
	record(stats, "stats reports step duration", true)
	return time.Duration(stepMs) * time.Millisecond, nil
}

func checkSubjects(client *HTTPClient, config *Config, stats *Stats) ([]string, error) {
	var subjects []string
	code, err := client.getJSON(config.BaseURL+"/subjects", &subjects)
	if err != nil {
		return nil, fmt.Errorf("subjects: %w", err)
	}
	record(stats, "subjects responds", code == http.StatusOK)
	record(stats, "subjects non-empty", len(subjects) > 0)
	return subjects, nil
}

func checkCharts(client *HTTPClient, config *Config, stats *Stats, subject string) {
	enc := url.PathEscape(subject)
	urls := map[string]string{
		"radar":     config.BaseURL + "/charts/" + enc + ".svg",
		"timelapse": config.BaseURL + "/charts/" + enc + "/timelapse.svg?elapsed=0",
		"areas":     config.BaseURL + "/charts/" + enc + "/areas.svg",
	}
	for kind, u := range urls {
		resp, err := client.Get(u)
		if err != nil {
			record(stats, subject+" "+kind+" chart", false)
			continue
		}
		body, err := readResponseBody(resp)
		ok := err == nil &&
			resp.StatusCode == http.StatusOK &&
			strings.Contains(resp.Header.Get("Content-Type"), "image/svg+xml") &&
			strings.HasPrefix(strings.TrimSpace(string(body)), "<svg")
		if ok && kind == "radar" {
			ok = strings.Contains(string(body), "radialGradient")
		}
		record(stats, subject+" "+kind+" chart", ok)
		if config.Verbose {
			log.Printf("   %s %s: %d bytes", subject, kind, len(body))
		}
	}
}

func checkFrames(client *HTTPClient, config *Config, stats *Stats, subject string, step time.Duration) {
	enc := url.PathEscape(subject)
	base := config.BaseURL + "/frames/" + enc

	frameAt := func(elapsed time.Duration) (frameResponse, bool) {
		var f frameResponse
		u := fmt.Sprintf("%s?elapsed=%d", base, elapsed.Milliseconds())
		code, err := client.getJSON(u, &f)
		return f, err == nil && code == http.StatusOK
	}

	f0, ok := frameAt(0)
	record(stats, subject+" frame responds", ok)
	if !ok {
		return
	}
	record(stats, subject+" frame geometry valid", verifyFrame(f0, subject))

	// Walk step midpoints until the index wraps to recover the loop length.
	count := 0
	for k := 1; k <= maxSnapshotProbe; k++ {
		f, ok := frameAt(time.Duration(k)*step + step/2)
		if !ok {
			break
		}
		if f.Index == f0.Index {
			count = k
			break
		}
	}
	record(stats, subject+" playback wraps", count > 0)
	if count == 0 {
		return
	}

	// One full loop apart, frames must resolve identically.
	a, okA := frameAt(loopCheckOffset)
	b, okB := frameAt(loopCheckOffset + time.Duration(count)*step)
	record(stats, subject+" loop is seamless", okA && okB && framesEqual(a, b))
}

func checkExport(client *HTTPClient, config *Config, stats *Stats, subject string) {
	for _, kind := range []string{"radar", "areas"} {
		resp, err := client.Post(config.BaseURL+"/export", map[string]string{
			"subject": subject,
			"kind":    kind,
		})
		if err != nil {
			record(stats, subject+" export "+kind, false)
			continue
		}
		_, _ = readResponseBody(resp)
		record(stats, subject+" export "+kind, resp.StatusCode == http.StatusAccepted)
	}
}

func checkRejections(client *HTTPClient, config *Config, stats *Stats) {
	resp, err := client.Get(config.BaseURL + "/charts/no-such-subject.svg")
	if err == nil {
		_, _ = readResponseBody(resp)
		record(stats, "unknown subject rejected", resp.StatusCode == http.StatusNotFound)
	} else {
		record(stats, "unknown subject rejected", false)
	}

	resp, err = client.Get(config.BaseURL + "/frames/no-such-subject?elapsed=abc")
	if err == nil {
		_, _ = readResponseBody(resp)
		record(stats, "malformed elapsed rejected", resp.StatusCode == http.StatusBadRequest)
	} else {
		record(stats, "malformed elapsed rejected", false)
	}
}

func record(stats *Stats, name string, ok bool) {
	stats.ChecksRun++
	if ok {
		stats.ChecksOK++
		log.Printf("✅ %s", name)
		return
	}
	stats.ChecksFail++
	log.Printf("❌ %s", name)
}
