package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSink persists rendered documents as <dir>/<subject>-<kind>.svg.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir, creating it if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Write stores one rendered document.
func (s *FileSink) Write(_ context.Context, job Job, doc string) error {
	name := fmt.Sprintf("%s-%s.svg", slug(job.Subject), job.Kind)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// slug flattens a subject name into a safe file name component.
func slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
