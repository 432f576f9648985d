package feed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/settlerec/settlerec/internal/domain"
)

// StatusSink publishes domain events as rendered lines in status.txt.
type StatusSink struct {
	path string
}

// NewStatusSink creates a sink writing to the runtime's status file.
func NewStatusSink(rt *Runtime) *StatusSink {
	return &StatusSink{path: rt.Path(StatusFile)}
}

// Publish appends one rendered line per event, in order, with a single
// write call so concurrent tailers never observe a torn batch.
func (s *StatusSink) Publish(events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	var b strings.Builder
	for _, e := range events {
		b.WriteString(e.Line())
		b.WriteByte('\n')
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

// Follow tails the status file from its current end, invoking fn for each
// complete new line until ctx is cancelled. Poll interval matches the
// external tail script (200ms).
func Follow(ctx context.Context, path string, fn func(line string)) error {
	t := newLineTailer(path)
	// Start at the current end: Follow reports new events only.
	if info, err := os.Stat(path); err == nil {
		t.offset = info.Size()
	}
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			lines, err := t.drain()
			if err != nil {
				return err
			}
			for _, line := range lines {
				fn(line)
			}
		}
	}
}
