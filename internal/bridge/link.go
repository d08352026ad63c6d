package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// maxLineBytes bounds a single inbound message.
const maxLineBytes = 1 << 20

// Sender writes one outbound message.
type Sender interface {
	Send(v any) error
}

// Link is a JSON-lines connection to the renderer helper. Send may be called
// from any goroutine; Run must be called once.
type Link struct {
	r      io.Reader
	w      io.Writer
	mu     sync.Mutex
	logger *slog.Logger
}

var _ Sender = (*Link)(nil)

// NewLink wraps the helper's stdout (r) and stdin (w).
func NewLink(r io.Reader, w io.Writer, logger *slog.Logger) *Link {
	if logger == nil {
		logger = slog.Default()
	}
	return &Link{r: r, w: w, logger: logger}
}

// Send encodes v as one line.
func (l *Link) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal renderer message: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("failed to write to renderer: %w", err)
	}
	return nil
}

// Run reads messages until the reader is exhausted or ctx is cancelled and
// delivers them on out. Malformed lines are logged and skipped. It returns
// nil when the helper closes its end.
func (l *Link) Run(ctx context.Context, out chan<- Message) error {
	scanner := bufio.NewScanner(l.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		msg, err := ParseMessage(line)
		if err != nil {
			l.logger.Debug("ignoring renderer line", "error", err)
			continue
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("renderer read error: %w", err)
	}
	return nil
}
