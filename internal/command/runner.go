// Package command runs shell commands on behalf of the renderer and streams
// their output back line by line.
//
// Each command runs in its own goroutine. Results are delivered on a single
// buffered channel that the host loop drains on its poll tick, so the loop
// never blocks on a slow process.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies a Result.
type Kind int

const (
	KindStdout Kind = iota
	KindStderr
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindStdout:
		return "stdout"
	case KindStderr:
		return "stderr"
	case KindComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// NoExitCode is reported when the process never produced an exit status,
// for example when it could not be started or was killed by a signal.
const NoExitCode = -1

// Result is one line of output or the final completion record of a command.
type Result struct {
	ID       string
	Kind     Kind
	Line     string
	ExitCode int
	Err      error
}

// ErrEmptyCommand is returned by Start for a blank command line.
var ErrEmptyCommand = errors.New("empty command")

// Runner starts shell commands and collects their output.
type Runner struct {
	shell   string
	timeout time.Duration
	logger  *slog.Logger
	results chan Result

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner returns a runner that executes commands through shell. A zero
// timeout disables the per-command deadline.
func NewRunner(shell string, timeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		shell:   shell,
		timeout: timeout,
		logger:  logger,
		results: make(chan Result, 256),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Results is drained by the host loop.
func (r *Runner) Results() <-chan Result {
	return r.results
}

// Start launches command and returns its id. An empty id generates one.
// Launch failures are reported as a completion Result, not as an error, so
// the renderer always sees exactly one completion per accepted command.
func (r *Runner) Start(ctx context.Context, id, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", ErrEmptyCommand
	}
	if id == "" {
		id = uuid.NewString()
	}

	runCtx, cancel := r.commandContext(ctx)
	r.mu.Lock()
	if _, exists := r.cancels[id]; exists {
		r.mu.Unlock()
		cancel()
		return "", fmt.Errorf("command %q is already running", id)
	}
	r.cancels[id] = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(runCtx, id, command)
	return id, nil
}

func (r *Runner) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// Cancel stops a running command. It reports whether the id was known.
func (r *Runner) Cancel(id string) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Running returns the number of commands that have not completed.
func (r *Runner) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}

// Wait blocks until every started command has delivered its completion.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown cancels all commands and waits for them. Results produced while
// shutting down are discarded.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	for _, cancel := range r.cancels {
		cancel()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-r.results:
		case <-done:
			return
		}
	}
}

func (r *Runner) run(ctx context.Context, id, command string) {
	defer r.wg.Done()

	name, args := shellArgs(r.shell, command)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = 2 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.complete(id, NoExitCode, fmt.Errorf("failed to open stdout: %w", err))
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		r.complete(id, NoExitCode, fmt.Errorf("failed to open stderr: %w", err))
		return
	}

	r.logger.Debug("command started", "id", id, "command", command)
	if err := cmd.Start(); err != nil {
		if cerr := r.contextError(ctx); cerr != nil {
			err = cerr
		} else {
			err = fmt.Errorf("failed to start command: %w", err)
		}
		r.complete(id, NoExitCode, err)
		return
	}

	var streams sync.WaitGroup
	streams.Add(2)
	go r.stream(&streams, id, KindStdout, stdout)
	go r.stream(&streams, id, KindStderr, stderr)
	streams.Wait()

	waitErr := cmd.Wait()
	code := NoExitCode
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}

	reportErr := r.contextError(ctx)
	if reportErr == nil && waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			reportErr = waitErr
		}
	}
	r.logger.Debug("command finished", "id", id, "exit_code", code)
	r.complete(id, code, reportErr)
}

func (r *Runner) contextError(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("command timed out after %s", r.timeout)
	case errors.Is(ctx.Err(), context.Canceled):
		return errors.New("command cancelled")
	}
	return nil
}

func (r *Runner) stream(wg *sync.WaitGroup, id string, kind Kind, rd io.Reader) {
	defer wg.Done()
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.results <- Result{ID: id, Kind: kind, Line: strings.TrimRight(scanner.Text(), "\r")}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Debug("command output read failed", "id", id, "stream", kind.String(), "error", err)
		// Keep the pipe drained so the child does not block on a full buffer.
		_, _ = io.Copy(io.Discard, rd)
	}
}

// complete forgets id before publishing so Running never counts a command
// whose completion is already visible.
func (r *Runner) complete(id string, code int, err error) {
	r.mu.Lock()
	if cancel, ok := r.cancels[id]; ok {
		cancel()
		delete(r.cancels, id)
	}
	r.mu.Unlock()
	r.results <- Result{ID: id, Kind: KindComplete, ExitCode: code, Err: err}
}

// shellArgs builds the argv for running command through shell. cmd.exe
// takes /C, every other shell takes -c.
func shellArgs(shell, command string) (string, []string) {
	if shell == "" {
		shell = "/bin/sh"
	}
	base := strings.ToLower(filepath.Base(shell))
	if base == "cmd" || base == "cmd.exe" {
		return shell, []string{"/C", command}
	}
	return shell, []string{"-c", command}
}
