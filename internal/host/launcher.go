package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/1broseidon/deskpet/internal/bridge"
	"github.com/1broseidon/deskpet/internal/config"
	"github.com/1broseidon/deskpet/internal/overlay"
)

// HelperName is the renderer helper binary name without extension.
const HelperName = "deskpet-renderer"

// HelperEnv overrides helper discovery when helper_path is unset.
const HelperEnv = "DESKPET_HELPER"

// ErrHelperNotFound is returned when no renderer helper binary exists in
// any known location.
var ErrHelperNotFound = errors.New("renderer helper not found")

// Locator searches for the renderer helper. Its function fields exist so
// tests can fake the filesystem.
type Locator struct {
	GOOS       string
	Getenv     func(string) string
	Executable func() (string, error)
	Stat       func(string) (os.FileInfo, error)
}

// NewLocator returns a locator for the running process.
func NewLocator() *Locator {
	return &Locator{
		GOOS:       runtime.GOOS,
		Getenv:     os.Getenv,
		Executable: os.Executable,
		Stat:       os.Stat,
	}
}

// Candidates lists the places searched, in order: the configured path,
// $DESKPET_HELPER, the development build directories, next to the running
// executable, ../libexec relative to it, then /usr/bin and /usr/local/bin.
func (l *Locator) Candidates(configured string) []string {
	name := HelperName
	if l.GOOS == "windows" {
		name += ".exe"
	}

	var out []string
	if configured != "" {
		out = append(out, configured)
	}
	if env := l.Getenv(HelperEnv); env != "" {
		out = append(out, env)
	}
	out = append(out,
		filepath.Join("renderer", "target", "debug", name),
		filepath.Join("renderer", "target", "release", name),
	)
	if exe, err := l.Executable(); err == nil {
		dir := filepath.Dir(exe)
		out = append(out,
			filepath.Join(dir, name),
			filepath.Join(filepath.Dir(dir), "libexec", name),
		)
	}
	if l.GOOS != "windows" {
		out = append(out,
			filepath.Join("/usr/bin", name),
			filepath.Join("/usr/local/bin", name),
		)
	}
	return out
}

// Find returns the first candidate that is a regular file.
func (l *Locator) Find(configured string) (string, error) {
	for i, path := range l.Candidates(configured) {
		info, err := l.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if i == 0 && configured != "" {
			log.Printf("Warning: helper_path %s is not usable, searching defaults", configured)
		}
	}
	return "", fmt.Errorf("%w: install %s or set helper_path", ErrHelperNotFound, HelperName)
}

// HelperArgs builds the helper command line.
func HelperArgs(cfg *config.Config, kind overlay.Kind) []string {
	args := []string{
		"--backend", string(kind),
		"--namespace", bridge.Namespace,
		"--title", cfg.WindowTitle,
		"--width", strconv.Itoa(cfg.Window.Width),
		"--height", strconv.Itoa(cfg.Window.Height),
	}
	if cfg.RendererURL != "" {
		args = append(args, "--url", cfg.RendererURL)
	}
	return args
}

// Helper is a running renderer helper. Stdout carries renderer messages,
// Stdin receives events and directives.
type Helper struct {
	cmd    *exec.Cmd
	Stdin  io.WriteCloser
	Stdout io.ReadCloser
	logf   *os.File
	done   chan struct{}
	err    error
}

// Launch starts the helper at path. Its stderr is appended to logPath when
// set, otherwise it is inherited.
func Launch(path string, args []string, logPath string) (*Helper, error) {
	cmd := exec.Command(path, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open helper stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open helper stdout: %w", err)
	}

	var logf *os.File
	if logPath != "" {
		logf, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open helper log: %w", err)
		}
		cmd.Stderr = logf
	} else {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		if logf != nil {
			logf.Close()
		}
		return nil, fmt.Errorf("failed to start renderer helper %s: %w", path, err)
	}
	log.Printf("Renderer helper started (pid %d): %s", cmd.Process.Pid, path)

	h := &Helper{cmd: cmd, Stdin: stdin, Stdout: stdout, logf: logf, done: make(chan struct{})}
	go func() {
		h.err = cmd.Wait()
		if h.logf != nil {
			h.logf.Close()
		}
		close(h.done)
	}()
	return h, nil
}

// Done is closed when the helper process exits.
func (h *Helper) Done() <-chan struct{} {
	return h.done
}

// Err blocks until the helper exits and returns its exit error.
func (h *Helper) Err() error {
	<-h.done
	return h.err
}

// Stop closes the helper's stdin and waits for it to exit, killing it if it
// has not exited by the time ctx is done.
func (h *Helper) Stop(ctx context.Context) error {
	h.Stdin.Close()
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill renderer helper: %w", err)
	}
	select {
	case <-h.done:
		return h.err
	case <-time.After(2 * time.Second):
		return errors.New("renderer helper did not exit")
	}
}
