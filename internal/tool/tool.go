// Package tool wraps external process invocation: executable resolution,
// timeouts, and structured exit handling. Every engine the pipeline drives
// (document export, speech synthesis, speech recognition, video muxing)
// goes through the same Tool type.
package tool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Tool is a resolved external executable with a default timeout.
type Tool struct {
	Name    string
	Path    string
	Timeout time.Duration
}

// New resolves the executable for name. The configured path wins when it
// points at an existing file; otherwise PATH lookup and a short list of
// conventional install locations are tried. Resolution failure is not an
// error here so that availability can be reported per tool later.
func New(name, configuredPath string, timeout time.Duration) *Tool {
	return &Tool{
		Name:    name,
		Path:    Resolve(configuredPath, name),
		Timeout: timeout,
	}
}

// Resolve picks the executable path for a tool.
func Resolve(configured, name string) string {
	if configured != "" && configured != name {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	if p, err := exec.LookPath(configured); err == nil {
		return p
	}
	candidates := []string{
		"/opt/homebrew/bin/" + name,
		"/usr/local/bin/" + name,
		"/usr/bin/" + name,
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if configured != "" {
		return configured
	}
	return name
}

// Available reports whether the executable can be located.
func (t *Tool) Available() error {
	if _, err := exec.LookPath(t.Path); err != nil {
		if _, statErr := os.Stat(t.Path); statErr != nil {
			return fmt.Errorf("%s not found at %s", t.Name, t.Path)
		}
	}
	return nil
}

// Run invokes the tool and returns its stdout. The invocation is bounded
// by the tool's timeout layered on top of ctx; expiry kills the process
// and is reported like a non-zero exit. Stderr is captured into the error.
func (t *Tool) Run(ctx context.Context, args ...string) (string, error) {
	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, t.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %s", t.Name, t.Timeout)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%s failed: %w\nstderr: %s", t.Name, err, truncate(detail, 2000))
		}
		return "", fmt.Errorf("%s failed: %w", t.Name, err)
	}
	return stdout.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
