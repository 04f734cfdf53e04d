// Package build compiles a materialized instance with the engine's build
// tool. The build is a blocking subprocess; its output is streamed to the
// caller's writers while it runs.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// Request describes one build
type Request struct {
	EngineDir   string
	ProjectDir  string
	ProjectName string
}

// Result reports a finished build
type Result struct {
	Tool     string        `json:"tool" yaml:"tool"`
	Args     []string      `json:"args" yaml:"args"`
	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Succeeded reports whether the build tool exited with status 0
func (r *Result) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// Invoker runs builds
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Result, error)
}

// Builder runs the configured build tool
type Builder struct {
	cfg    config.BuildConfig
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger
}

// NewBuilder returns a Builder streaming tool output to stdout and stderr
func NewBuilder(cfg config.BuildConfig, stdout, stderr io.Writer) *Builder {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Builder{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		logger: logging.GetLogger("build"),
	}
}

// Tool returns the build tool path for an engine installation
func (b *Builder) Tool(engineDir string) string {
	return filepath.Join(engineDir, filepath.FromSlash(b.cfg.ToolPath))
}

// Args returns the build tool arguments for req
func (b *Builder) Args(req Request) []string {
	args := []string{
		fmt.Sprintf("-Project=%s", filepath.Join(req.ProjectDir, req.ProjectName+".uproject")),
		fmt.Sprintf("-Target=%sEditor", req.ProjectName),
		b.cfg.Platform,
		b.cfg.Configuration,
	}
	return append(args, b.cfg.ExtraArgs...)
}

// Invoke runs the build and waits for it. A tool that cannot be found or
// started, and a non-zero exit, are ErrBuild errors; the Result is returned
// in both cases once the tool has run.
func (b *Builder) Invoke(ctx context.Context, req Request) (*Result, error) {
	tool := b.Tool(req.EngineDir)
	if _, err := os.Stat(tool); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBuild, "build tool not found: %s", tool).WithPath(tool)
	}

	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	res := &Result{Tool: tool, Args: b.Args(req)}
	cmd := exec.CommandContext(ctx, tool, res.Args...)
	cmd.Dir = req.ProjectDir
	cmd.Stdout = b.stdout
	cmd.Stderr = b.stderr

	b.logger.Info().
		Str("tool", tool).
		Strs("args", res.Args).
		Msg("Starting project compilation")
	logging.LogCommand(tool, res.Args)

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			b.logger.Error().Int("exitCode", res.ExitCode).Dur("duration", res.Duration).Msg("Compilation failed")
			return res, errors.Newf(errors.ErrBuild, "compilation of %s failed with exit code %d", req.ProjectName, res.ExitCode).
				WithPath(req.ProjectDir).
				WithDetail("exitCode", res.ExitCode)
		}
		return res, errors.Wrapf(err, errors.ErrBuild, "cannot run build tool %s", tool).WithPath(tool)
	}

	b.logger.Info().Dur("duration", res.Duration).Msg("Compilation completed successfully")
	return res, nil
}
