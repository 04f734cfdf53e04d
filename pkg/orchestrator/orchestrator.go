// Package orchestrator materializes and updates instances. It composes the
// identifier rewriter, the settings merger and the archive installer into
// one staged run per instance:
//
//	uninitialized -> structure-copied -> identifiers-rewritten ->
//	configs-merged -> archives-installed -> ready
//
// A failing step stops the run at the last stage reached and the error
// carries the stage that failed. Completed stages are not rolled back;
// rewriting and merging are idempotent, so an update run can repair an
// instance left half-way.
package orchestrator

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/build"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/fetch"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

// Options wires an Orchestrator to its collaborators
type Options struct {
	Config     *config.Config
	FileSystem filesystem.FS
	Fetcher    fetch.Fetcher
	// Builder may be nil when no build is ever requested
	Builder     build.Invoker
	ToolVersion string
	Now         func() time.Time
}

// Orchestrator runs create and update flows. One Orchestrator tracks one
// run at a time; it is not safe for concurrent use.
type Orchestrator struct {
	cfg         *config.Config
	fs          filesystem.FS
	fetcher     fetch.Fetcher
	builder     build.Invoker
	toolVersion string
	now         func() time.Time
	stage       Stage
	logger      zerolog.Logger
}

// New returns an Orchestrator
func New(opts Options) (*Orchestrator, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "orchestrator needs a configuration")
	}
	if opts.Fetcher == nil {
		return nil, errors.New(errors.ErrInvalidInput, "orchestrator needs a fetcher")
	}
	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		cfg:         opts.Config,
		fs:          opts.FileSystem,
		fetcher:     opts.Fetcher,
		builder:     opts.Builder,
		toolVersion: opts.ToolVersion,
		now:         opts.Now,
		logger:      logging.GetLogger("orchestrator"),
	}, nil
}

// Stage returns the last stage reached by the current or previous run
func (o *Orchestrator) Stage() Stage {
	return o.stage
}

// advance records that the run reached stage
func (o *Orchestrator) advance(stage Stage, report *Report) {
	o.stage = stage
	report.Stage = stage
	o.logger.Info().Str("stage", stage.String()).Str("project", report.ProjectName).Msg("Stage reached")
}

// step runs fn as the transition into stage, tagging failures with it
func (o *Orchestrator) step(stage Stage, report *Report, fn func() error) error {
	done := logging.LogOperationStart(o.logger, stage.String())
	defer done()
	if err := fn(); err != nil {
		o.logger.Error().Err(err).
			Str("stage", stage.String()).
			Str("reached", o.stage.String()).
			Msg("Stage failed")
		return stageFailed(stage.String(), err)
	}
	o.advance(stage, report)
	return nil
}

// layout resolves the well-known paths of an instance
type layout struct {
	dir  string
	name string
	cfg  *config.Config
}

func (l layout) uproject() string { return unreal.ProjectFile(l.dir, l.name) }
func (l layout) configDir() string {
	return filepath.Join(l.dir, l.cfg.Project.ConfigDir)
}
func (l layout) contentDir() string {
	return filepath.Join(l.dir, l.cfg.Project.ContentDir)
}
func (l layout) pluginsDir() string {
	return filepath.Join(l.dir, l.cfg.Project.PluginsDir)
}
func (l layout) essentialsDir() string {
	return filepath.Join(l.dir, l.cfg.Project.EssentialsDir)
}
func (l layout) metadataFile() string {
	return metadata.Path(l.dir, l.cfg.Project.EssentialsDir, l.cfg.Project.MetadataFile)
}
