package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/build"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/rewrite"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

// CreateRequest holds everything needed to materialize a new instance
type CreateRequest struct {
	// Root is the directory the instance is created in
	Root        string
	ProjectName string
	Engine      unreal.Engine
	APIKey      string
	AssetType   string
	IsMetaHuman bool
	// PluginName names the instance's content plugin; empty generates one
	PluginName string
	Build      bool
}

func (r CreateRequest) validate(maxNameLength int) error {
	if err := unreal.ValidateProjectName(r.ProjectName, maxNameLength); err != nil {
		return err
	}
	if r.Root == "" {
		return errors.New(errors.ErrInvalidInput, "root directory is required")
	}
	if r.Engine.Path == "" || r.Engine.Version == "" {
		return errors.New(errors.ErrInvalidInput, "engine path and version are required")
	}
	if r.APIKey != "" {
		if err := unreal.ValidateAPIKey(r.APIKey); err != nil {
			return err
		}
	}
	switch r.AssetType {
	case metadata.AssetScene, metadata.AssetAvatar:
	default:
		return errors.Newf(errors.ErrInvalidInput, "asset type must be %s or %s, got %q", metadata.AssetScene, metadata.AssetAvatar, r.AssetType)
	}
	return nil
}

// Create materializes a new instance from the engine's template. The
// destination must not exist. On failure the partially built instance is
// left in place and the error carries the stage that failed.
func (o *Orchestrator) Create(ctx context.Context, req CreateRequest) (*Report, error) {
	o.stage = StageUninitialized
	if err := req.validate(o.cfg.Project.MaxNameLength); err != nil {
		return nil, err
	}

	pluginName := req.PluginName
	if pluginName == "" {
		var err error
		if pluginName, err = unreal.NewPluginName(); err != nil {
			return nil, err
		}
	}

	l := layout{dir: filepath.Join(req.Root, req.ProjectName), name: req.ProjectName, cfg: o.cfg}
	f := flavor{assetType: req.AssetType, isMetaHuman: req.IsMetaHuman}
	report := &Report{
		ProjectName:   req.ProjectName,
		ProjectDir:    l.dir,
		PluginName:    pluginName,
		EngineVersion: req.Engine.Version,
	}
	o.logger.Info().
		Str("project", req.ProjectName).
		Str("dir", l.dir).
		Str("engine", req.Engine.Version).
		Msg("Creating instance")

	if err := o.step(StageStructureCopied, report, func() error {
		return o.copyStructure(req.Engine.Path, l)
	}); err != nil {
		return report, err
	}

	if err := o.step(StageIdentifiersRewritten, report, func() error {
		res, err := rewrite.Rewrite(rewrite.Options{
			Root:           l.dir,
			OldToken:       o.cfg.Engine.TemplateName,
			NewToken:       req.ProjectName,
			TextExtensions: o.cfg.Project.TextExtensions,
			FileSystem:     o.fs,
		})
		report.Rewrite = res
		if err != nil {
			return err
		}
		_, err = unreal.SetEngineAssociation(o.fs, l.uproject(), req.Engine.Version)
		return err
	}); err != nil {
		return report, err
	}

	if err := o.step(StageConfigsMerged, report, func() error {
		if _, err := unreal.CreateContentPlugin(o.fs, l.pluginsDir(), pluginName); err != nil {
			return err
		}
		merged, err := unreal.ApplySettings(o.fs, l.configDir(), unreal.SettingsParams{PluginName: pluginName, APIKey: req.APIKey})
		report.Settings = merged
		return err
	}); err != nil {
		return report, err
	}

	if err := o.step(StageArchivesInstalled, report, func() error {
		if err := o.installDependencies(ctx, l, f, report); err != nil {
			return err
		}
		if err := o.enablePlugins(l, pluginName, report); err != nil {
			return err
		}
		return o.configureAssets(l, f, report)
	}); err != nil {
		return report, err
	}

	if err := o.step(StageReady, report, func() error {
		m := &metadata.Metadata{
			ProjectName:   req.ProjectName,
			PluginName:    pluginName,
			AssetType:     req.AssetType,
			IsMetaHuman:   req.IsMetaHuman,
			EngineVersion: req.Engine.Version,
			ToolVersion:   o.toolVersion,
		}
		report.Metadata = m
		return metadata.Write(o.fs, l.metadataFile(), m, o.now())
	}); err != nil {
		return report, err
	}

	if req.Build {
		if err := o.runBuild(ctx, req.Engine.Path, l, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// copyStructure copies the engine template to the instance directory and
// adds the content directory the template lacks
func (o *Orchestrator) copyStructure(engineDir string, l layout) error {
	if filesystem.Exists(o.fs, l.dir) {
		return errors.Newf(errors.ErrAlreadyExists, "directory already exists: %s", l.dir).WithPath(l.dir)
	}
	template := filepath.Join(engineDir, filepath.FromSlash(o.cfg.Engine.TemplateDir))
	if !filesystem.IsDir(o.fs, template) {
		return errors.Newf(errors.ErrTemplateMissing, "template not found: %s", template).WithPath(template)
	}
	if err := filesystem.CopyTree(o.fs, template, l.dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot copy template to %s", l.dir).WithPath(l.dir)
	}
	if err := o.fs.MkdirAll(l.contentDir(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", l.contentDir()).WithPath(l.contentDir())
	}
	return nil
}

func (o *Orchestrator) runBuild(ctx context.Context, engineDir string, l layout, report *Report) error {
	if o.builder == nil {
		return stageFailed(StageBuild, errors.New(errors.ErrBuild, "no build tool configured"))
	}
	o.logger.Info().Str("project", l.name).Msg("Building instance")
	res, err := o.builder.Invoke(ctx, build.Request{EngineDir: engineDir, ProjectDir: l.dir, ProjectName: l.name})
	report.Build = res
	return stageFailed(StageBuild, err)
}
