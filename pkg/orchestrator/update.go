package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

// UpdateRequest re-applies the baseline to an existing instance
type UpdateRequest struct {
	ProjectDir string
	Engine     unreal.Engine
	// APIKey replaces the stored key; empty keeps the one in DefaultEngine.ini
	APIKey string
	Build  bool
}

// Update brings an existing instance up to date: it rebinds the engine,
// re-merges the settings, replaces every installed dependency with a fresh
// download and refreshes the metadata. The instance's parameters come from
// its metadata, so nothing is asked again.
func (o *Orchestrator) Update(ctx context.Context, req UpdateRequest) (*Report, error) {
	o.stage = StageUninitialized
	if req.Engine.Path == "" || req.Engine.Version == "" {
		return nil, errors.New(errors.ErrInvalidInput, "engine path and version are required")
	}
	if !filesystem.IsDir(o.fs, req.ProjectDir) {
		return nil, errors.Newf(errors.ErrNotFound, "project directory %s does not exist", req.ProjectDir).WithPath(req.ProjectDir)
	}
	if req.APIKey != "" {
		if err := unreal.ValidateAPIKey(req.APIKey); err != nil {
			return nil, err
		}
	}

	metaPath := metadata.Path(req.ProjectDir, o.cfg.Project.EssentialsDir, o.cfg.Project.MetadataFile)
	m, err := metadata.Read(o.fs, metaPath)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	l := layout{dir: req.ProjectDir, name: m.ProjectName, cfg: o.cfg}
	f := flavor{assetType: m.AssetType, isMetaHuman: m.IsMetaHuman}
	report := &Report{
		ProjectName:   m.ProjectName,
		ProjectDir:    l.dir,
		PluginName:    m.PluginName,
		EngineVersion: req.Engine.Version,
		Metadata:      m,
	}
	if !filesystem.Exists(o.fs, l.uproject()) {
		return report, errors.Newf(errors.ErrNotFound, "project file %s not found", l.uproject()).WithPath(l.uproject())
	}
	o.logger.Info().
		Str("project", m.ProjectName).
		Str("dir", l.dir).
		Str("engine", req.Engine.Version).
		Msg("Updating instance")

	// the structure exists; the identifiers were rewritten when it was created
	o.advance(StageStructureCopied, report)

	if err := o.step(StageIdentifiersRewritten, report, func() error {
		_, err := unreal.SetEngineAssociation(o.fs, l.uproject(), req.Engine.Version)
		return err
	}); err != nil {
		return report, err
	}

	if err := o.step(StageConfigsMerged, report, func() error {
		if !filesystem.IsDir(o.fs, filepath.Join(l.pluginsDir(), m.PluginName)) {
			if _, err := unreal.CreateContentPlugin(o.fs, l.pluginsDir(), m.PluginName); err != nil {
				return err
			}
		}
		apiKey := req.APIKey
		if apiKey == "" {
			if existing, ok := unreal.ExistingAPIKey(o.fs, l.configDir()); ok {
				apiKey = existing
			} else {
				report.warn("no API key stored in the instance and none supplied")
			}
		}
		merged, err := unreal.ApplySettings(o.fs, l.configDir(), unreal.SettingsParams{PluginName: m.PluginName, APIKey: apiKey})
		report.Settings = merged
		return err
	}); err != nil {
		return report, err
	}

	if err := o.step(StageArchivesInstalled, report, func() error {
		if err := o.removeStale(l, report); err != nil {
			return err
		}
		if err := o.installDependencies(ctx, l, f, report); err != nil {
			return err
		}
		if err := o.enablePlugins(l, m.PluginName, report); err != nil {
			return err
		}
		return o.configureAssets(l, f, report)
	}); err != nil {
		return report, err
	}

	if err := o.step(StageReady, report, func() error {
		m.EngineVersion = req.Engine.Version
		m.ToolVersion = o.toolVersion
		return metadata.Write(o.fs, metaPath, m, o.now())
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
