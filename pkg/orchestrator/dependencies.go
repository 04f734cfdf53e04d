package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/archive"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

// flavor is what decides which conditional dependencies apply
type flavor struct {
	assetType   string
	isMetaHuman bool
}

func (f flavor) applies(dep config.Dependency) bool {
	switch dep.Condition {
	case "":
		return true
	case config.ConditionAvatarNonMetaHuman:
		return f.assetType == metadata.AssetAvatar && !f.isMetaHuman
	default:
		return false
	}
}

// dependencies returns the configured dependencies that apply to f
func (o *Orchestrator) dependencies(f flavor) []config.Dependency {
	var deps []config.Dependency
	for _, dep := range o.cfg.Dependencies {
		if f.applies(dep) {
			deps = append(deps, dep)
			continue
		}
		o.logger.Debug().Str("dependency", dep.Name).Str("condition", dep.Condition).Msg("Dependency does not apply")
	}
	return deps
}

// installDependencies fetches every applicable dependency into the
// essentials directory and installs it into the instance
func (o *Orchestrator) installDependencies(ctx context.Context, l layout, f flavor, report *Report) error {
	for _, dep := range o.dependencies(f) {
		o.logger.Info().Str("dependency", dep.Name).Str("source", dep.Source.Type).Msg("Installing dependency")

		archivePath, err := o.fetcher.FetchArchive(ctx, dep.Source, l.essentialsDir())
		if err != nil {
			return err
		}

		unit := InstalledUnit{Dependency: dep.Name, Kind: dep.Kind, Archive: archivePath}
		switch dep.Kind {
		case config.KindPlugin:
			res, err := archive.Install(archive.InstallOptions{
				ArchivePath:   archivePath,
				DestRoot:      l.pluginsDir(),
				DescriptorExt: o.cfg.Project.DescriptorExt,
				FileSystem:    o.fs,
			})
			if err != nil {
				return err
			}
			unit.Path = res.Path
			unit.Candidates = res.Candidates
			if res.Ambiguous() {
				report.warn(fmt.Sprintf("%s: archive holds %d descriptors, installed %s", dep.Name, len(res.Candidates), res.UnitName))
			}
			if dep.Descriptor != "" && !strings.EqualFold(filepath.Base(res.Descriptor), dep.Descriptor) {
				report.warn(fmt.Sprintf("%s: expected descriptor %s, archive provided %s", dep.Name, dep.Descriptor, filepath.Base(res.Descriptor)))
			}
		case config.KindContent:
			target := filepath.Join(l.contentDir(), dep.Target)
			if err := archive.ExtractInto(o.fs, archivePath, target); err != nil {
				return err
			}
			unit.Path = target
		default:
			return errors.Newf(errors.ErrConfigValid, "dependency %s has unknown kind %q", dep.Name, dep.Kind)
		}
		report.Installed = append(report.Installed, unit)

		if dep.PostProcess {
			if err := o.postProcess(l, dep, report); err != nil {
				return err
			}
		}
	}
	return nil
}

// postProcess makes an installed plugin build from source on any engine
// version: EngineVersion is dropped from its descriptor and its build rules
// are patched
func (o *Orchestrator) postProcess(l layout, dep config.Dependency, report *Report) error {
	dir, ok, err := unreal.FindPluginDir(o.fs, l.pluginsDir(), dep.Descriptor)
	if err != nil {
		return err
	}
	if !ok {
		report.warn(fmt.Sprintf("%s: plugin with %s not found, skipped post-processing", dep.Name, dep.Descriptor))
		return nil
	}

	if _, err := unreal.StripEngineVersion(o.fs, filepath.Join(dir, dep.Descriptor)); err != nil {
		return err
	}

	buildFile := filepath.Join(dir, filepath.FromSlash(o.cfg.Assets.CoreBuildFile))
	if !filesystem.Exists(o.fs, buildFile) {
		report.warn(fmt.Sprintf("%s: build file %s not found", dep.Name, o.cfg.Assets.CoreBuildFile))
		return nil
	}
	missing, err := unreal.PatchBuildFile(o.fs, buildFile, unreal.DefaultBuildRules)
	if err != nil {
		return err
	}
	for _, name := range missing {
		report.warn(fmt.Sprintf("%s: build setting %s not found in %s", dep.Name, name, o.cfg.Assets.CoreBuildFile))
	}
	return nil
}

// configureAssets copies the uploader asset from the pak manager plugin into
// the instance and drops MetaHuman content when the instance does not use it
func (o *Orchestrator) configureAssets(l layout, f flavor, report *Report) error {
	assets := o.cfg.Assets

	pakDir, ok, err := unreal.FindPluginDir(o.fs, l.pluginsDir(), assets.PakManagerDescriptor)
	if err != nil {
		return err
	}
	if ok {
		src := filepath.Join(pakDir, o.cfg.Project.ContentDir, assets.EditorDir, assets.UploaderAsset)
		dst := filepath.Join(l.contentDir(), assets.EditorDir, assets.UploaderAsset)
		if filesystem.Exists(o.fs, src) {
			if err := filesystem.CopyFile(o.fs, src, dst); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot copy %s", assets.UploaderAsset).WithPath(dst)
			}
		} else {
			report.warn(fmt.Sprintf("%s not found at %s", assets.UploaderAsset, src))
		}
	} else {
		report.warn(fmt.Sprintf("plugin with %s not found, uploader asset not configured", assets.PakManagerDescriptor))
	}

	if f.isMetaHuman {
		return nil
	}
	coreDir, ok, err := unreal.FindPluginDir(o.fs, l.pluginsDir(), assets.CorePluginDescriptor)
	if err != nil || !ok {
		return err
	}
	mh := filepath.Join(coreDir, o.cfg.Project.ContentDir, assets.MetaHumansDir)
	if filesystem.Exists(o.fs, mh) {
		if err := o.fs.RemoveAll(mh); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove %s", mh).WithPath(mh)
		}
		report.Removed = append(report.Removed, mh)
		o.logger.Info().Str("path", mh).Msg("Removed MetaHuman content")
	}
	return nil
}

// enablePlugins lists the required plugins and the instance's own content
// plugin in the project descriptor
func (o *Orchestrator) enablePlugins(l layout, pluginName string, report *Report) error {
	var refs []unreal.PluginRef
	for _, name := range o.cfg.Project.RequiredPlugins {
		refs = append(refs, unreal.PluginRef{Name: name})
	}
	refs = append(refs, unreal.PluginRef{Name: pluginName})

	added, err := unreal.EnablePlugins(o.fs, l.uproject(), refs...)
	if err != nil {
		return err
	}
	report.EnabledPlugins = append(report.EnabledPlugins, added...)
	return nil
}

// removeStale deletes everything a previous install run placed in the
// instance: plugin directories found by descriptor, content targets and
// downloaded archives
func (o *Orchestrator) removeStale(l layout, report *Report) error {
	var stale []string
	for _, dep := range o.cfg.Dependencies {
		switch dep.Kind {
		case config.KindPlugin:
			if dep.Descriptor == "" {
				continue
			}
			dir, ok, err := unreal.FindPluginDir(o.fs, l.pluginsDir(), dep.Descriptor)
			if err != nil {
				return err
			}
			if ok {
				stale = append(stale, dir)
			}
		case config.KindContent:
			if target := filepath.Join(l.contentDir(), dep.Target); filesystem.Exists(o.fs, target) {
				stale = append(stale, target)
			}
		}
	}

	entries, err := o.fs.ReadDir(l.essentialsDir())
	if err != nil && filesystem.Exists(o.fs, l.essentialsDir()) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", l.essentialsDir()).WithPath(l.essentialsDir())
	}
	for _, entry := range entries {
		if !entry.IsDir() && isArchive(entry.Name()) {
			stale = append(stale, filepath.Join(l.essentialsDir(), entry.Name()))
		}
	}

	for _, path := range stale {
		if err := o.fs.RemoveAll(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove %s", path).WithPath(path)
		}
		o.logger.Info().Str("path", path).Msg("Removed previous installation")
	}
	report.Removed = append(report.Removed, stale...)
	return nil
}

func isArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".zip", ".tar.gz", ".tgz", ".tar"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
