package unreal

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

const keyEngineVersion = "EngineVersion"

// ContentPlugin is the descriptor written for a content-only plugin
type ContentPlugin struct {
	FileVersion       int    `json:"FileVersion"`
	Version           int    `json:"Version"`
	VersionName       string `json:"VersionName"`
	FriendlyName      string `json:"FriendlyName"`
	Description       string `json:"Description"`
	Category          string `json:"Category"`
	CreatedBy         string `json:"CreatedBy"`
	CanContainContent bool   `json:"CanContainContent"`
	Installed         bool   `json:"Installed"`
}

// NewContentPlugin returns the descriptor for a content-only plugin
func NewContentPlugin(name string) ContentPlugin {
	return ContentPlugin{
		FileVersion:       3,
		Version:           1,
		VersionName:       "1.0",
		FriendlyName:      name,
		Description:       name + " content-only plugin.",
		Category:          "Other",
		CreatedBy:         "Convai modding tool",
		CanContainContent: true,
		Installed:         false,
	}
}

// CreateContentPlugin scaffolds <pluginsDir>/<name>/<name>.uplugin with an
// empty Content directory and returns the plugin directory.
func CreateContentPlugin(fsys filesystem.FS, pluginsDir, name string) (string, error) {
	dir := filepath.Join(pluginsDir, name)
	content := filepath.Join(dir, "Content")
	if err := fsys.MkdirAll(content, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", content).WithPath(content)
	}

	data, err := marshalIndent(NewContentPlugin(name))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "cannot encode descriptor for %s", name)
	}
	descriptor := filepath.Join(dir, name+PluginExt)
	if err := fsys.WriteFile(descriptor, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", descriptor).WithPath(descriptor)
	}

	log := logging.GetLogger("unreal")
	log.Info().Str("plugin", name).Str("path", dir).Msg("Created content plugin")
	return dir, nil
}

// FindPluginDir returns the directory under pluginsDir that directly holds
// the given descriptor file, e.g. "ConvAI.uplugin". Archive authors name the
// folder freely, so only the descriptor is trusted. The bool is false when
// no plugin matches.
func FindPluginDir(fsys filesystem.FS, pluginsDir, descriptor string) (string, bool, error) {
	entries, err := fsys.ReadDir(pluginsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", pluginsDir).WithPath(pluginsDir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(pluginsDir, entry.Name())
		if filesystem.Exists(fsys, filepath.Join(dir, descriptor)) {
			return dir, true, nil
		}
	}
	return "", false, nil
}

// StripEngineVersion removes the EngineVersion key from a .uplugin so the
// plugin loads on any engine build. It reports whether the key was present.
func StripEngineVersion(fsys filesystem.FS, uplugin string) (bool, error) {
	log := logging.GetLogger("unreal")
	obj, err := ReadDescriptor(fsys, uplugin)
	if err != nil {
		return false, err
	}
	if !obj.Delete(keyEngineVersion) {
		log.Debug().Str("path", uplugin).Msg("EngineVersion already absent")
		return false, nil
	}
	if err := WriteDescriptor(fsys, uplugin, obj); err != nil {
		return false, err
	}
	log.Info().Str("path", uplugin).Msg("Removed EngineVersion")
	return true, nil
}

// BuildRule is a regular expression rewrite applied to a Build.cs file
type BuildRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// DefaultBuildRules force the core plugin to build from source with its
// HTTP module enabled
var DefaultBuildRules = []BuildRule{
	{
		Name:        "bEnableConvaiHTTP",
		Pattern:     regexp.MustCompile(`const\s+bool\s+bEnableConvaiHTTP\s*=\s*(true|false)\s*;`),
		Replacement: "const bool bEnableConvaiHTTP = true;",
	},
	{
		Name:        "bUsePrecompiled",
		Pattern:     regexp.MustCompile(`bUsePrecompiled\s*=\s*(true|false)\s*;`),
		Replacement: "bUsePrecompiled = false;",
	},
}

// PatchBuildFile applies rules to the Build.cs file at path. Rules whose
// pattern does not occur are reported in missing and logged. The file is
// only written when at least one rule matched.
func PatchBuildFile(fsys filesystem.FS, path string, rules []BuildRule) (missing []string, err error) {
	log := logging.GetLogger("unreal")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read build file %s", path).WithPath(path)
	}
	content := string(data)
	matched := false
	for _, rule := range rules {
		if !rule.Pattern.MatchString(content) {
			log.Warn().Str("path", path).Str("setting", rule.Name).Msg("Build setting not found")
			missing = append(missing, rule.Name)
			continue
		}
		content = rule.Pattern.ReplaceAllLiteralString(content, rule.Replacement)
		matched = true
	}
	if !matched {
		return missing, nil
	}
	if content == string(data) {
		log.Debug().Str("path", path).Msg("Build file already patched")
		return missing, nil
	}
	if err := fsys.WriteFile(path, []byte(content), 0644); err != nil {
		return missing, errors.Wrapf(err, errors.ErrFileWrite, "cannot write build file %s", path).WithPath(path)
	}
	log.Info().Str("path", path).Msg("Patched build file")
	return missing, nil
}
