package unreal

import (
	"encoding/json"
	"path/filepath"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

const (
	// ProjectExt is the extension of project descriptors
	ProjectExt = ".uproject"
	// PluginExt is the extension of plugin descriptors
	PluginExt = ".uplugin"

	keyEngineAssociation = "EngineAssociation"
	keyPlugins           = "Plugins"
)

// PluginRef is one entry of a project's Plugins list
type PluginRef struct {
	Name           string `json:"Name"`
	Enabled        bool   `json:"Enabled"`
	MarketplaceURL string `json:"MarketplaceURL,omitempty"`
}

// ProjectFile returns the descriptor path of the named project in dir
func ProjectFile(dir, name string) string {
	return filepath.Join(dir, name+ProjectExt)
}

// ReadDescriptor loads a .uproject or .uplugin file
func ReadDescriptor(fsys filesystem.FS, path string) (*Object, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path).WithPath(path)
	}
	obj, err := ParseObject(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "%s is not a valid descriptor", path).WithPath(path)
	}
	return obj, nil
}

// WriteDescriptor saves obj to path with four-space indentation
func WriteDescriptor(fsys filesystem.FS, path string, obj *Object) error {
	data, err := obj.MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot encode %s", path).WithPath(path)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).WithPath(path)
	}
	return nil
}

// EngineAssociation returns the engine version a project is bound to
func EngineAssociation(fsys filesystem.FS, uproject string) (string, error) {
	obj, err := ReadDescriptor(fsys, uproject)
	if err != nil {
		return "", err
	}
	var version string
	if _, err := obj.Get(keyEngineAssociation, &version); err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "%s in %s is not a string", keyEngineAssociation, uproject).WithPath(uproject)
	}
	return version, nil
}

// SetEngineAssociation binds a project to an engine version. It reports
// whether the file changed.
func SetEngineAssociation(fsys filesystem.FS, uproject, version string) (bool, error) {
	log := logging.GetLogger("unreal")

	obj, err := ReadDescriptor(fsys, uproject)
	if err != nil {
		return false, err
	}
	var current string
	if _, err := obj.Get(keyEngineAssociation, &current); err == nil && current == version {
		log.Debug().Str("version", version).Msg("Engine association already up to date")
		return false, nil
	}
	if err := obj.Set(keyEngineAssociation, version); err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "cannot encode engine association")
	}
	if err := WriteDescriptor(fsys, uproject, obj); err != nil {
		return false, err
	}
	log.Info().
		Str("project", uproject).
		Str("from", current).
		Str("to", version).
		Msg("Updated engine association")
	return true, nil
}

// EnablePlugins appends an enabled entry to the project's Plugins list for
// every plugin not already listed by name. It returns the names it added.
func EnablePlugins(fsys filesystem.FS, uproject string, plugins ...PluginRef) ([]string, error) {
	log := logging.GetLogger("unreal")

	obj, err := ReadDescriptor(fsys, uproject)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if _, err := obj.Get(keyPlugins, &entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "%s in %s is not a list", keyPlugins, uproject).WithPath(uproject)
	}

	present := map[string]bool{}
	for _, entry := range entries {
		var ref PluginRef
		if err := json.Unmarshal(entry, &ref); err == nil {
			present[ref.Name] = true
		}
	}

	var added []string
	for _, plugin := range plugins {
		if present[plugin.Name] {
			log.Debug().Str("plugin", plugin.Name).Msg("Plugin already enabled")
			continue
		}
		plugin.Enabled = true
		raw, err := marshal(plugin)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "cannot encode plugin %s", plugin.Name)
		}
		entries = append(entries, raw)
		present[plugin.Name] = true
		added = append(added, plugin.Name)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if entries == nil {
		entries = []json.RawMessage{}
	}
	if err := obj.Set(keyPlugins, entries); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode plugin list")
	}
	if err := WriteDescriptor(fsys, uproject, obj); err != nil {
		return nil, err
	}
	log.Info().Strs("plugins", added).Msg("Enabled plugins")
	return added, nil
}
