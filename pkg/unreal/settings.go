package unreal

import (
	"embed"
	"path/filepath"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ini"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

//go:embed settings/*.ini
var settingsFS embed.FS

const (
	// ConvaiSettingsSection holds the API key in DefaultEngine.ini
	ConvaiSettingsSection = "[/Script/Convai.ConvaiSettings]"
	// APIKeyName is the scalar key of the API key
	APIKeyName = "API_Key"

	pluginNamePlaceholder = "<PluginName>"
	apiKeyPlaceholder     = "<ApiKey>"
)

// SettingsFiles are the settings documents managed in every instance, in
// the order they are merged
var SettingsFiles = []string{"DefaultGame.ini", "DefaultEngine.ini", "DefaultInput.ini"}

// SettingsParams fill the placeholders of the desired documents
type SettingsParams struct {
	PluginName string
	// APIKey may be empty, in which case any key already present is kept
	APIKey string
}

// DesiredSettings returns the desired document for one of SettingsFiles
func DesiredSettings(file string, params SettingsParams) (*ini.Document, error) {
	data, err := settingsFS.ReadFile("settings/" + file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "no desired settings for %s", file)
	}
	text := strings.NewReplacer(
		pluginNamePlaceholder, params.PluginName,
		apiKeyPlaceholder, params.APIKey,
	).Replace(string(data))

	doc := ini.Parse(text)
	if params.APIKey == "" {
		if s := doc.Section(ConvaiSettingsSection); s != nil {
			s.Lines = dropKey(s.Lines, APIKeyName)
		}
	}
	return doc, nil
}

func dropKey(lines []string, key string) []string {
	var kept []string
	for _, line := range lines {
		if op, k := ini.ParseLine(line); line != "" && op == ini.OpNone && k == key {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// ApplySettings merges every desired settings document into configDir and
// returns the paths it merged.
func ApplySettings(fsys filesystem.FS, configDir string, params SettingsParams) ([]string, error) {
	log := logging.GetLogger("unreal")

	var merged []string
	for _, file := range SettingsFiles {
		desired, err := DesiredSettings(file, params)
		if err != nil {
			return merged, err
		}
		target := filepath.Join(configDir, file)
		if err := ini.MergeInto(fsys, target, desired); err != nil {
			return merged, err
		}
		merged = append(merged, target)
	}
	log.Info().Str("dir", configDir).Int("files", len(merged)).Msg("Applied project settings")
	return merged, nil
}

// ExistingAPIKey returns the API key stored in the instance's
// DefaultEngine.ini, if any.
func ExistingAPIKey(fsys filesystem.FS, configDir string) (string, bool) {
	doc, err := ini.Load(fsys, filepath.Join(configDir, "DefaultEngine.ini"))
	if err != nil {
		return "", false
	}
	key, ok := doc.Lookup(ConvaiSettingsSection, APIKeyName)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
