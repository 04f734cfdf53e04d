package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/internal/cli"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/testutil"
)

const apiKey = "0123456789abcdef0123456789abcdef"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "dev", decode(t, out)["version"])
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "version", "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRewrite(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"Old/old.txt": "Old old OLD",
		"Old/bin.dat": "Old",
	})

	out, err := run(t, "rewrite", dir, "Old", "New", "--text-ext", ".txt", "--format", "json")
	require.NoError(t, err)
	testutil.AssertTree(t, dir, map[string]string{
		"New/new.txt": "New new NEW",
		"New/bin.dat": "Old",
	})
	assert.NotEmpty(t, decode(t, out)["renamed"])
}

func TestMergeIni(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"target.ini":  "[A]\nx=1\n",
		"desired.ini": "[A]\nx=2\n\n[B]\n+Paths=/Game\n",
	})
	target := filepath.Join(dir, "target.ini")

	out, err := run(t, "merge-ini", target, filepath.Join(dir, "desired.ini"), "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, float64(2), decode(t, out)["sections"])

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "x=2")
	assert.NotContains(t, string(data), "x=1")
	assert.Contains(t, string(data), "+Paths=/Game")
}

func TestMergeIniMissingDesired(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "merge-ini", filepath.Join(dir, "target.ini"), filepath.Join(dir, "missing.ini"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "plugin.zip")
	testutil.WriteZip(t, zipPath, map[string]string{
		"Release/MyPlugin/MyPlugin.uplugin": "{}",
		"Release/MyPlugin/Content/a.uasset": "a",
	})

	out, err := run(t, "install", zipPath, filepath.Join(dir, "Plugins"), "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "MyPlugin", decode(t, out)["unit_name"])
	assert.FileExists(t, filepath.Join(dir, "Plugins", "MyPlugin", "Content", "a.uasset"))
}

func TestInspect(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "MyMod")
	testutil.WriteTree(t, dir, map[string]string{
		"MyMod.uproject":                        `{"FileVersion": 3, "EngineAssociation": "5.5", "Plugins": [{"Name": "ConvAI", "Enabled": true}]}`,
		"ConvaiEssentials/ModdingMetaData.json": `{"project_name": "MyMod", "plugin_name": "ModContent", "asset_type": "Avatar", "is_metahuman": true}`,
	})

	out, err := run(t, "inspect", dir, "--format", "json")
	require.NoError(t, err)
	got := decode(t, out)
	assert.Equal(t, "5.5", got["engine_association"])
	assert.Equal(t, "ModContent", got["metadata"].(map[string]interface{})["plugin_name"])
	assert.Len(t, got["plugins"], 1)
}

func TestInspectWithoutMetadata(t *testing.T) {
	_, err := run(t, "inspect", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moddingtool.toml")

	_, err := run(t, "config", "init", "--output", path, "--format", "text")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[engine]")

	_, err = run(t, "config", "init", "--output", path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	_, err = run(t, "config", "init", "--output", path, "--force")
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[download]\nretries = 7\n"), 0644))

	out, err := run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "retries = 7")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "version", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

// writeEngine lays out a minimal engine installation with a blank template
func writeEngine(t *testing.T, dir string) {
	t.Helper()
	testutil.WriteTree(t, dir, map[string]string{
		"Engine/Source/Runtime/Launch/Resources/Version.h": "#define ENGINE_MAJOR_VERSION\t5\n#define ENGINE_MINOR_VERSION\t5\n",
		"Templates/TP_Blank/TP_Blank.uproject":             `{"FileVersion": 3, "EngineAssociation": "5.3"}`,
		"Templates/TP_Blank/Config/DefaultGame.ini":        "[/Script/EngineSettings.GeneralProjectSettings]\nProjectID=1\n",
	})
}

func writeConfig(t *testing.T, dir, engineDir, archive string) string {
	t.Helper()
	path := filepath.Join(dir, "moddingtool.toml")
	content := fmt.Sprintf(`[engine]
path = %q

[project]
required_plugins = ["ConvAI"]

[[dependencies]]
name = "convai"
kind = "plugin"
descriptor = "ConvAI.uplugin"
[dependencies.source]
type = "local"
path = %q
`, engineDir, archive)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCreateAndUpdate(t *testing.T) {
	root := t.TempDir()
	engineDir := filepath.Join(root, "UE_5.5")
	writeEngine(t, engineDir)
	archive := filepath.Join(root, "convai.zip")
	testutil.WriteZip(t, archive, map[string]string{
		"Convai/ConvAI.uplugin": `{"FileVersion": 3}`,
	})
	cfgPath := writeConfig(t, root, engineDir, archive)
	projects := filepath.Join(root, "projects")

	out, err := run(t, "create",
		"--config", cfgPath,
		"--no-input",
		"--no-build",
		"--format", "json",
		"--name", "MyMod",
		"--api-key", apiKey,
		"--asset-type", "Scene",
		"--plugin-name", "ModContent",
		"--root", projects,
	)
	require.NoError(t, err)
	report := decode(t, out)
	assert.Equal(t, "ready", report["stage"])
	assert.Equal(t, "MyMod", report["project_name"])

	dir := filepath.Join(projects, "MyMod")
	assert.FileExists(t, filepath.Join(dir, "MyMod.uproject"))
	assert.FileExists(t, filepath.Join(dir, "Plugins", "ConvAI", "ConvAI.uplugin"))
	assert.FileExists(t, filepath.Join(dir, "ConvaiEssentials", "ModdingMetaData.json"))

	out, err = run(t, "update", dir,
		"--config", cfgPath,
		"--no-input",
		"--no-build",
		"--format", "json",
	)
	require.NoError(t, err)
	report = decode(t, out)
	assert.Equal(t, "ready", report["stage"])
	assert.Equal(t, "ModContent", report["plugin_name"])
}

func TestCreateWithoutAPIKeyAndNoInput(t *testing.T) {
	root := t.TempDir()
	engineDir := filepath.Join(root, "UE_5.5")
	writeEngine(t, engineDir)
	cfgPath := writeConfig(t, root, engineDir, filepath.Join(root, "convai.zip"))
	t.Setenv("MODDINGTOOL_CONVAI__API_KEY", "")

	_, err := run(t, "create",
		"--config", cfgPath,
		"--no-input",
		"--no-build",
		"--name", "MyMod",
		"--asset-type", "Scene",
		"--root", filepath.Join(root, "projects"),
	)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrompt))
	assert.NoDirExists(t, filepath.Join(root, "projects", "MyMod"))
}

func TestCreateUnsupportedEngine(t *testing.T) {
	root := t.TempDir()
	engineDir := filepath.Join(root, "UE_4.27")
	testutil.WriteTree(t, engineDir, map[string]string{
		"Engine/Source/Runtime/Launch/Resources/Version.h": "#define ENGINE_MAJOR_VERSION 4\n#define ENGINE_MINOR_VERSION 27\n",
	})

	_, err := run(t, "create", "--engine", engineDir, "--no-input", "--name", "MyMod", "--api-key", apiKey, "--asset-type", "Scene")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEngineVersion))
}

func TestDoctorReportsFailures(t *testing.T) {
	out, err := run(t, "doctor", "--engine", filepath.Join(t.TempDir(), "missing"), "--format", "json")
	require.Error(t, err)

	var checks []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &checks))
	require.NotEmpty(t, checks)
	assert.Equal(t, "engine", checks[0]["name"])
	assert.Equal(t, false, checks[0]["ok"])
}
