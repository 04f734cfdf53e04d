package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ini"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/orchestrator"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/testutil"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

func createInstance(t *testing.T, f *fixture, name string) string {
	t.Helper()
	_, err := f.orchestrator(t, nil).Create(context.Background(), f.request(name))
	require.NoError(t, err)
	return filepath.Join(f.root, "projects", name)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	dir := createInstance(t, f, "MyMod")

	// the user's own work and a leftover download
	testutil.WriteTree(t, dir, map[string]string{
		"Plugins/ConvAI/Stale.txt":            "old",
		"Content/ConvaiConveniencePack/Old.u": "old",
		"ConvaiEssentials/leftover.zip":       "old",
		"Content/MyLevel.umap":                "mine",
	})

	newEngine := unreal.Engine{Path: f.engine.Path, Version: "5.6"}
	o := f.orchestrator(t, nil)
	report, err := o.Update(context.Background(), orchestrator.UpdateRequest{ProjectDir: dir, Engine: newEngine})
	require.NoError(t, err)
	assert.Equal(t, orchestrator.StageReady, o.Stage())
	assert.Equal(t, "MyMod", report.ProjectName)
	assert.Equal(t, "ModContent", report.PluginName)

	assert.NoFileExists(t, filepath.Join(dir, "Plugins", "ConvAI", "Stale.txt"))
	assert.FileExists(t, filepath.Join(dir, "Plugins", "ConvAI", "ConvAI.uplugin"))
	assert.NoFileExists(t, filepath.Join(dir, "Content", "ConvaiConveniencePack", "Old.u"))
	assert.FileExists(t, filepath.Join(dir, "Content", "ConvaiConveniencePack", "Maps", "Demo.umap"))
	assert.NoFileExists(t, filepath.Join(dir, "ConvaiEssentials", "leftover.zip"))
	assert.FileExists(t, filepath.Join(dir, "Content", "MyLevel.umap"))
	assert.Contains(t, report.Removed, filepath.Join(dir, "ConvaiEssentials", "leftover.zip"))

	// stored key kept when none supplied
	engineIni, err := ini.Load(filesystem.NewOS(), filepath.Join(dir, "Config", "DefaultEngine.ini"))
	require.NoError(t, err)
	key, ok := engineIni.Lookup(unreal.ConvaiSettingsSection, unreal.APIKeyName)
	require.True(t, ok)
	assert.Equal(t, apiKey, key)

	uproject := readJSON(t, filepath.Join(dir, "MyMod.uproject"))
	assert.Equal(t, "5.6", uproject["EngineAssociation"])
	assert.Len(t, uproject["Plugins"], 3)

	m, err := metadata.Read(filesystem.NewOS(), filepath.Join(dir, "ConvaiEssentials", metadata.DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, "5.6", m.EngineVersion)
	assert.Equal(t, metadata.AssetScene, m.AssetType)
}

func TestUpdateReplacesAPIKey(t *testing.T) {
	f := newFixture(t)
	dir := createInstance(t, f, "MyMod")
	newKey := "fedcba9876543210fedcba9876543210"

	_, err := f.orchestrator(t, nil).Update(context.Background(), orchestrator.UpdateRequest{
		ProjectDir: dir,
		Engine:     f.engine,
		APIKey:     newKey,
	})
	require.NoError(t, err)

	engineIni, err := ini.Load(filesystem.NewOS(), filepath.Join(dir, "Config", "DefaultEngine.ini"))
	require.NoError(t, err)
	key, _ := engineIni.Lookup(unreal.ConvaiSettingsSection, unreal.APIKeyName)
	assert.Equal(t, newKey, key)
}

func TestUpdateRecreatesMissingContentPlugin(t *testing.T) {
	f := newFixture(t)
	dir := createInstance(t, f, "MyMod")
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "Plugins", "ModContent")))

	_, err := f.orchestrator(t, nil).Update(context.Background(), orchestrator.UpdateRequest{ProjectDir: dir, Engine: f.engine})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Plugins", "ModContent", "ModContent.uplugin"))
}

func TestUpdateIsRepeatable(t *testing.T) {
	f := newFixture(t)
	dir := createInstance(t, f, "MyMod")
	o := f.orchestrator(t, nil)

	_, err := o.Update(context.Background(), orchestrator.UpdateRequest{ProjectDir: dir, Engine: f.engine})
	require.NoError(t, err)
	first := testutil.ReadTree(t, dir)

	_, err = o.Update(context.Background(), orchestrator.UpdateRequest{ProjectDir: dir, Engine: f.engine})
	require.NoError(t, err)
	assert.Equal(t, first, testutil.ReadTree(t, dir))
}

func TestUpdateWithoutMetadata(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.root, "projects", "Plain")
	testutil.WriteTree(t, dir, map[string]string{"Plain.uproject": "{}"})

	_, err := f.orchestrator(t, nil).Update(context.Background(), orchestrator.UpdateRequest{ProjectDir: dir, Engine: f.engine})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestUpdateInvalidMetadata(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.root, "projects", "Broken")
	testutil.WriteTree(t, dir, map[string]string{
		"Broken.uproject":                       "{}",
		"ConvaiEssentials/ModdingMetaData.json": `{"project_name": "Broken", "plugin_name": "X", "asset_type": "Level"}`,
	})

	_, err := f.orchestrator(t, nil).Update(context.Background(), orchestrator.UpdateRequest{ProjectDir: dir, Engine: f.engine})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMetadata))
}

func TestUpdateMissingProjectDir(t *testing.T) {
	f := newFixture(t)
	_, err := f.orchestrator(t, nil).Update(context.Background(), orchestrator.UpdateRequest{
		ProjectDir: filepath.Join(f.root, "missing"),
		Engine:     f.engine,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
