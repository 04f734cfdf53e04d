package orchestrator_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/build"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/fetch"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ini"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/orchestrator"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/testutil"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

const apiKey = "0123456789abcdef0123456789abcdef"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	root     string
	engine   unreal.Engine
	cfg      *config.Config
	archives string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	engineDir := filepath.Join(root, "UE_5.5")
	testutil.WriteTree(t, filepath.Join(engineDir, "Templates", "TP_Blank"), map[string]string{
		"TP_Blank.uproject":                 `{"FileVersion": 3, "EngineAssociation": "5.3", "Modules": [{"Name": "TP_Blank"}]}`,
		"Source/TP_Blank/TP_Blank.Build.cs": "public class TP_Blank : ModuleRules {}\n",
		"Source/TP_Blank/tp_blank.h":        "#pragma once // tp_blank TP_BLANK\n",
		"Config/DefaultEngine.ini":          "[/Script/EngineSettings.GameMapsSettings]\nGameDefaultMap=/Game/Maps/Main\n",
		"Content/.keep":                     "",
	})

	archives := filepath.Join(root, "archives")
	testutil.WriteZip(t, filepath.Join(archives, "convai.zip"), map[string]string{
		"Convai/ConvAI.uplugin":                      `{"FileVersion": 3, "EngineVersion": "5.3.0", "FriendlyName": "Convai"}`,
		"Convai/Source/Convai/Convai.Build.cs":       "const bool bEnableConvaiHTTP = false;\nbUsePrecompiled = true;\n",
		"Convai/Content/MetaHumans/MH_Face.uasset":   "mh",
		"Convai/Content/Blueprints/BP_Player.uasset": "bp",
	})
	testutil.WriteZip(t, filepath.Join(archives, "pak.zip"), map[string]string{
		"ConvaiPakManager/ConvaiPakManager.uplugin":                `{"FileVersion": 3}`,
		"ConvaiPakManager/Content/Editor/ConvaiPakUploader.uasset": "uploader",
	})
	testutil.WriteZip(t, filepath.Join(archives, "ccpack.zip"), map[string]string{
		"ConvaiConveniencePack/Maps/Demo.umap": "map",
	})
	testutil.WriteZip(t, filepath.Join(archives, "reallusion.zip"), map[string]string{
		"Reallusion/CC_Base.uasset": "cc",
	})

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Project.RequiredPlugins = []string{"ConvAI", "ConvaiPakManager"}
	cfg.Dependencies = []config.Dependency{
		{Name: "convai", Kind: config.KindPlugin, Descriptor: "ConvAI.uplugin", PostProcess: true,
			Source: config.Source{Type: config.SourceLocal, Path: filepath.Join(archives, "convai.zip")}},
		{Name: "pak", Kind: config.KindPlugin, Descriptor: "ConvaiPakManager.uplugin",
			Source: config.Source{Type: config.SourceLocal, Path: filepath.Join(archives, "pak.zip")}},
		{Name: "ccpack", Kind: config.KindContent, Target: "ConvaiConveniencePack",
			Source: config.Source{Type: config.SourceLocal, Path: filepath.Join(archives, "ccpack.zip")}},
		{Name: "reallusion", Kind: config.KindContent, Target: "ConvaiReallusion", Condition: config.ConditionAvatarNonMetaHuman,
			Source: config.Source{Type: config.SourceLocal, Path: filepath.Join(archives, "reallusion.zip")}},
	}

	return &fixture{
		root:     root,
		engine:   unreal.Engine{Path: engineDir, Version: "5.5"},
		cfg:      cfg,
		archives: archives,
	}
}

func (f *fixture) orchestrator(t *testing.T, builder build.Invoker) *orchestrator.Orchestrator {
	t.Helper()
	fetcher, err := fetch.New(fetch.Options{Download: f.cfg.Download})
	require.NoError(t, err)
	o, err := orchestrator.New(orchestrator.Options{
		Config:      f.cfg,
		Fetcher:     fetcher,
		Builder:     builder,
		ToolVersion: "1.2.3",
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) request(name string) orchestrator.CreateRequest {
	return orchestrator.CreateRequest{
		Root:        filepath.Join(f.root, "projects"),
		ProjectName: name,
		Engine:      f.engine,
		APIKey:      apiKey,
		AssetType:   metadata.AssetScene,
		PluginName:  "ModContent",
	}
}

func readJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, nil)

	report, err := o.Create(context.Background(), f.request("MyMod"))
	require.NoError(t, err)
	assert.Equal(t, orchestrator.StageReady, o.Stage())
	assert.Equal(t, orchestrator.StageReady, report.Stage)

	dir := filepath.Join(f.root, "projects", "MyMod")
	assert.Equal(t, dir, report.ProjectDir)

	// identifiers
	assert.FileExists(t, filepath.Join(dir, "MyMod.uproject"))
	assert.NoFileExists(t, filepath.Join(dir, "TP_Blank.uproject"))
	assert.FileExists(t, filepath.Join(dir, "Source", "MyMod", "MyMod.Build.cs"))
	header, err := os.ReadFile(filepath.Join(dir, "Source", "MyMod", "mymod.h"))
	require.NoError(t, err)
	assert.Equal(t, "#pragma once // mymod MYMOD\n", string(header))

	uproject := readJSON(t, filepath.Join(dir, "MyMod.uproject"))
	assert.Equal(t, "5.5", uproject["EngineAssociation"])
	var enabled []string
	for _, p := range uproject["Plugins"].([]interface{}) {
		plugin := p.(map[string]interface{})
		assert.Equal(t, true, plugin["Enabled"])
		enabled = append(enabled, plugin["Name"].(string))
	}
	assert.Equal(t, []string{"ConvAI", "ConvaiPakManager", "ModContent"}, enabled)

	// settings
	engineIni, err := ini.Load(filesystem.NewOS(), filepath.Join(dir, "Config", "DefaultEngine.ini"))
	require.NoError(t, err)
	key, ok := engineIni.Lookup(unreal.ConvaiSettingsSection, unreal.APIKeyName)
	require.True(t, ok)
	assert.Equal(t, apiKey, key)
	maps, ok := engineIni.Lookup("[/Script/EngineSettings.GameMapsSettings]", "GameDefaultMap")
	require.True(t, ok)
	assert.Equal(t, "/Game/Maps/Main", maps)
	assert.FileExists(t, filepath.Join(dir, "Config", "DefaultGame.ini"))
	assert.FileExists(t, filepath.Join(dir, "Config", "DefaultInput.ini"))

	// content plugin
	assert.FileExists(t, filepath.Join(dir, "Plugins", "ModContent", "ModContent.uplugin"))

	// dependencies
	corePlugin := readJSON(t, filepath.Join(dir, "Plugins", "ConvAI", "ConvAI.uplugin"))
	assert.NotContains(t, corePlugin, "EngineVersion")
	buildFile, err := os.ReadFile(filepath.Join(dir, "Plugins", "ConvAI", "Source", "Convai", "Convai.Build.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(buildFile), "const bool bEnableConvaiHTTP = true;")
	assert.Contains(t, string(buildFile), "bUsePrecompiled = false;")
	assert.NoDirExists(t, filepath.Join(dir, "Plugins", "ConvAI", "Content", "MetaHumans"))
	assert.FileExists(t, filepath.Join(dir, "Plugins", "ConvAI", "Content", "Blueprints", "BP_Player.uasset"))
	assert.FileExists(t, filepath.Join(dir, "Content", "ConvaiConveniencePack", "Maps", "Demo.umap"))
	assert.NoDirExists(t, filepath.Join(dir, "Content", "ConvaiReallusion"))
	assert.FileExists(t, filepath.Join(dir, "Content", "Editor", "ConvaiPakUploader.uasset"))
	assert.Len(t, report.Installed, 3)
	assert.FileExists(t, filepath.Join(dir, "ConvaiEssentials", "convai.zip"))

	// metadata
	m, err := metadata.Read(filesystem.NewOS(), filepath.Join(dir, "ConvaiEssentials", metadata.DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, "MyMod", m.ProjectName)
	assert.Equal(t, "ModContent", m.PluginName)
	assert.Equal(t, metadata.AssetScene, m.AssetType)
	assert.Equal(t, "5.5", m.EngineVersion)
	assert.Equal(t, "1.2.3", m.ToolVersion)
	assert.True(t, fixedNow.Equal(m.CreatedAt))
}

func TestCreateAvatarInstallsConditionalContent(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, nil)

	req := f.request("Avatar")
	req.AssetType = metadata.AssetAvatar
	_, err := o.Create(context.Background(), req)
	require.NoError(t, err)

	dir := filepath.Join(f.root, "projects", "Avatar")
	assert.FileExists(t, filepath.Join(dir, "Content", "ConvaiReallusion", "CC_Base.uasset"))
}

func TestCreateMetaHumanKeepsMetaHumanContent(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, nil)

	req := f.request("Human")
	req.AssetType = metadata.AssetAvatar
	req.IsMetaHuman = true
	_, err := o.Create(context.Background(), req)
	require.NoError(t, err)

	dir := filepath.Join(f.root, "projects", "Human")
	assert.FileExists(t, filepath.Join(dir, "Plugins", "ConvAI", "Content", "MetaHumans", "MH_Face.uasset"))
	assert.NoDirExists(t, filepath.Join(dir, "Content", "ConvaiReallusion"))
}

func TestCreateGeneratesPluginName(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, nil)

	req := f.request("Generated")
	req.PluginName = ""
	report, err := o.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, report.PluginName)
	assert.DirExists(t, filepath.Join(f.root, "projects", "Generated", "Plugins", report.PluginName))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*orchestrator.CreateRequest)
	}{
		{"empty name", func(r *orchestrator.CreateRequest) { r.ProjectName = "" }},
		{"name too long", func(r *orchestrator.CreateRequest) { r.ProjectName = "ThisNameIsFarTooLongToUse" }},
		{"name with dash", func(r *orchestrator.CreateRequest) { r.ProjectName = "my-mod" }},
		{"bad asset type", func(r *orchestrator.CreateRequest) { r.AssetType = "Level" }},
		{"no engine", func(r *orchestrator.CreateRequest) { r.Engine = unreal.Engine{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			o := f.orchestrator(t, nil)
			req := f.request("MyMod")
			tt.modify(&req)

			report, err := o.Create(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.Equal(t, orchestrator.StageUninitialized, o.Stage())
			assert.NoDirExists(t, filepath.Join(f.root, "projects", "MyMod"))
		})
	}
}

func TestCreateExistingDestination(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, nil)
	testutil.WriteTree(t, filepath.Join(f.root, "projects", "MyMod"), map[string]string{"keep.txt": "mine"})

	_, err := o.Create(context.Background(), f.request("MyMod"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	assert.Equal(t, orchestrator.StageStructureCopied.String(), errors.Stage(err))
	assert.Equal(t, orchestrator.StageUninitialized, o.Stage())
	testutil.AssertTree(t, filepath.Join(f.root, "projects", "MyMod"), map[string]string{"keep.txt": "mine"})
}

func TestCreateTemplateMissing(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(t, nil)
	req := f.request("MyMod")
	req.Engine.Path = filepath.Join(f.root, "nowhere")

	_, err := o.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateMissing))
	assert.Equal(t, orchestrator.StageUninitialized, o.Stage())
}

func TestCreateStopsAtFailingStage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.archives, "pak.zip")))
	o := f.orchestrator(t, nil)

	report, err := o.Create(context.Background(), f.request("MyMod"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, orchestrator.StageArchivesInstalled.String(), errors.Stage(err))
	assert.Equal(t, orchestrator.StageConfigsMerged, o.Stage())
	require.NotNil(t, report)
	assert.Equal(t, orchestrator.StageConfigsMerged, report.Stage)

	// completed stages are kept
	dir := filepath.Join(f.root, "projects", "MyMod")
	assert.FileExists(t, filepath.Join(dir, "MyMod.uproject"))
	assert.FileExists(t, filepath.Join(dir, "Plugins", "ConvAI", "ConvAI.uplugin"))
	assert.NoFileExists(t, filepath.Join(dir, "ConvaiEssentials", metadata.DefaultFileName))
}

func TestCreateCorruptArchive(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.archives, "ccpack.zip"), []byte("not a zip"), 0644))
	o := f.orchestrator(t, nil)

	_, err := o.Create(context.Background(), f.request("MyMod"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArchiveCorrupt))
	assert.Equal(t, orchestrator.StageArchivesInstalled.String(), errors.Stage(err))
}

type fakeBuilder struct {
	requests []build.Request
	err      error
}

func (b *fakeBuilder) Invoke(ctx context.Context, req build.Request) (*build.Result, error) {
	b.requests = append(b.requests, req)
	if b.err != nil {
		return &build.Result{ExitCode: 6}, b.err
	}
	return &build.Result{Tool: "ubt", ExitCode: 0}, nil
}

func TestCreateBuilds(t *testing.T) {
	f := newFixture(t)
	builder := &fakeBuilder{}
	o := f.orchestrator(t, builder)

	req := f.request("MyMod")
	req.Build = true
	report, err := o.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, builder.requests, 1)
	assert.Equal(t, build.Request{
		EngineDir:   f.engine.Path,
		ProjectDir:  filepath.Join(f.root, "projects", "MyMod"),
		ProjectName: "MyMod",
	}, builder.requests[0])
	require.NotNil(t, report.Build)
	assert.True(t, report.Build.Succeeded())
}

func TestCreateBuildFailureKeepsReadyInstance(t *testing.T) {
	f := newFixture(t)
	builder := &fakeBuilder{err: errors.New(errors.ErrBuild, "exit status 6")}
	o := f.orchestrator(t, builder)

	req := f.request("MyMod")
	req.Build = true
	_, err := o.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBuild))
	assert.Equal(t, orchestrator.StageBuild, errors.Stage(err))
	assert.Equal(t, orchestrator.StageReady, o.Stage())
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := orchestrator.New(orchestrator.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	cfg, err := config.Default()
	require.NoError(t, err)
	_, err = orchestrator.New(orchestrator.Options{Config: cfg})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "uninitialized", orchestrator.StageUninitialized.String())
	assert.Equal(t, "structure-copied", orchestrator.StageStructureCopied.String())
	assert.Equal(t, "identifiers-rewritten", orchestrator.StageIdentifiersRewritten.String())
	assert.Equal(t, "configs-merged", orchestrator.StageConfigsMerged.String())
	assert.Equal(t, "archives-installed", orchestrator.StageArchivesInstalled.String())
	assert.Equal(t, "ready", orchestrator.StageReady.String())

	text, err := orchestrator.StageReady.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ready", string(text))
}
