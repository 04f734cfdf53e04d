package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/archive"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/orchestrator"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/rewrite"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

func TestAddSectionSkipsEmpty(t *testing.T) {
	var v view.View
	v.AddSection(view.Section{Heading: "Nothing"})
	v.AddSection(view.Section{Heading: "Something", Items: view.Items(view.StatusOK, "a")})

	require.Len(t, v.Sections, 1)
	assert.Equal(t, "Something", v.Sections[0].Heading)
}

func TestFromReport(t *testing.T) {
	r := &orchestrator.Report{
		ProjectName:    "MyMod",
		ProjectDir:     "/work/MyMod",
		PluginName:     "Abc",
		EngineVersion:  "5.5",
		Stage:          orchestrator.StageReady,
		EnabledPlugins: []string{"ConvAI"},
		Installed: []orchestrator.InstalledUnit{
			{Dependency: "convai", Kind: "plugin", Path: "/work/MyMod/Plugins/Convai", Candidates: []string{"a.uplugin", "b.uplugin"}},
		},
	}

	v := view.FromReport("Create", r)
	assert.Equal(t, view.StatusOK, v.Status)
	assert.Equal(t, "MyMod is ready", v.Summary)

	headings := make([]string, 0, len(v.Sections))
	for _, s := range v.Sections {
		headings = append(headings, s.Heading)
	}
	assert.Equal(t, []string{"Instance", "Installed", "Enabled plugins"}, headings)
	assert.Equal(t, view.StatusWarning, v.Sections[1].Items[0].Status)

	r.Warnings = []string{"no API key"}
	assert.Equal(t, view.StatusWarning, view.FromReport("Create", r).Status)

	r.Stage = orchestrator.StageConfigsMerged
	v = view.FromReport("Create", r)
	assert.Equal(t, view.StatusError, v.Status)
	assert.Contains(t, v.Summary, "configs-merged")
}

func TestFromRewriteSortsRenames(t *testing.T) {
	res := &rewrite.Result{
		ContentRewritten: []string{"A.h"},
		Renamed:          map[string]string{"b/TP": "b/My", "a/TP": "a/My"},
		Skipped:          []string{"c/TP"},
	}
	v := view.FromRewrite("/root", res)

	assert.Equal(t, view.StatusWarning, v.Status)
	require.Len(t, v.Sections, 1)
	items := v.Sections[0].Items
	require.Len(t, items, 4)
	assert.Equal(t, "a/TP -> a/My", items[1].Text)
	assert.Equal(t, "b/TP -> b/My", items[2].Text)
	assert.Equal(t, view.StatusWarning, items[3].Status)
}

func TestFromInstall(t *testing.T) {
	res := &archive.InstallResult{Path: "/p/Convai", UnitName: "Convai", Descriptor: "Convai/ConvAI.uplugin", Candidates: []string{"Convai/ConvAI.uplugin"}}
	v := view.FromInstall("convai.zip", res)
	assert.Equal(t, view.StatusOK, v.Status)
	assert.Len(t, v.Sections, 1)
}

func TestFromError(t *testing.T) {
	err := errors.New(errors.ErrRename, "cannot rename").WithPath("/x").WithDetail("stage", "identifiers-rewritten")
	v := view.FromError(err)

	assert.Equal(t, view.StatusError, v.Status)
	require.Len(t, v.Sections, 1)
	assert.Equal(t, []view.Field{
		{Key: "Code", Value: "RENAME"},
		{Key: "path", Value: "/x"},
		{Key: "stage", Value: "identifiers-rewritten"},
	}, v.Sections[0].Fields)
}

func TestMarkdown(t *testing.T) {
	v := view.View{Title: "Report", Summary: "done"}
	v.AddSection(view.Section{
		Heading: "Unit",
		Fields:  []view.Field{{Key: "Name", Value: "a|b"}},
		Items:   []view.Item{{Text: "careful", Status: view.StatusWarning}, {Text: "fine"}},
	})

	out := view.Markdown(v)
	assert.Contains(t, out, "# Report\n\ndone\n\n## Unit\n")
	assert.Contains(t, out, "| **Name** | `a\\|b` |")
	assert.Contains(t, out, "- **warning:** careful\n- fine\n")
}
