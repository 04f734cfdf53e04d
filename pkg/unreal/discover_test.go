package unreal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/testutil"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

func TestFindProjects(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteTreeFS(t, fsys, "/root", map[string]string{
		"Beta/Beta.uproject":                         "{}",
		"Beta/ConvaiEssentials/ModdingMetaData.json": "{}",
		"Alpha/Alpha.uproject":                       "{}",
		"Alpha/ConvaiEssentials/x.zip":               "",
		"Plain/Plain.uproject":                       "{}",
		"Empty/ConvaiEssentials/x.zip":               "",
		"notes.txt":                                  "",
	})

	projects, err := unreal.FindProjects(fsys, "/root", "ConvaiEssentials")
	require.NoError(t, err)
	assert.Equal(t, []unreal.Project{
		{Name: "Alpha", Dir: "/root/Alpha"},
		{Name: "Beta", Dir: "/root/Beta"},
	}, projects)

	projects, err = unreal.FindProjects(fsys, "/missing", "ConvaiEssentials")
	require.NoError(t, err)
	assert.Empty(t, projects)
}
