// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir)
// PURPOSE: Bottom-up rename and case-preserving content rewrite of a template tree

package rewrite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/rewrite"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/testutil"
)

func TestRewriteTemplateTree(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"TP_Blank.uproject":                       `{"Modules":[{"Name":"TP_Blank"}]}`,
		"Source/TP_Blank/TP_Blank.h":              "#define TP_BLANK_API\nclass Atp_blank;\nTP_Blank",
		"Source/TP_Blank/TP_Blank.Build.cs":       "public class TP_Blank : ModuleRules",
		"Source/TP_BlankEditor.Target.cs":         "TP_BlankEditor",
		"Config/DefaultEngine.ini":                "[/Script/EngineSettings]\nGameName=TP_Blank\n",
		"Content/TP_Blank_Logo.png":               "TP_Blank binary",
		"Source/TP_Blank/Private/TP_Blank.cpp":    "#include \"TP_Blank.h\"",
		"Source/TP_Blank/Private/unrelated.txt.h": "nothing here",
	})

	res, err := rewrite.Rewrite(rewrite.Options{Root: root, OldToken: "TP_Blank", NewToken: "MyProj"})
	require.NoError(t, err)

	testutil.AssertTree(t, root, map[string]string{
		"MyProj.uproject":                       `{"Modules":[{"Name":"MyProj"}]}`,
		"Source/MyProj/MyProj.h":                "#define MYPROJ_API\nclass Amyproj;\nMyProj",
		"Source/MyProj/MyProj.Build.cs":         "public class MyProj : ModuleRules",
		"Source/MyProjEditor.Target.cs":         "MyProjEditor",
		"Config/DefaultEngine.ini":              "[/Script/EngineSettings]\nGameName=MyProj\n",
		"Content/MyProj_Logo.png":               "TP_Blank binary",
		"Source/MyProj/Private/MyProj.cpp":      "#include \"MyProj.h\"",
		"Source/MyProj/Private/unrelated.txt.h": "nothing here",
	})

	assert.NoDirExists(t, filepath.Join(root, "Source", "TP_Blank"))
	assert.Len(t, res.ContentRewritten, 6)
	assert.Empty(t, res.Skipped)
}

func TestRewriteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"TP_Blank/TP_Blank.uproject": "TP_Blank",
	})

	_, err := rewrite.Rewrite(rewrite.Options{Root: root, OldToken: "TP_Blank", NewToken: "MyProj"})
	require.NoError(t, err)

	second, err := rewrite.Rewrite(rewrite.Options{Root: root, OldToken: "TP_Blank", NewToken: "MyProj"})
	require.NoError(t, err)
	assert.Empty(t, second.ContentRewritten)
	assert.Empty(t, second.Renamed)

	testutil.AssertTree(t, root, map[string]string{"MyProj/MyProj.uproject": "MyProj"})
}

func TestRewriteSkipsCollisions(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"TP_Blank.ini":   "old",
		"MyProj.ini":     "existing",
		"Dir/TP_Blank.h": "x",
	})

	res, err := rewrite.Rewrite(rewrite.Options{Root: root, OldToken: "TP_Blank", NewToken: "MyProj"})
	require.NoError(t, err)

	testutil.AssertTree(t, root, map[string]string{
		"TP_Blank.ini": "old",
		"MyProj.ini":   "existing",
		"Dir/MyProj.h": "x",
	})
	assert.Contains(t, res.Skipped, filepath.Join(root, "TP_Blank.ini"))
}

type failingRenameFS struct {
	filesystem.FS
}

func (failingRenameFS) Rename(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrPermission}
}

func TestRewriteAbortsOnRenameFailure(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"TP_Blank.png": "binary",
	})

	_, err := rewrite.Rewrite(rewrite.Options{
		Root:       root,
		OldToken:   "TP_Blank",
		NewToken:   "MyProj",
		FileSystem: failingRenameFS{filesystem.NewOS()},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRename))
	assert.Equal(t, filepath.Join(root, "TP_Blank.png"), errors.Path(err))

	testutil.AssertTree(t, root, map[string]string{"TP_Blank.png": "binary"})
}

func TestRewriteSkipsUndecodableContent(t *testing.T) {
	root := t.TempDir()
	bad := []byte{0xff, 0xfe, 'T', 'P', '_', 'B', 'l', 'a', 'n', 'k'}
	require.NoError(t, os.WriteFile(filepath.Join(root, "TP_Blank.h"), bad, 0644))

	res, err := rewrite.Rewrite(rewrite.Options{Root: root, OldToken: "TP_Blank", NewToken: "MyProj"})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "MyProj.h"))
	require.NoError(t, err)
	assert.Equal(t, bad, got, "content untouched but file still renamed")
	assert.Contains(t, res.Skipped, filepath.Join(root, "TP_Blank.h"))
}

func TestRewriteCustomExtensions(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"notes.md":  "TP_Blank",
		"config.H":  "TP_Blank",
		"other.ini": "TP_Blank",
	})

	_, err := rewrite.Rewrite(rewrite.Options{
		Root: root, OldToken: "TP_Blank", NewToken: "MyProj",
		TextExtensions: []string{".md", ".h"},
	})
	require.NoError(t, err)

	testutil.AssertTree(t, root, map[string]string{
		"notes.md":  "MyProj",
		"config.H":  "MyProj",
		"other.ini": "TP_Blank",
	})
}

func TestRewriteInvalidInput(t *testing.T) {
	root := t.TempDir()

	_, err := rewrite.Rewrite(rewrite.Options{Root: root, OldToken: "", NewToken: "x"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = rewrite.Rewrite(rewrite.Options{Root: filepath.Join(root, "missing"), OldToken: "a", NewToken: "b"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	file := filepath.Join(root, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = rewrite.Rewrite(rewrite.Options{Root: file, OldToken: "a", NewToken: "b"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
