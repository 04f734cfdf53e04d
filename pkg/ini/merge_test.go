package ini_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ini"
)

func merge(existing, desired string) string {
	return ini.Merge(ini.Parse(existing), ini.Parse(desired)).Render()
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		desired  string
		want     string
	}{
		{
			name:     "scalar override",
			existing: "[A]\nX=1\nKeep=yes\n",
			desired:  "[A]\nX=2\n",
			want:     "[A]\nKeep=yes\nX=2\n",
		},
		{
			name:     "scalar override ignores list lines with same key",
			existing: "[A]\n+X=list\nX=1\n",
			desired:  "[A]\nX=2\n",
			want:     "[A]\n+X=list\nX=2\n",
		},
		{
			name:     "list accumulation",
			existing: "[A]\n+Y=foo\n",
			desired:  "[A]\n+Y=bar\n",
			want:     "[A]\n+Y=foo\n+Y=bar\n",
		},
		{
			name:     "identical list entry moves to end once",
			existing: "[A]\n+Y=bar\nZ=1\n",
			desired:  "[A]\n+Y=bar\n+Y=bar\n",
			want:     "[A]\nZ=1\n+Y=bar\n",
		},
		{
			name:     "remove marker is applied verbatim",
			existing: "[A]\n-Y=old\n+Y=old\n",
			desired:  "[A]\n-Y=old\n",
			want:     "[A]\n+Y=old\n-Y=old\n",
		},
		{
			name:     "untouched sections keep order and content",
			existing: "[First]\nA=1\n\n[A]\nX=1\n\n[Last]\n; comment\nB=2\n",
			desired:  "[A]\nX=2\n",
			want:     "[First]\nA=1\n\n[A]\nX=2\n\n[Last]\n; comment\nB=2\n",
		},
		{
			name:     "new sections appended in desired order",
			existing: "[A]\nX=1\n",
			desired:  "[C]\nc=1\n[B]\nb=1\n",
			want:     "[A]\nX=1\n\n[C]\nc=1\n\n[B]\nb=1\n",
		},
		{
			name:     "no blank line before appended settings",
			existing: "[A]\nX=1\n\n\n",
			desired:  "[A]\nY=2\n",
			want:     "[A]\nX=1\nY=2\n",
		},
		{
			name:     "inner blank lines survive",
			existing: "[A]\n\nX=1\n\nW=0\n",
			desired:  "[A]\nY=2\n",
			want:     "[A]\nX=1\n\nW=0\nY=2\n",
		},
		{
			name:     "later duplicate scalar wins",
			existing: "",
			desired:  "[A]\nX=1\nX=2\n",
			want:     "[A]\nX=2\n",
		},
		{
			name:     "empty existing",
			existing: "",
			desired:  "[A]\n\nX=1\n",
			want:     "[A]\nX=1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, merge(tt.existing, tt.desired))
		})
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := "[/Script/Engine.Engine]\n+ActiveGameNameRedirects=(OldGameName=\"A\")\nGameViewportClientClassName=Old\n\n[Other]\nK=V\n"
	desired := "[/Script/Engine.Engine]\n+ActiveGameNameRedirects=(OldGameName=\"B\")\nGameViewportClientClassName=New\n[/Script/New]\nX=1\n"

	once := merge(existing, desired)
	twice := merge(once, desired)
	assert.Equal(t, once, twice)
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	existing := ini.Parse("[A]\nX=1\n")
	desired := ini.Parse("[A]\nX=2\n[B]\nY=1\n")
	_ = ini.Merge(existing, desired)

	assert.Equal(t, "[A]\nX=1\n", existing.Render())
	assert.Equal(t, 2, desired.Len())
}

func TestMergeInto(t *testing.T) {
	fsys := filesystem.NewMemory()
	path := "/proj/Config/DefaultEngine.ini"
	desired := ini.Parse("[/Script/Convai.ConvaiSettings]\nAPI_Key=secret\n")

	t.Run("missing file is created", func(t *testing.T) {
		require.NoError(t, ini.MergeInto(fsys, path, desired))
		got, err := fsys.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[/Script/Convai.ConvaiSettings]\nAPI_Key=secret\n", string(got))
	})

	t.Run("existing content preserved and second run is a no-op", func(t *testing.T) {
		require.NoError(t, fsys.WriteFile(path, []byte("[Keep]\nA=1\n\n[/Script/Convai.ConvaiSettings]\nAPI_Key=old\n"), 0644))
		require.NoError(t, ini.MergeInto(fsys, path, desired))
		first, err := fsys.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[Keep]\nA=1\n\n[/Script/Convai.ConvaiSettings]\nAPI_Key=secret\n", string(first))

		require.NoError(t, ini.MergeInto(fsys, path, desired))
		second, err := fsys.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("undecodable file is rebuilt", func(t *testing.T) {
		require.NoError(t, fsys.WriteFile(path, []byte{0xff, 0xfe, '[', 'A', ']'}, 0644))
		require.NoError(t, ini.MergeInto(fsys, path, desired))
		got, err := fsys.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[/Script/Convai.ConvaiSettings]\nAPI_Key=secret\n", string(got))
	})
}

func TestMergeIntoWriteFailure(t *testing.T) {
	fsys := filesystem.NewOS()
	// a directory where the file should be makes the write fail
	target := filepath.Join(t.TempDir(), "Config", "DefaultGame.ini")
	require.NoError(t, fsys.MkdirAll(target, 0755))

	err := ini.MergeInto(fsys, target, ini.Parse("[A]\nX=1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))
	assert.Equal(t, target, errors.Path(err))
}

func TestLoad(t *testing.T) {
	fsys := filesystem.NewMemory()
	doc, err := ini.Load(fsys, "/none.ini")
	assert.Error(t, err)
	assert.Equal(t, 0, doc.Len())
}
