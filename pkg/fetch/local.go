package fetch

import (
	"path/filepath"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
)

// fetchLocal copies an archive that is already on disk, for offline use
// and for tests
func (c *Client) fetchLocal(src config.Source, destDir string) (string, error) {
	if src.Path == "" {
		return "", errors.New(errors.ErrInvalidInput, "local source needs a path")
	}
	if !filesystem.Exists(c.fs, src.Path) {
		return "", errors.Newf(errors.ErrNotFound, "archive %s does not exist", src.Path).WithPath(src.Path)
	}
	target := filepath.Join(destDir, fileName(src, src.Path, "archive.zip"))
	if filepath.Clean(target) == filepath.Clean(src.Path) {
		return target, nil
	}
	if err := filesystem.CopyFile(c.fs, src.Path, target); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot copy %s", src.Path).WithPath(target)
	}
	return target, nil
}
