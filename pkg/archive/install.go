package archive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// DefaultDescriptorExt marks the root of an installable plugin
const DefaultDescriptorExt = ".uplugin"

const tempPattern = ".extract-"

// InstallOptions configures an archive install
type InstallOptions struct {
	ArchivePath   string
	DestRoot      string
	DescriptorExt string

	FileSystem filesystem.FS
}

// InstallResult describes an installed unit
type InstallResult struct {
	// Path is DestRoot/UnitName
	Path       string `json:"path" yaml:"path"`
	UnitName   string `json:"unit_name" yaml:"unit_name"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	// Candidates lists every descriptor found, relative to the archive root.
	// More than one means the archive was ambiguous and the first was used.
	Candidates []string `json:"candidates" yaml:"candidates"`
}

// Ambiguous reports whether the archive held more than one descriptor
func (r *InstallResult) Ambiguous() bool {
	return len(r.Candidates) > 1
}

// InstallFromArchive extracts archivePath and installs the unit rooted at
// its descriptor under destRoot, replacing any previous install of the same
// name. It returns the installed path.
func InstallFromArchive(archivePath, destRoot, descriptorExt string) (string, error) {
	res, err := Install(InstallOptions{ArchivePath: archivePath, DestRoot: destRoot, DescriptorExt: descriptorExt})
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// Install is InstallFromArchive with options and a detailed result.
//
// The archive is extracted into a temporary directory below DestRoot, which
// is removed on every exit path. The unit name is the descriptor's file name
// without its extension. When the descriptor sits at the archive root the
// root's contents are moved into a fresh DestRoot/<unit>; otherwise the
// descriptor's directory is moved there as a whole.
func Install(opts InstallOptions) (*InstallResult, error) {
	log := logging.GetLogger("archive")
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	ext := opts.DescriptorExt
	if ext == "" {
		ext = DefaultDescriptorExt
	}

	if _, err := fsys.Stat(opts.ArchivePath); err != nil {
		code := errors.ErrFileAccess
		if os.IsNotExist(err) {
			code = errors.ErrNotFound
		}
		return nil, errors.Wrapf(err, code, "archive %s is not available", opts.ArchivePath).WithPath(opts.ArchivePath)
	}

	tmp, err := newTempDir(fsys, opts.DestRoot)
	if err != nil {
		return nil, err
	}
	defer removeTemp(fsys, tmp, log)

	log.Info().Str("archive", opts.ArchivePath).Str("dest", opts.DestRoot).Msg("Extracting archive")
	if _, err := Extract(fsys, opts.ArchivePath, tmp); err != nil {
		return nil, err
	}

	candidates, err := FindDescriptors(fsys, tmp, ext)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.Newf(errors.ErrDescriptorNotFound, "no %s file found in %s", ext, opts.ArchivePath).
			WithPath(opts.ArchivePath)
	}

	res := &InstallResult{Descriptor: candidates[0]}
	for _, c := range candidates {
		rel, _ := filepath.Rel(tmp, c)
		res.Candidates = append(res.Candidates, filepath.ToSlash(rel))
	}
	if res.Ambiguous() {
		log.Warn().
			Str("archive", opts.ArchivePath).
			Strs("candidates", res.Candidates).
			Str("chosen", res.Candidates[0]).
			Msg("Archive contains several descriptors, using the first")
	}

	base := filepath.Base(res.Descriptor)
	res.UnitName = base[:len(base)-len(ext)]
	res.Path = filepath.Join(opts.DestRoot, res.UnitName)

	if err := replace(fsys, tmp, filepath.Dir(res.Descriptor), res.Path); err != nil {
		return nil, err
	}
	res.Descriptor = filepath.Join(res.Path, base)

	log.Info().
		Str("unit", res.UnitName).
		Str("path", res.Path).
		Msg("Installed archive")
	return res, nil
}

// FindDescriptors returns every file below root whose name ends in ext
// (ignoring case) and has a non-empty stem. Within a directory, entries are
// visited in name order and files come before subdirectories, so the first
// element is stable across filesystems.
func FindDescriptors(fsys filesystem.FS, root, ext string) ([]string, error) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", root).WithPath(root)
	}

	var found, dirs []string
	lowerExt := strings.ToLower(ext)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			dirs = append(dirs, name)
			continue
		}
		if len(name) > len(ext) && strings.HasSuffix(strings.ToLower(name), lowerExt) {
			found = append(found, filepath.Join(root, name))
		}
	}
	for _, dir := range dirs {
		sub, err := FindDescriptors(fsys, filepath.Join(root, dir), ext)
		if err != nil {
			return nil, err
		}
		found = append(found, sub...)
	}
	return found, nil
}

// ExtractInto replaces destDir with the contents of archivePath. An archive
// holding a single top-level directory is unwrapped so that directory's
// contents become destDir.
func ExtractInto(fsys filesystem.FS, archivePath, destDir string) error {
	log := logging.GetLogger("archive")
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	tmp, err := newTempDir(fsys, filepath.Dir(destDir))
	if err != nil {
		return err
	}
	defer removeTemp(fsys, tmp, log)

	if _, err := Extract(fsys, archivePath, tmp); err != nil {
		return err
	}

	source := tmp
	entries, err := fsys.ReadDir(tmp)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", tmp).WithPath(tmp)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		source = filepath.Join(tmp, entries[0].Name())
	}

	if err := fsys.RemoveAll(destDir); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove previous %s", destDir).WithPath(destDir)
	}
	if err := fsys.Rename(source, destDir); err != nil {
		return errors.Wrapf(err, errors.ErrRename, "cannot move extracted content to %s", destDir).WithPath(destDir)
	}

	log.Info().Str("archive", archivePath).Str("dest", destDir).Msg("Extracted archive")
	return nil
}

func newTempDir(fsys filesystem.FS, parent string) (string, error) {
	if err := fsys.MkdirAll(parent, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", parent).WithPath(parent)
	}
	tmp, err := fsys.MkdirTemp(parent, tempPattern)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create temporary directory in %s", parent).WithPath(parent)
	}
	return tmp, nil
}

func removeTemp(fsys filesystem.FS, tmp string, log zerolog.Logger) {
	if err := fsys.RemoveAll(tmp); err != nil {
		log.Warn().Err(err).Str("path", tmp).Msg("Failed to remove temporary directory")
	}
}

// replace installs unitDir at finalPath. When unitDir is the extraction root
// its entries are moved one by one, since the root itself is cleaned up later.
func replace(fsys filesystem.FS, root, unitDir, finalPath string) error {
	if filesystem.Exists(fsys, finalPath) {
		if err := fsys.RemoveAll(finalPath); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot remove previous install %s", finalPath).WithPath(finalPath)
		}
	}

	if unitDir != root {
		if err := fsys.Rename(unitDir, finalPath); err != nil {
			return errors.Wrapf(err, errors.ErrRename, "cannot move %s to %s", unitDir, finalPath).WithPath(finalPath)
		}
		return nil
	}

	if err := fsys.MkdirAll(finalPath, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", finalPath).WithPath(finalPath)
	}
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", root).WithPath(root)
	}
	for _, entry := range entries {
		from := filepath.Join(root, entry.Name())
		if err := fsys.Rename(from, filepath.Join(finalPath, entry.Name())); err != nil {
			_ = fsys.RemoveAll(finalPath)
			return errors.Wrapf(err, errors.ErrRename, "cannot move %s into %s", from, finalPath).WithPath(finalPath)
		}
	}
	return nil
}
