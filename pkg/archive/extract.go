package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// Format identifies an archive container
type Format string

const (
	FormatZip   Format = "zip"
	FormatTarGz Format = "tar.gz"
	FormatTar   Format = "tar"
)

// DetectFormat picks the container format from the file name, falling back
// to zip for unknown extensions. Release assets are zips unless named otherwise.
func DetectFormat(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar
	default:
		return FormatZip
	}
}

// Extract unpacks archivePath into dest, which must exist. Entries that would
// land outside dest are rejected. Symbolic links are skipped.
// It returns the number of regular files written.
func Extract(fsys filesystem.FS, archivePath, dest string) (int, error) {
	f, err := fsys.Open(archivePath)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileAccess, "cannot open archive %s", archivePath).WithPath(archivePath)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat archive %s", archivePath).WithPath(archivePath)
	}

	x := &extractor{fs: fsys, dest: dest, archive: archivePath}
	switch DetectFormat(archivePath) {
	case FormatTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, x.corrupt(err)
		}
		defer func() { _ = gz.Close() }()
		err = x.tar(tar.NewReader(gz))
		return x.files, err
	case FormatTar:
		err = x.tar(tar.NewReader(f))
		return x.files, err
	default:
		err = x.zip(f, info.Size())
		return x.files, err
	}
}

type extractor struct {
	fs      filesystem.FS
	dest    string
	archive string
	files   int
}

func (x *extractor) corrupt(err error) error {
	return errors.Wrapf(err, errors.ErrArchiveCorrupt, "archive %s is corrupt or unsupported", x.archive).WithPath(x.archive)
}

func (x *extractor) zip(r io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return x.corrupt(err)
	}

	log := logging.GetLogger("archive")
	for _, zf := range zr.File {
		target, err := x.target(zf.Name)
		if err != nil {
			return err
		}
		mode := zf.Mode()
		switch {
		case mode.IsDir() || strings.HasSuffix(zf.Name, "/"):
			if err := x.mkdir(target); err != nil {
				return err
			}
		case mode&fs.ModeSymlink != 0:
			log.Warn().Str("entry", zf.Name).Msg("Skipping symbolic link in archive")
		default:
			rc, err := zf.Open()
			if err != nil {
				return x.corrupt(err)
			}
			err = x.write(target, rc, mode.Perm())
			_ = rc.Close()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (x *extractor) tar(tr *tar.Reader) error {
	log := logging.GetLogger("archive")
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return x.corrupt(err)
		}

		target, err := x.target(hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := x.mkdir(target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := x.write(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			log.Warn().Str("entry", hdr.Name).Msg("Skipping non-regular archive entry")
		}
	}
}

// target maps an entry name to a path below dest
func (x *extractor) target(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, "\\", "/")))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.VolumeName(clean) != "" {
		return "", errors.Newf(errors.ErrArchiveCorrupt, "archive entry %q escapes the extraction directory", name).
			WithPath(x.archive)
	}
	return filepath.Join(x.dest, clean), nil
}

func (x *extractor) mkdir(path string) error {
	if err := x.fs.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", path).WithPath(path)
	}
	return nil
}

func (x *extractor) write(path string, r io.Reader, perm fs.FileMode) error {
	if err := x.mkdir(filepath.Dir(path)); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0644
	}
	w, err := x.fs.Create(path, perm|0200)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create %s", path).WithPath(path)
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		// read side failures mean a damaged entry
		return x.corrupt(err)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).WithPath(path)
	}
	x.files++
	return nil
}
