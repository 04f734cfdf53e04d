package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
)

// Exists reports whether name can be Lstat'ed
func Exists(fsys FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}

// IsDir reports whether name exists and is a directory
func IsDir(fsys FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}

// CopyFile copies a regular file, creating the destination directory
func CopyFile(fsys FS, source, destination string) error {
	if err := fsys.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory for %s: %w", destination, err)
	}

	src, err := fsys.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", source, err)
	}
	defer func() { _ = src.Close() }()

	var mode fs.FileMode = 0644
	if info, err := src.Stat(); err == nil {
		mode = info.Mode().Perm()
	}

	dst, err := fsys.Create(destination, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", destination, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", source, destination, err)
	}
	return dst.Close()
}

// CopyTree recursively copies the directory src to dst. dst is created if
// missing; existing files in dst are overwritten.
func CopyTree(fsys FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}
	if err := fsys.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dst, err)
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", src, err)
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := CopyTree(fsys, from, to); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(fsys, from, to); err != nil {
			return err
		}
	}
	return nil
}
