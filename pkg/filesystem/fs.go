package filesystem

import (
	"io"
	"io/fs"
)

// File is the read handle returned by FS.Open. Both *os.File and afero.File
// satisfy it; the ReaderAt is what zip extraction needs.
type File interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
	Stat() (fs.FileInfo, error)
}

// FS is the set of filesystem operations the tool performs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	// Lstat may fall back to Stat on filesystems without links
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (File, error)
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)

	MkdirAll(path string, perm fs.FileMode) error
	MkdirTemp(dir, pattern string) (string, error)
	ReadDir(name string) ([]fs.DirEntry, error)

	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
