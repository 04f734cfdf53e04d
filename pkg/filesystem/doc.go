// Package filesystem provides the filesystem abstraction used by every
// materialization stage.
//
// NewOS wraps the host filesystem. NewAferoFS wraps any afero.Fs, which tests
// use with afero.NewMemMapFs for merges and metadata that never rename
// directories. CopyTree and CopyFile build on FS so they work on both.
package filesystem
