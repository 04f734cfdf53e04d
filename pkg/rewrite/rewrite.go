package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// DefaultTextExtensions are the file types whose contents are rewritten
var DefaultTextExtensions = []string{".cpp", ".h", ".cs", ".ini", ".uproject"}

// Options configures a rewrite run
type Options struct {
	Root     string
	OldToken string
	NewToken string

	// TextExtensions overrides DefaultTextExtensions. Matching ignores case.
	TextExtensions []string

	FileSystem filesystem.FS
}

// Result summarizes what a rewrite run touched
type Result struct {
	ContentRewritten []string          `json:"content_rewritten,omitempty" yaml:"content_rewritten,omitempty"`
	Renamed          map[string]string `json:"renamed,omitempty" yaml:"renamed,omitempty"`
	Skipped          []string          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type rewriter struct {
	fs       filesystem.FS
	replacer *Replacer
	textExts map[string]bool
	result   *Result
	log      zerolog.Logger
}

// Rewrite replaces OldToken with NewToken below Root, in the contents of
// text files and in file and directory names. The tree is processed
// bottom-up so that renaming a directory never invalidates a pending path.
// Root itself is never renamed.
//
// Unreadable or non-UTF-8 files and renames onto an existing path are
// logged and skipped. Any other filesystem failure aborts the run.
func Rewrite(opts Options) (*Result, error) {
	log := logging.GetLogger("rewrite")

	if opts.OldToken == "" || opts.NewToken == "" {
		return nil, errors.New(errors.ErrInvalidInput, "tokens must be non-empty").
			WithDetail("old", opts.OldToken).
			WithDetail("new", opts.NewToken)
	}
	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}
	exts := opts.TextExtensions
	if len(exts) == 0 {
		exts = DefaultTextExtensions
	}

	info, err := opts.FileSystem.Stat(opts.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "rewrite root %s does not exist", opts.Root).WithPath(opts.Root)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", opts.Root).WithPath(opts.Root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "rewrite root %s is not a directory", opts.Root).WithPath(opts.Root)
	}

	rw := &rewriter{
		fs:       opts.FileSystem,
		replacer: NewReplacer(opts.OldToken, opts.NewToken),
		textExts: make(map[string]bool, len(exts)),
		result:   &Result{Renamed: map[string]string{}},
		log:      log,
	}
	for _, ext := range exts {
		rw.textExts[strings.ToLower(ext)] = true
	}

	log.Info().
		Str("root", opts.Root).
		Str("old", opts.OldToken).
		Str("new", opts.NewToken).
		Msg("Rewriting identifiers")

	if err := rw.walk(opts.Root); err != nil {
		return rw.result, err
	}

	log.Info().
		Int("contentRewritten", len(rw.result.ContentRewritten)).
		Int("renamed", len(rw.result.Renamed)).
		Int("skipped", len(rw.result.Skipped)).
		Msg("Rewrite complete")
	return rw.result, nil
}

func (rw *rewriter) walk(dir string) error {
	entries, err := rw.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", dir).WithPath(dir)
	}

	var files, dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}

	for _, name := range dirs {
		if err := rw.walk(filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	for _, name := range files {
		path := filepath.Join(dir, name)
		if rw.textExts[strings.ToLower(filepath.Ext(name))] {
			if err := rw.rewriteContent(path); err != nil {
				return err
			}
		}
		if err := rw.rename(dir, name); err != nil {
			return err
		}
	}

	for _, name := range dirs {
		if err := rw.rename(dir, name); err != nil {
			return err
		}
	}
	return nil
}

func (rw *rewriter) rewriteContent(path string) error {
	data, err := rw.fs.ReadFile(path)
	if err != nil {
		rw.log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable file")
		rw.result.Skipped = append(rw.result.Skipped, path)
		return nil
	}
	if !utf8.Valid(data) {
		rw.log.Warn().Str("path", path).Msg("Skipping file that is not valid UTF-8")
		rw.result.Skipped = append(rw.result.Skipped, path)
		return nil
	}

	content := string(data)
	if !rw.replacer.Contains(content) {
		return nil
	}

	info, err := rw.fs.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).WithPath(path)
	}
	if err := rw.fs.WriteFile(path, []byte(rw.replacer.Replace(content)), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot rewrite %s", path).WithPath(path)
	}

	rw.log.Debug().Str("path", path).Msg("Rewrote file content")
	rw.result.ContentRewritten = append(rw.result.ContentRewritten, path)
	return nil
}

func (rw *rewriter) rename(dir, name string) error {
	if !rw.replacer.Contains(name) {
		return nil
	}
	newName := rw.replacer.Replace(name)
	if newName == name {
		return nil
	}

	from := filepath.Join(dir, name)
	to := filepath.Join(dir, newName)
	if filesystem.Exists(rw.fs, to) {
		rw.log.Warn().Str("from", from).Str("to", to).Msg("Rename target exists, leaving entry in place")
		rw.result.Skipped = append(rw.result.Skipped, from)
		return nil
	}

	if err := rw.fs.Rename(from, to); err != nil {
		return errors.Wrapf(err, errors.ErrRename, "cannot rename %s to %s", from, newName).WithPath(from)
	}

	rw.log.Debug().Str("from", from).Str("to", to).Msg("Renamed")
	rw.result.Renamed[from] = to
	return nil
}
