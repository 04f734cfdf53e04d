package ini

import (
	"bytes"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// Merge returns existing with desired applied. Neither input is modified.
//
// For each desired section, in order:
//   - a scalar line drops every existing scalar line with the same key
//     (and any earlier pending scalar with that key), then is appended
//   - a "+" or "-" line drops existing lines with identical text, then is appended
//   - appended lines are de-duplicated by text, first occurrence kept
//   - trailing blank lines of the existing section are removed before appending
//
// Sections only in existing keep their place; sections only in desired are
// added at the end in desired order.
func Merge(existing, desired *Document) *Document {
	out := existing.Clone()

	for _, want := range desired.Sections() {
		section := out.Ensure(want.Header)
		lines := section.Lines
		var pending []string

		for _, line := range want.Lines {
			if line == "" {
				continue
			}
			op, key := ParseLine(line)
			if op == OpNone {
				lines = dropScalar(lines, key)
				pending = dropScalar(pending, key)
			} else {
				lines = dropExact(lines, line)
			}
			pending = append(pending, line)
		}

		for len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		section.Lines = append(lines, dedupe(pending)...)
	}
	return out
}

func dropScalar(lines []string, key string) []string {
	kept := lines[:0:0]
	for _, line := range lines {
		if line != "" {
			if op, k := ParseLine(line); op == OpNone && k == key {
				continue
			}
		}
		kept = append(kept, line)
	}
	return kept
}

func dropExact(lines []string, text string) []string {
	kept := lines[:0:0]
	for _, line := range lines {
		if line != text {
			kept = append(kept, line)
		}
	}
	return kept
}

func dedupe(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !seen[line] {
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}

// Load reads and parses the document at path. A missing, unreadable or
// non-UTF-8 file yields an empty document; the reason is returned in
// loadErr for logging and is never fatal.
func Load(fsys filesystem.FS, path string) (doc *Document, loadErr error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return NewDocument(), err
	}
	if !utf8.Valid(data) {
		return NewDocument(), errors.Newf(errors.ErrFileAccess, "%s is not valid UTF-8", path).WithPath(path)
	}
	return Parse(string(data)), nil
}

// MergeInto merges desired into the settings file at targetPath and rewrites
// it. A missing or unreadable target is treated as empty and recreated.
// Write failures are returned. The file is left untouched when the merge
// changes nothing.
func MergeInto(fsys filesystem.FS, targetPath string, desired *Document) error {
	log := logging.GetLogger("ini")
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	existing, loadErr := Load(fsys, targetPath)
	switch {
	case loadErr == nil:
	case os.IsNotExist(loadErr):
		log.Info().Str("path", targetPath).Msg("Settings file not found, creating it")
	default:
		log.Warn().Err(loadErr).Str("path", targetPath).Msg("Cannot read settings file, rebuilding it from desired settings")
	}

	rendered := []byte(Merge(existing, desired).Render())

	if loadErr == nil {
		if current, err := fsys.ReadFile(targetPath); err == nil && bytes.Equal(current, rendered) {
			log.Debug().Str("path", targetPath).Msg("Settings already up to date")
			return nil
		}
	}

	if err := fsys.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for %s", targetPath).WithPath(targetPath)
	}
	if err := fsys.WriteFile(targetPath, rendered, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write settings file %s", targetPath).WithPath(targetPath)
	}

	log.Info().
		Str("path", targetPath).
		Int("sections", desired.Len()).
		Msg("Merged settings")
	return nil
}
