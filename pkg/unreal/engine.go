package unreal

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// DefaultVersionHeader is where an installation declares its version
const DefaultVersionHeader = "Engine/Source/Runtime/Launch/Resources/Version.h"

var (
	majorVersionRe = regexp.MustCompile(`ENGINE_MAJOR_VERSION\s+(\d+)`)
	minorVersionRe = regexp.MustCompile(`ENGINE_MINOR_VERSION\s+(\d+)`)
)

// Engine is a located engine installation
type Engine struct {
	Path    string
	Version string
}

// EngineVersion reads "major.minor" from the version header of the
// installation at engineDir. header is relative to engineDir; empty means
// DefaultVersionHeader.
func EngineVersion(fsys filesystem.FS, engineDir, header string) (string, error) {
	if header == "" {
		header = DefaultVersionHeader
	}
	path := filepath.Join(engineDir, filepath.FromSlash(header))
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrEngineVersion, "version header not found, check the engine installation at %s", engineDir).WithPath(path)
	}

	var major, minor string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() && (major == "" || minor == "") {
		line := scanner.Text()
		if m := majorVersionRe.FindStringSubmatch(line); m != nil && major == "" {
			major = m[1]
		}
		if m := minorVersionRe.FindStringSubmatch(line); m != nil && minor == "" {
			minor = m[1]
		}
	}
	if major == "" || minor == "" {
		return "", errors.Newf(errors.ErrEngineVersion, "no engine version declared in %s", path).WithPath(path)
	}
	return fmt.Sprintf("%s.%s", major, minor), nil
}

// IsSupported reports whether version is in supported
func IsSupported(version string, supported []string) bool {
	for _, v := range supported {
		if v == version {
			return true
		}
	}
	return false
}

// ValidateEngine checks that engineDir is an installation of a supported
// version and returns it.
func ValidateEngine(fsys filesystem.FS, engineDir, header string, supported []string) (*Engine, error) {
	if !filesystem.IsDir(fsys, engineDir) {
		return nil, errors.Newf(errors.ErrNotFound, "engine directory %s does not exist", engineDir).WithPath(engineDir)
	}
	version, err := EngineVersion(fsys, engineDir, header)
	if err != nil {
		return nil, err
	}
	if !IsSupported(version, supported) {
		return nil, errors.Newf(errors.ErrEngineVersion, "engine version %s is not supported, supported versions: %v", version, supported).
			WithPath(engineDir).
			WithDetail("version", version)
	}
	return &Engine{Path: engineDir, Version: version}, nil
}

// FindEngine returns the first candidate that is a supported installation
func FindEngine(fsys filesystem.FS, candidates []string, header string, supported []string) (*Engine, error) {
	log := logging.GetLogger("unreal")
	for _, candidate := range candidates {
		engine, err := ValidateEngine(fsys, candidate, header, supported)
		if err != nil {
			log.Debug().Err(err).Str("path", candidate).Msg("Not a usable engine installation")
			continue
		}
		log.Info().Str("path", engine.Path).Str("version", engine.Version).Msg("Found engine installation")
		return engine, nil
	}
	return nil, errors.Newf(errors.ErrNotFound, "no supported engine installation found in %d default locations", len(candidates)).
		WithDetail("candidates", candidates)
}
