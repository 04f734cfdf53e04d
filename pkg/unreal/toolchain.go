package unreal

import (
	"path/filepath"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
)

// CheckToolchain verifies the cross-compilation toolchain root held in an
// environment variable: it must be set, its last path element must equal
// the required toolchain version and it must exist. lookupEnv is usually
// os.LookupEnv.
func CheckToolchain(fsys filesystem.FS, envVar, version string, lookupEnv func(string) (string, bool)) (string, error) {
	root, ok := lookupEnv(envVar)
	root = strings.TrimSpace(root)
	if !ok || root == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "%s environment variable is not set", envVar).
			WithDetail("env", envVar)
	}

	clean := filepath.Clean(strings.TrimRight(root, `\/`))
	base := filepath.Base(clean)
	if i := strings.LastIndexAny(base, `\/`); i >= 0 {
		base = base[i+1:]
	}
	if base != version {
		return root, errors.Newf(errors.ErrInvalidInput, "cross-compilation toolchain version mismatch, found %q, expected %q", base, version).
			WithPath(root)
	}
	if !filesystem.IsDir(fsys, clean) {
		return root, errors.Newf(errors.ErrNotFound, "cross-compilation toolchain path %s does not exist", root).WithPath(root)
	}
	return root, nil
}
