package cli

import (
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

// resolveEngine locates the engine installation: the flag, then the
// configured path, then the default install locations, then the user
func (a *app) resolveEngine(flag string, ask bool) (*unreal.Engine, error) {
	e := a.cfg.Engine
	path := flag
	if path == "" {
		path = e.Path
	}
	if path != "" {
		return unreal.ValidateEngine(a.fs, path, e.VersionHeader, e.SupportedVersions)
	}

	engine, err := unreal.FindEngine(a.fs, e.DefaultPaths, e.VersionHeader, e.SupportedVersions)
	if err == nil || !ask {
		return engine, err
	}
	path, perr := a.prompter.Text(MsgPromptEngine, "", func(s string) error {
		_, err := unreal.ValidateEngine(a.fs, s, e.VersionHeader, e.SupportedVersions)
		return err
	})
	if perr != nil {
		if errors.IsErrorCode(perr, errors.ErrPrompt) {
			return nil, err
		}
		return nil, perr
	}
	return unreal.ValidateEngine(a.fs, path, e.VersionHeader, e.SupportedVersions)
}
