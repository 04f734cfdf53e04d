package orchestrator

import (
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/build"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/rewrite"
)

// InstalledUnit is one dependency placed into the instance
type InstalledUnit struct {
	Dependency string   `json:"dependency" yaml:"dependency"`
	Kind       string   `json:"kind" yaml:"kind"`
	Archive    string   `json:"archive" yaml:"archive"`
	Path       string   `json:"path" yaml:"path"`
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// Ambiguous reports whether the archive held several descriptors
func (u InstalledUnit) Ambiguous() bool {
	return len(u.Candidates) > 1
}

// Report describes what a create or update run did
type Report struct {
	ProjectName    string             `json:"project_name" yaml:"project_name"`
	ProjectDir     string             `json:"project_dir" yaml:"project_dir"`
	PluginName     string             `json:"plugin_name" yaml:"plugin_name"`
	EngineVersion  string             `json:"engine_version" yaml:"engine_version"`
	Stage          Stage              `json:"stage" yaml:"stage"`
	Rewrite        *rewrite.Result    `json:"rewrite,omitempty" yaml:"rewrite,omitempty"`
	Settings       []string           `json:"settings,omitempty" yaml:"settings,omitempty"`
	Removed        []string           `json:"removed,omitempty" yaml:"removed,omitempty"`
	Installed      []InstalledUnit    `json:"installed,omitempty" yaml:"installed,omitempty"`
	EnabledPlugins []string           `json:"enabled_plugins,omitempty" yaml:"enabled_plugins,omitempty"`
	Warnings       []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Metadata       *metadata.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Build          *build.Result      `json:"build,omitempty" yaml:"build,omitempty"`
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
