package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/archive"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/build"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/orchestrator"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/rewrite"
)

// FromReport renders a create or update report
func FromReport(title string, r *orchestrator.Report) View {
	v := View{Title: title, Status: StatusOK}
	if r.Stage != orchestrator.StageReady {
		v.Status = StatusError
		v.Summary = fmt.Sprintf("Stopped after stage %s", r.Stage)
	} else if len(r.Warnings) > 0 {
		v.Status = StatusWarning
		v.Summary = fmt.Sprintf("%s is ready with %d warning(s)", r.ProjectName, len(r.Warnings))
	} else {
		v.Summary = fmt.Sprintf("%s is ready", r.ProjectName)
	}

	v.AddSection(Section{Heading: "Instance", Fields: []Field{
		{"Project", r.ProjectName},
		{"Directory", r.ProjectDir},
		{"Content plugin", r.PluginName},
		{"Engine", r.EngineVersion},
		{"Stage", r.Stage.String()},
	}})
	if r.Rewrite != nil {
		v.AddSection(rewriteSection(r.Rewrite))
	}
	v.AddSection(Section{Heading: "Settings", Items: Items(StatusOK, r.Settings...)})

	installed := Section{Heading: "Installed"}
	for _, u := range r.Installed {
		status := StatusOK
		if u.Ambiguous() {
			status = StatusWarning
		}
		installed.Items = append(installed.Items, Item{Text: fmt.Sprintf("%s (%s) -> %s", u.Dependency, u.Kind, u.Path), Status: status})
	}
	v.AddSection(installed)
	v.AddSection(Section{Heading: "Removed", Items: Items(StatusInfo, r.Removed...)})
	v.AddSection(Section{Heading: "Enabled plugins", Items: Items(StatusOK, r.EnabledPlugins...)})
	if r.Build != nil {
		v.AddSection(buildSection(r.Build))
	}
	v.AddSection(Section{Heading: "Warnings", Items: Items(StatusWarning, r.Warnings...)})
	return v
}

// FromRewrite renders an identifier rewrite
func FromRewrite(root string, res *rewrite.Result) View {
	v := View{
		Title:   "Rewrite",
		Status:  StatusOK,
		Summary: fmt.Sprintf("%d file(s) rewritten, %d path(s) renamed in %s", len(res.ContentRewritten), len(res.Renamed), root),
	}
	if len(res.Skipped) > 0 {
		v.Status = StatusWarning
	}
	v.AddSection(rewriteSection(res))
	return v
}

func rewriteSection(res *rewrite.Result) Section {
	s := Section{Heading: "Identifiers"}
	s.Items = append(s.Items, Items(StatusOK, res.ContentRewritten...)...)
	from := make([]string, 0, len(res.Renamed))
	for old := range res.Renamed {
		from = append(from, old)
	}
	sort.Strings(from)
	for _, old := range from {
		s.Items = append(s.Items, Item{Text: fmt.Sprintf("%s -> %s", old, res.Renamed[old]), Status: StatusOK})
	}
	s.Items = append(s.Items, Items(StatusWarning, res.Skipped...)...)
	return s
}

// FromInstall renders an archive install
func FromInstall(archivePath string, res *archive.InstallResult) View {
	v := View{
		Title:   "Install",
		Status:  StatusOK,
		Summary: fmt.Sprintf("Installed %s from %s", res.UnitName, archivePath),
	}
	if res.Ambiguous() {
		v.Status = StatusWarning
	}
	v.AddSection(Section{Heading: "Unit", Fields: []Field{
		{"Name", res.UnitName},
		{"Path", res.Path},
		{"Descriptor", res.Descriptor},
	}})
	if res.Ambiguous() {
		v.AddSection(Section{Heading: "Candidates", Items: Items(StatusWarning, res.Candidates...)})
	}
	return v
}

// FromMetadata renders the stored parameters of an instance
func FromMetadata(dir string, m *metadata.Metadata, plugins []string) View {
	v := View{Title: m.ProjectName, Status: StatusInfo, Summary: dir}
	fields := []Field{
		{"Project", m.ProjectName},
		{"Content plugin", m.PluginName},
		{"Asset type", m.AssetType},
		{"MetaHuman", fmt.Sprintf("%t", m.IsMetaHuman)},
	}
	if m.EngineVersion != "" {
		fields = append(fields, Field{"Engine", m.EngineVersion})
	}
	if m.ToolVersion != "" {
		fields = append(fields, Field{"Tool version", m.ToolVersion})
	}
	if !m.CreatedAt.IsZero() {
		fields = append(fields, Field{"Created", humanize.Time(m.CreatedAt)})
	}
	if !m.UpdatedAt.IsZero() {
		fields = append(fields, Field{"Updated", humanize.Time(m.UpdatedAt)})
	}
	v.AddSection(Section{Heading: "Metadata", Fields: fields})
	v.AddSection(Section{Heading: "Plugins", Items: Items(StatusOK, plugins...)})
	return v
}

func buildSection(res *build.Result) Section {
	outcome := Item{Text: "build succeeded", Status: StatusOK}
	if !res.Succeeded() {
		outcome = Item{Text: "build failed", Status: StatusError}
	}
	return Section{
		Heading: "Build",
		Fields: []Field{
			{"Tool", res.Tool},
			{"Arguments", strings.Join(res.Args, " ")},
			{"Exit code", fmt.Sprintf("%d", res.ExitCode)},
			{"Duration", res.Duration.String()},
		},
		Items: []Item{outcome},
	}
}
