package cli

import (
	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

// inspection is what inspect reports about a project
type inspection struct {
	Dir               string             `json:"dir" yaml:"dir"`
	EngineAssociation string             `json:"engine_association,omitempty" yaml:"engine_association,omitempty"`
	Metadata          *metadata.Metadata `json:"metadata" yaml:"metadata"`
	Plugins           []unreal.PluginRef `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

func (a *app) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inspect [project-dir]",
		Short:   MsgInspectShort,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "project",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			projectDir, err := a.selectProject(dir)
			if err != nil {
				return err
			}
			res, err := a.inspect(projectDir)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(res.Plugins))
			for _, p := range res.Plugins {
				names = append(names, p.Name)
			}
			v := view.FromMetadata(projectDir, res.Metadata, names)
			return a.renderer.RenderResult(view.Result{Data: res, View: v})
		},
	}
}

func (a *app) inspect(projectDir string) (*inspection, error) {
	p := a.cfg.Project
	m, err := metadata.Read(a.fs, metadata.Path(projectDir, p.EssentialsDir, p.MetadataFile))
	if err != nil {
		return nil, err
	}
	res := &inspection{Dir: projectDir, Metadata: m}

	uproject := unreal.ProjectFile(projectDir, m.ProjectName)
	obj, err := unreal.ReadDescriptor(a.fs, uproject)
	if err != nil {
		return nil, err
	}
	if res.EngineAssociation, err = unreal.EngineAssociation(a.fs, uproject); err != nil {
		return nil, err
	}
	if _, err := obj.Get("Plugins", &res.Plugins); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "Plugins in %s is not a plugin list", uproject).WithPath(uproject)
	}
	return res, nil
}
