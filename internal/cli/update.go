package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/orchestrator"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

type updateOptions struct {
	engine  string
	apiKey  string
	noBuild bool
}

func (a *app) newUpdateCmd() *cobra.Command {
	var opts updateOptions
	cmd := &cobra.Command{
		Use:     "update [project-dir]",
		Short:   MsgUpdateShort,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "project",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runUpdate(cmd, dir, opts)
		},
	}
	cmd.Flags().StringVar(&opts.engine, "engine", "", MsgFlagEngine)
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", MsgFlagAPIKey)
	cmd.Flags().BoolVar(&opts.noBuild, "no-build", false, MsgFlagNoBuild)
	return cmd
}

func (a *app) runUpdate(cmd *cobra.Command, dir string, opts updateOptions) error {
	projectDir, err := a.selectProject(dir)
	if err != nil {
		return err
	}
	engine, err := a.resolveEngine(opts.engine, true)
	if err != nil {
		return err
	}
	if opts.apiKey != "" {
		if err := unreal.ValidateAPIKey(opts.apiKey); err != nil {
			return err
		}
	}

	o, err := a.newOrchestrator(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	req := orchestrator.UpdateRequest{
		ProjectDir: projectDir,
		Engine:     *engine,
		APIKey:     opts.apiKey,
		Build:      !opts.noBuild,
	}

	var report *orchestrator.Report
	runErr := a.progress(fmt.Sprintf(MsgUpdating, filepath.Base(projectDir)), req.Build, func() error {
		var err error
		report, err = o.Update(cmd.Context(), req)
		return err
	})
	if report != nil {
		if err := a.renderer.RenderResult(view.Result{Data: report, View: view.FromReport(MsgUpdated, report)}); err != nil {
			return err
		}
	}
	return runErr
}

// selectProject resolves the project to work on: dir when given, the
// current directory when it is a project, the only project below it, or
// the user's choice among several
func (a *app) selectProject(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	wd, err := workingDir("")
	if err != nil {
		return "", err
	}
	essentials := a.cfg.Project.EssentialsDir
	if p, ok := unreal.FindProject(a.fs, wd, essentials); ok {
		return p.Dir, nil
	}

	projects, err := unreal.FindProjects(a.fs, wd, essentials)
	if err != nil {
		return "", err
	}
	switch len(projects) {
	case 0:
		return "", errors.Newf(errors.ErrNotFound, MsgNoProjects, wd).WithPath(wd)
	case 1:
		return projects[0].Dir, nil
	}

	names := make([]string, 0, len(projects))
	byName := make(map[string]string, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
		byName[p.Name] = p.Dir
	}
	choice, err := a.prompter.Select(MsgPromptProject, names, "")
	if err != nil {
		return "", err
	}
	return byName[choice], nil
}
