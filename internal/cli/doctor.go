package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/build"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

// check is one prerequisite and its outcome
type check struct {
	Name   string `json:"name" yaml:"name"`
	OK     bool   `json:"ok" yaml:"ok"`
	Detail string `json:"detail" yaml:"detail"`
}

func (a *app) newDoctorCmd() *cobra.Command {
	var engineFlag string
	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := a.doctor(engineFlag, os.LookupEnv)

			v := view.View{Title: "Doctor", Status: view.StatusOK, Summary: "All checks passed"}
			section := view.Section{Heading: "Checks"}
			failed := 0
			for _, c := range checks {
				status := view.StatusOK
				if !c.OK {
					status = view.StatusError
					failed++
				}
				section.Items = append(section.Items, view.Item{Text: fmt.Sprintf("%s: %s", c.Name, c.Detail), Status: status})
			}
			v.AddSection(section)
			if failed > 0 {
				v.Status = view.StatusError
				v.Summary = fmt.Sprintf(MsgChecksFailed, failed)
			}
			if err := a.renderer.RenderResult(view.Result{Data: checks, View: v}); err != nil {
				return err
			}
			if failed > 0 {
				return errors.Newf(errors.ErrInvalidInput, MsgChecksFailed, failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&engineFlag, "engine", "", MsgFlagEngine)
	return cmd
}

// doctor runs the prerequisite checks without prompting
func (a *app) doctor(engineFlag string, lookupEnv func(string) (string, bool)) []check {
	var checks []check

	engine, err := a.resolveEngine(engineFlag, false)
	if err != nil {
		checks = append(checks, check{Name: "engine", Detail: err.Error()})
	} else {
		checks = append(checks, check{Name: "engine", OK: true, Detail: fmt.Sprintf("%s at %s", engine.Version, engine.Path)})

		tool := build.NewBuilder(a.cfg.Build, nil, nil).Tool(engine.Path)
		if filesystem.Exists(a.fs, tool) {
			checks = append(checks, check{Name: "build tool", OK: true, Detail: tool})
		} else {
			checks = append(checks, check{Name: "build tool", Detail: "not found: " + tool})
		}

		template := filepath.Join(engine.Path, filepath.FromSlash(a.cfg.Engine.TemplateDir))
		if filesystem.IsDir(a.fs, template) {
			checks = append(checks, check{Name: "template", OK: true, Detail: template})
		} else {
			checks = append(checks, check{Name: "template", Detail: "not found: " + template})
		}
	}

	cc := a.cfg.CrossCompilation
	if root, err := unreal.CheckToolchain(a.fs, cc.EnvVar, cc.ToolchainVersion, lookupEnv); err != nil {
		checks = append(checks, check{Name: "cross-compilation toolchain", Detail: err.Error()})
	} else {
		checks = append(checks, check{Name: "cross-compilation toolchain", OK: true, Detail: root})
	}

	if a.cfg.Convai.APIKey == "" {
		checks = append(checks, check{Name: "api key", OK: true, Detail: "not configured, it will be asked for"})
	} else if err := unreal.ValidateAPIKey(a.cfg.Convai.APIKey); err != nil {
		checks = append(checks, check{Name: "api key", Detail: err.Error()})
	} else {
		checks = append(checks, check{Name: "api key", OK: true, Detail: "configured"})
	}
	return checks
}
