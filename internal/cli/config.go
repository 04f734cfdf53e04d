package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}
	cmd.AddCommand(a.newConfigInitCmd())
	cmd.AddCommand(a.newConfigShowCmd())
	return cmd
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var (
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInit,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = config.FileName
			}
			if !force && filesystem.Exists(a.fs, output) {
				return errors.Newf(errors.ErrAlreadyExists, "%s already exists, use --force to overwrite it", output).WithPath(output)
			}
			if err := a.fs.WriteFile(output, []byte(config.DefaultsContent()), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", output).WithPath(output)
			}
			return a.renderer.RenderMessage(fmt.Sprintf(MsgConfigWritten, output))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

func (a *app) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: MsgConfigShow,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Render(a.loadOptions())
			if err != nil {
				return errors.Wrap(err, errors.ErrConfigLoad, "cannot render configuration")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
