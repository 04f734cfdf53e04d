package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/internal/version"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			v := view.View{Title: "moddingtool", Summary: fmt.Sprintf("moddingtool version %s", info.Version)}
			v.AddSection(view.Section{Fields: []view.Field{
				{Key: "Version", Value: info.Version},
				{Key: "Commit", Value: info.Commit},
				{Key: "Built", Value: info.Date},
			}})
			return a.renderer.RenderResult(view.Result{Data: info, View: v})
		},
	}
}
