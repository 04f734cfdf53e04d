package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/archive"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ini"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/rewrite"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

func (a *app) newRewriteCmd() *cobra.Command {
	var textExts []string
	cmd := &cobra.Command{
		Use:     "rewrite <dir> <old> <new>",
		Short:   MsgRewriteShort,
		Args:    cobra.ExactArgs(3),
		GroupID: "tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			exts := textExts
			if len(exts) == 0 {
				exts = a.cfg.Project.TextExtensions
			}
			res, err := rewrite.Rewrite(rewrite.Options{
				Root:           args[0],
				OldToken:       args[1],
				NewToken:       args[2],
				TextExtensions: exts,
				FileSystem:     a.fs,
			})
			if err != nil {
				return err
			}
			return a.renderer.RenderResult(view.Result{Data: res, View: view.FromRewrite(args[0], res)})
		},
	}
	cmd.Flags().StringSliceVar(&textExts, "text-ext", nil, MsgFlagTextExt)
	return cmd
}

// mergeResult is what merge-ini reports
type mergeResult struct {
	Target   string `json:"target" yaml:"target"`
	Desired  string `json:"desired" yaml:"desired"`
	Sections int    `json:"sections" yaml:"sections"`
}

func (a *app) newMergeIniCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "merge-ini <target.ini> <desired.ini>",
		Short:   MsgMergeIniShort,
		Args:    cobra.ExactArgs(2),
		GroupID: "tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, desiredPath := args[0], args[1]
			desired, err := ini.Load(a.fs, desiredPath)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read desired settings %s", desiredPath).WithPath(desiredPath)
			}
			if err := ini.MergeInto(a.fs, target, desired); err != nil {
				return err
			}

			res := mergeResult{Target: target, Desired: desiredPath, Sections: desired.Len()}
			v := view.View{Title: "Merge", Status: view.StatusOK, Summary: fmt.Sprintf(MsgMerged, filepath.Base(desiredPath), target)}
			headers := make([]string, 0, desired.Len())
			for _, s := range desired.Sections() {
				headers = append(headers, s.Header)
			}
			v.AddSection(view.Section{Heading: "Sections", Items: view.Items(view.StatusOK, headers...)})
			return a.renderer.RenderResult(view.Result{Data: res, View: v})
		},
	}
}

func (a *app) newInstallCmd() *cobra.Command {
	var ext string
	cmd := &cobra.Command{
		Use:     "install <archive> <dest-root>",
		Short:   MsgInstallShort,
		Args:    cobra.ExactArgs(2),
		GroupID: "tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ext == "" {
				ext = a.cfg.Project.DescriptorExt
			}
			res, err := archive.Install(archive.InstallOptions{
				ArchivePath:   args[0],
				DestRoot:      args[1],
				DescriptorExt: ext,
				FileSystem:    a.fs,
			})
			if err != nil {
				return err
			}
			return a.renderer.RenderResult(view.Result{Data: res, View: view.FromInstall(args[0], res)})
		},
	}
	cmd.Flags().StringVar(&ext, "ext", "", MsgFlagExt)
	return cmd
}
