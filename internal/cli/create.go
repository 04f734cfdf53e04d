package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/metadata"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/orchestrator"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/unreal"
)

type createOptions struct {
	name       string
	engine     string
	apiKey     string
	assetType  string
	metaHuman  bool
	noBuild    bool
	root       string
	pluginName string
}

func (a *app) newCreateCmd() *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:     "create",
		Short:   MsgCreateShort,
		Args:    cobra.NoArgs,
		GroupID: "project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCreate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", MsgFlagName)
	cmd.Flags().StringVar(&opts.engine, "engine", "", MsgFlagEngine)
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", MsgFlagAPIKey)
	cmd.Flags().StringVar(&opts.assetType, "asset-type", "", MsgFlagAssetType)
	cmd.Flags().BoolVar(&opts.metaHuman, "metahuman", false, MsgFlagMetaHuman)
	cmd.Flags().BoolVar(&opts.noBuild, "no-build", false, MsgFlagNoBuild)
	cmd.Flags().StringVar(&opts.root, "root", "", MsgFlagRoot)
	cmd.Flags().StringVar(&opts.pluginName, "plugin-name", "", MsgFlagPlugin)
	return cmd
}

func (a *app) runCreate(cmd *cobra.Command, opts createOptions) error {
	engine, err := a.resolveEngine(opts.engine, true)
	if err != nil {
		return err
	}
	root, err := workingDir(opts.root)
	if err != nil {
		return err
	}

	maxLen := a.cfg.Project.MaxNameLength
	name := opts.name
	if name == "" {
		if name, err = a.prompter.Text(MsgPromptName, "", func(s string) error {
			return unreal.ValidateProjectName(s, maxLen)
		}); err != nil {
			return err
		}
	}

	apiKey, err := a.apiKey(opts.apiKey)
	if err != nil {
		return err
	}

	assetType := opts.assetType
	if assetType == "" {
		if assetType, err = a.prompter.Select(MsgPromptAssetType, []string{metadata.AssetScene, metadata.AssetAvatar}, metadata.AssetScene); err != nil {
			return err
		}
	}
	metaHuman := opts.metaHuman
	if assetType == metadata.AssetAvatar && !cmd.Flags().Changed("metahuman") {
		if metaHuman, err = a.prompter.Confirm(MsgPromptMetaHuman, false); err != nil {
			return err
		}
	}

	o, err := a.newOrchestrator(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	req := orchestrator.CreateRequest{
		Root:        root,
		ProjectName: name,
		Engine:      *engine,
		APIKey:      apiKey,
		AssetType:   assetType,
		IsMetaHuman: metaHuman,
		PluginName:  opts.pluginName,
		Build:       !opts.noBuild,
	}

	var report *orchestrator.Report
	runErr := a.progress(fmt.Sprintf(MsgCreating, name), req.Build, func() error {
		var err error
		report, err = o.Create(cmd.Context(), req)
		return err
	})
	if report != nil {
		if err := a.renderer.RenderResult(view.Result{Data: report, View: view.FromReport(MsgCreated, report)}); err != nil {
			return err
		}
	}
	return runErr
}

// apiKey returns the flag, the configured key, or asks for one
func (a *app) apiKey(flag string) (string, error) {
	key := flag
	if key == "" {
		key = a.cfg.Convai.APIKey
	}
	if key != "" {
		return key, unreal.ValidateAPIKey(key)
	}
	return a.prompter.Secret(MsgPromptAPIKey, unreal.ValidateAPIKey)
}
