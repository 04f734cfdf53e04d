package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/internal/version"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/prompt"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/style"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui"
)

// app carries the global flags and what PersistentPreRunE builds from them
type app struct {
	verbosity  int
	configFile string
	noInput    bool
	format     string

	cfg      *config.Config
	fs       filesystem.FS
	renderer ui.Renderer
	prompter prompt.Prompter
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	rootCmd := a.rootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		a.reportError(os.Stderr, err)
		return 1
	}
	return 0
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "moddingtool",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.setup(cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&a.noInput, "no-input", false, MsgFlagNoInput)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(
		&cobra.Group{ID: "project", Title: "PROJECTS:"},
		&cobra.Group{ID: "tools", Title: "TOOLS:"},
		&cobra.Group{ID: "misc", Title: "MISC:"},
	)

	rootCmd.AddCommand(a.newCreateCmd())
	rootCmd.AddCommand(a.newUpdateCmd())
	rootCmd.AddCommand(a.newInspectCmd())
	rootCmd.AddCommand(a.newRewriteCmd())
	rootCmd.AddCommand(a.newMergeIniCmd())
	rootCmd.AddCommand(a.newInstallCmd())
	rootCmd.AddCommand(a.newDoctorCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(a.newVersionCmd())

	return rootCmd
}

// setup loads .env and the configuration, and builds the renderer and the
// prompter for the chosen format
func (a *app) setup(out io.Writer) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Cannot load .env file")
	}

	format, err := ui.ParseFormat(a.format)
	if err != nil {
		return err
	}
	if a.renderer, err = ui.NewRenderer(format, out); err != nil {
		return err
	}

	if a.cfg, err = a.loadConfig(); err != nil {
		return err
	}
	a.fs = filesystem.NewOS()
	a.prompter = prompt.New(a.noInput)
	return nil
}

func (a *app) loadOptions() config.LoadOptions {
	opts := config.LoadOptions{File: a.configFile}
	if opts.File == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.Dir = wd
		}
	}
	return opts
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.loadOptions())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load configuration")
	}
	return cfg, nil
}

// reportError renders err on w in the chosen format. Before setup ran, or
// when the format itself is invalid, it falls back to a styled line.
func (a *app) reportError(w io.Writer, err error) {
	format, ferr := ui.ParseFormat(a.format)
	if ferr == nil {
		if r, rerr := ui.NewRenderer(format, w); rerr == nil && r.RenderError(err) == nil {
			return
		}
	}
	fmt.Fprintln(w, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
}

// workingDir returns dir, or the current directory when dir is empty
func workingDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine the current directory")
	}
	return wd, nil
}
