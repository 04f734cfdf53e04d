package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/internal/version"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/build"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/fetch"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/orchestrator"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui"
)

// newOrchestrator wires an orchestrator to the network fetcher and the
// engine's build tool. Build output goes to stderr so stdout only carries
// the report.
func (a *app) newOrchestrator(stderr io.Writer) (*orchestrator.Orchestrator, error) {
	fetcher, err := fetch.New(fetch.Options{
		Download:   a.cfg.Download,
		S3:         a.cfg.S3,
		FileSystem: a.fs,
	})
	if err != nil {
		return nil, err
	}
	return orchestrator.New(orchestrator.Options{
		Config:      a.cfg,
		FileSystem:  a.fs,
		Fetcher:     fetcher,
		Builder:     build.NewBuilder(a.cfg.Build, stderr, stderr),
		ToolVersion: version.Version,
	})
}

// progress shows a spinner on an interactive stderr while fn runs. Runs that
// stream build output skip the spinner.
func (a *app) progress(msg string, streaming bool, fn func() error) error {
	if streaming || a.noInput || !ui.IsTerminal(os.Stderr) {
		return fn()
	}
	spinner, err := pterm.DefaultSpinner.WithWriter(os.Stderr).WithRemoveWhenDone(true).Start(msg)
	if err != nil {
		return fn()
	}
	if err := fn(); err != nil {
		spinner.Fail(fmt.Sprintf("%s: failed", msg))
		return err
	}
	return spinner.Stop()
}
