// Package prompt asks the user for the values a materialization needs.
// The engine never reads from a terminal itself; commands gather input
// through a Prompter and pass plain values down.
package prompt

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
)

// Validator rejects an answer with an error explaining why
type Validator func(string) error

// Prompter is the interactive input contract
type Prompter interface {
	Text(label, def string, validate Validator) (string, error)
	Secret(label string, validate Validator) (string, error)
	Select(label string, options []string, def string) (string, error)
	Confirm(label string, def bool) (bool, error)
}

// IsInteractive reports whether f is a terminal a user can answer on
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New returns an interactive prompter when stdin is a terminal and input is
// allowed, and a Static prompter answering from defaults otherwise
func New(noInput bool) Prompter {
	if !noInput && IsInteractive(os.Stdin) {
		return NewInteractive()
	}
	return &Static{}
}

func missing(label string) error {
	return errors.Newf(errors.ErrPrompt, "no value for %q and input is disabled", label).WithDetail("prompt", label)
}
