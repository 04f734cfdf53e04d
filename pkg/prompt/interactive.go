package prompt

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
)

// Interactive asks on the terminal with pterm widgets. Invalid answers are
// reported and asked again.
type Interactive struct{}

// NewInteractive returns a terminal prompter
func NewInteractive() *Interactive {
	return &Interactive{}
}

func (p *Interactive) Text(label, def string, validate Validator) (string, error) {
	for {
		answer, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(def).Show(label)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrPrompt, "cannot read %s", label)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = def
		}
		if err := check(validate, answer); err != nil {
			pterm.Warning.Println(err.Error())
			continue
		}
		return answer, nil
	}
}

func (p *Interactive) Secret(label string, validate Validator) (string, error) {
	for {
		answer, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show(label)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrPrompt, "cannot read %s", label)
		}
		answer = strings.TrimSpace(answer)
		if err := check(validate, answer); err != nil {
			pterm.Warning.Println(err.Error())
			continue
		}
		return answer, nil
	}
}

func (p *Interactive) Select(label string, options []string, def string) (string, error) {
	sel := pterm.DefaultInteractiveSelect.WithOptions(options)
	if def != "" {
		sel = sel.WithDefaultOption(def)
	}
	answer, err := sel.Show(label)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPrompt, "cannot read %s", label)
	}
	return answer, nil
}

func (p *Interactive) Confirm(label string, def bool) (bool, error) {
	answer, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(def).Show(label)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrPrompt, "cannot read %s", label)
	}
	return answer, nil
}

func check(validate Validator, answer string) error {
	if validate == nil {
		return nil
	}
	return validate(answer)
}
