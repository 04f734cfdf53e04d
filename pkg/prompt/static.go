package prompt

import (
	"strconv"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
)

// Static answers prompts without a terminal: from Answers keyed by label,
// else from the prompt's default. A prompt with neither fails, as does an
// answer the validator rejects.
type Static struct {
	Answers map[string]string
}

func (s *Static) answer(label string) (string, bool) {
	v, ok := s.Answers[label]
	return v, ok
}

func (s *Static) Text(label, def string, validate Validator) (string, error) {
	v, ok := s.answer(label)
	if !ok {
		v = def
	}
	if v == "" && validate != nil {
		return "", missing(label)
	}
	if err := check(validate, v); err != nil {
		return "", errors.Wrapf(err, errors.ErrPrompt, "invalid value for %q", label)
	}
	return v, nil
}

func (s *Static) Secret(label string, validate Validator) (string, error) {
	v, ok := s.answer(label)
	if !ok {
		return "", missing(label)
	}
	if err := check(validate, v); err != nil {
		return "", errors.Wrapf(err, errors.ErrPrompt, "invalid value for %q", label)
	}
	return v, nil
}

func (s *Static) Select(label string, options []string, def string) (string, error) {
	v, ok := s.answer(label)
	if !ok {
		v = def
	}
	for _, o := range options {
		if o == v {
			return v, nil
		}
	}
	if v == "" {
		return "", missing(label)
	}
	return "", errors.Newf(errors.ErrPrompt, "%q is not one of %v", v, options).WithDetail("prompt", label)
}

func (s *Static) Confirm(label string, def bool) (bool, error) {
	v, ok := s.answer(label)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrPrompt, "invalid yes/no value for %q", label)
	}
	return b, nil
}
