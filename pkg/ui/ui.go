// Package ui provides a unified interface for rendering output in different formats.
// It supports terminal (rich), text (plain), markdown, JSON and YAML output.
package ui

import (
	"io"
	"os"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/json"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/markdown"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/terminal"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/text"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a command result
	RenderResult(result view.Result) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatTerminal, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	case FormatYAML:
		return yaml.New(output)
	case FormatMarkdown:
		r, err := markdown.New(output)
		if err != nil {
			return nil, err
		}
		if file, ok := output.(*os.File); !ok || !IsTerminal(file) {
			r.Raw = true
		}
		return r, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
