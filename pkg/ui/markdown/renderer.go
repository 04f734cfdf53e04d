// Package markdown renders results as markdown, styled for the terminal
// with glamour
package markdown

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

// Renderer writes markdown. With Raw set the markdown source is written
// unchanged, otherwise it goes through glamour first.
type Renderer struct {
	output io.Writer
	// Style is a glamour style name or path; empty or "auto" detects it
	Style string
	// Width wraps lines; 0 keeps glamour's default
	Width int
	Raw   bool
}

// New creates a new markdown renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output, Style: "auto"}, nil
}

// Render converts markdown to styled terminal output, falling back to the
// source when glamour cannot render it
func (r *Renderer) Render(content string) string {
	if r.Raw {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	log := logging.GetLogger("ui")
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		log.Debug().Err(err).Msg("Cannot create markdown renderer")
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		log.Debug().Err(err).Msg("Cannot render markdown")
		return content
	}
	return rendered
}

// RenderResult renders the view of result as markdown
func (r *Renderer) RenderResult(result view.Result) error {
	_, err := io.WriteString(r.output, r.Render(view.Markdown(result.View)))
	return err
}

// RenderError renders an error as markdown
func (r *Renderer) RenderError(err error) error {
	_, werr := io.WriteString(r.output, r.Render(view.Markdown(view.FromError(err))))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprint(r.output, r.Render(msg+"\n"))
	return err
}
