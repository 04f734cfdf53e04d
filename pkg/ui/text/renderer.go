// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders the view of result as plain text
func (r *Renderer) RenderResult(result view.Result) error {
	_, err := io.WriteString(r.output, Render(result.View))
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	v := view.FromError(err)
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", v.Summary)
	for _, s := range v.Sections {
		writeFields(&b, s.Fields)
	}
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// Render formats v without styling
func Render(v view.View) string {
	var b strings.Builder
	if v.Title != "" {
		fmt.Fprintln(&b, v.Title)
	}
	if v.Summary != "" {
		fmt.Fprintln(&b, v.Summary)
	}
	for _, s := range v.Sections {
		b.WriteString("\n")
		if s.Heading != "" {
			fmt.Fprintf(&b, "%s:\n", s.Heading)
		}
		writeFields(&b, s.Fields)
		for _, item := range s.Items {
			fmt.Fprintf(&b, "  %s %s\n", prefix(item.Status), item.Text)
		}
	}
	return b.String()
}

func writeFields(b *strings.Builder, fields []view.Field) {
	width := 0
	for _, f := range fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	for _, f := range fields {
		fmt.Fprintf(b, "  %-*s  %s\n", width+1, f.Key+":", f.Value)
	}
}

func prefix(s view.Status) string {
	switch s {
	case view.StatusWarning:
		return "!"
	case view.StatusError:
		return "x"
	case view.StatusOK:
		return "+"
	default:
		return "-"
	}
}
