// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/style"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

// Renderer provides rich terminal output using lipgloss styles
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders the view of result with styling
func (r *Renderer) RenderResult(result view.Result) error {
	_, err := fmt.Fprintln(r.output, Render(result.View))
	return err
}

// RenderError renders an error inside a red box
func (r *Renderer) RenderError(err error) error {
	v := view.FromError(err)
	lines := []string{style.ErrorStyle.Render(v.Summary)}
	for _, s := range v.Sections {
		lines = append(lines, fields(s.Fields)...)
	}
	_, werr := fmt.Fprintln(r.output, style.ErrorBoxStyle.Render(strings.Join(lines, "\n")))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.NormalStyle.Render(msg))
	return err
}

// Render formats v with the package styles
func Render(v view.View) string {
	var blocks []string

	header := []string{}
	if v.Title != "" {
		header = append(header, style.TitleStyle.Render(v.Title))
	}
	if v.Summary != "" {
		header = append(header, style.ForStatus(v.Status).Render(v.Summary))
	}
	if len(header) > 0 {
		blocks = append(blocks, style.BoxStyle.Render(strings.Join(header, "\n")))
	}

	for _, s := range v.Sections {
		var lines []string
		if s.Heading != "" {
			lines = append(lines, style.SubtitleStyle.Render(s.Heading))
		}
		lines = append(lines, fields(s.Fields)...)
		for _, item := range s.Items {
			marker := style.ForStatus(item.Status).Render(style.Symbol(item.Status))
			lines = append(lines, style.ListItemStyle.Render(marker+" "+style.NormalStyle.Render(item.Text)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func fields(fs []view.Field) []string {
	lines := make([]string, 0, len(fs))
	for _, f := range fs {
		lines = append(lines, style.ListItemStyle.Render(
			lipgloss.JoinHorizontal(lipgloss.Top, style.KeyStyle.Render(f.Key), style.PathStyle.Render(f.Value)),
		))
	}
	return lines
}
