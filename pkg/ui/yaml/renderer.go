// Package yaml renders results as YAML documents
package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

// Renderer writes one YAML document per call
type Renderer struct {
	output io.Writer
}

// New creates a new YAML renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

func (r *Renderer) encode(v interface{}) error {
	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// RenderResult encodes the data behind result
func (r *Renderer) RenderResult(result view.Result) error {
	if result.Data == nil {
		return r.encode(map[string]string{"message": result.View.Summary})
	}
	return r.encode(result.Data)
}

// RenderError renders an error as YAML
func (r *Renderer) RenderError(err error) error {
	return r.encode(view.NewErrorData(err))
}

// RenderMessage renders a simple message as YAML
func (r *Renderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}
