// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	output  io.Writer
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{
		output:  output,
		encoder: encoder,
	}, nil
}

// RenderResult encodes the data behind result
func (r *Renderer) RenderResult(result view.Result) error {
	if result.Data == nil {
		return r.encoder.Encode(map[string]string{"message": result.View.Summary})
	}
	return r.encoder.Encode(result.Data)
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(view.NewErrorData(err))
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	messageObj := map[string]string{
		"message": msg,
	}
	return r.encoder.Encode(messageObj)
}
