package view

import (
	"fmt"
	"sort"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
)

// ErrorData is the machine-readable form of a failure
type ErrorData struct {
	Error   string                 `json:"error" yaml:"error"`
	Code    errors.ErrorCode       `json:"code" yaml:"code"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewErrorData extracts the code and details of err
func NewErrorData(err error) ErrorData {
	return ErrorData{
		Error:   err.Error(),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	}
}

// FromError renders err with its code and details as fields
func FromError(err error) View {
	data := NewErrorData(err)
	v := View{Title: "Error", Status: StatusError, Summary: err.Error()}

	fields := []Field{{"Code", string(data.Code)}}
	keys := make([]string, 0, len(data.Details))
	for k := range data.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, Field{k, fmt.Sprint(data.Details[k])})
	}
	v.AddSection(Section{Fields: fields})
	return v
}
