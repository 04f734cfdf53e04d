// Package view holds the presentation model shared by the human-readable
// renderers. Commands turn their results into a View; the json and yaml
// renderers encode the underlying data instead.
package view

import (
	"fmt"
	"strings"
)

// Status classifies a View or a line inside it
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusInfo    Status = "info"
)

// Field is one key/value line
type Field struct {
	Key   string
	Value string
}

// Item is one list entry with an optional status
type Item struct {
	Text   string
	Status Status
}

// Section groups fields and items under a heading
type Section struct {
	Heading string
	Fields  []Field
	Items   []Item
}

// Empty reports whether the section has nothing to show
func (s Section) Empty() bool {
	return len(s.Fields) == 0 && len(s.Items) == 0
}

// View is a titled, sectioned rendering of a result
type View struct {
	Title    string
	Status   Status
	Summary  string
	Sections []Section
}

// AddSection appends s unless it is empty
func (v *View) AddSection(s Section) {
	if s.Empty() {
		return
	}
	v.Sections = append(v.Sections, s)
}

// Result pairs the data behind a command with its View
type Result struct {
	Data interface{}
	View View
}

// Items converts plain strings into items with the same status
func Items(status Status, texts ...string) []Item {
	items := make([]Item, 0, len(texts))
	for _, t := range texts {
		items = append(items, Item{Text: t, Status: status})
	}
	return items
}

// Markdown renders v as a markdown document
func Markdown(v View) string {
	var b strings.Builder
	if v.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", v.Title)
	}
	if v.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", v.Summary)
	}
	for _, s := range v.Sections {
		if s.Heading != "" {
			fmt.Fprintf(&b, "## %s\n\n", s.Heading)
		}
		if len(s.Fields) > 0 {
			b.WriteString("| | |\n|---|---|\n")
			for _, f := range s.Fields {
				fmt.Fprintf(&b, "| **%s** | `%s` |\n", f.Key, escapeCell(f.Value))
			}
			b.WriteString("\n")
		}
		for _, item := range s.Items {
			fmt.Fprintf(&b, "- %s%s\n", marker(item.Status), item.Text)
		}
		if len(s.Items) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func marker(s Status) string {
	switch s {
	case StatusWarning:
		return "**warning:** "
	case StatusError:
		return "**error:** "
	default:
		return ""
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
