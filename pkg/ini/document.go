package ini

import (
	"strings"
)

// Op is the list operator carried by a line
type Op byte

const (
	OpNone   Op = 0
	OpAdd    Op = '+'
	OpRemove Op = '-'
)

// Section is a header such as "[/Script/Engine.Engine]" and its lines in order
type Section struct {
	Header string
	Lines  []string
}

// Document is an ordered set of sections with unique headers
type Document struct {
	sections []*Section
	index    map[string]*Section
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{index: map[string]*Section{}}
}

// Parse tokenizes text. Lines are trimmed; blank lines become empty
// placeholders in the current section; lines before the first header are
// dropped; repeated headers continue the earlier section.
func Parse(text string) *Document {
	doc := NewDocument()
	var current *Section

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			if current != nil {
				current.Lines = append(current.Lines, "")
			}
		case IsHeader(line):
			current = doc.Ensure(line)
		case current != nil:
			current.Lines = append(current.Lines, line)
		}
	}

	// strings.Split yields a final empty element for text ending in "\n"
	if current != nil && strings.HasSuffix(text, "\n") {
		n := len(current.Lines)
		if n > 0 && current.Lines[n-1] == "" {
			current.Lines = current.Lines[:n-1]
		}
	}
	return doc
}

// IsHeader reports whether a trimmed line opens a section
func IsHeader(line string) bool {
	return len(line) >= 2 && line[0] == '[' && line[len(line)-1] == ']'
}

// ParseLine returns the operator and key of a line. The key is the text
// before the first "=", trimmed, or the whole remaining text when there is
// no "=".
func ParseLine(line string) (Op, string) {
	op := OpNone
	rest := line
	if line != "" && (line[0] == '+' || line[0] == '-') {
		op = Op(line[0])
		rest = line[1:]
	}
	if i := strings.IndexByte(rest, '='); i >= 0 {
		return op, strings.TrimSpace(rest[:i])
	}
	return op, strings.TrimSpace(rest)
}

// Section returns the section with the given header, or nil
func (d *Document) Section(header string) *Section {
	return d.index[header]
}

// Sections returns the sections in document order
func (d *Document) Sections() []*Section {
	return d.sections
}

// Len returns the number of sections
func (d *Document) Len() int {
	return len(d.sections)
}

// Ensure returns the section with header, appending an empty one if needed
func (d *Document) Ensure(header string) *Section {
	if s, ok := d.index[header]; ok {
		return s
	}
	s := &Section{Header: header}
	d.sections = append(d.sections, s)
	d.index[header] = s
	return s
}

// Add appends lines to the section with header, creating it if needed.
// It returns d so desired documents can be built fluently.
func (d *Document) Add(header string, lines ...string) *Document {
	s := d.Ensure(header)
	s.Lines = append(s.Lines, lines...)
	return d
}

// Clone returns a deep copy of d
func (d *Document) Clone() *Document {
	out := NewDocument()
	for _, s := range d.sections {
		out.Add(s.Header, s.Lines...)
	}
	return out
}

// Lookup returns the value of the last scalar line for key in section
func (d *Document) Lookup(header, key string) (string, bool) {
	s := d.Section(header)
	if s == nil {
		return "", false
	}
	value, found := "", false
	for _, line := range s.Lines {
		op, k := ParseLine(line)
		if op != OpNone || k != key || line == "" {
			continue
		}
		if i := strings.IndexByte(line, '='); i >= 0 {
			value, found = strings.TrimSpace(line[i+1:]), true
		}
	}
	return value, found
}

// Render serializes the document. Sections are separated by one blank line
// and blank runs at the start or end of a section are dropped.
func (d *Document) Render() string {
	var b strings.Builder
	for i, s := range d.sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Header)
		b.WriteString("\n")
		for _, line := range trimBlank(s.Lines) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// String implements fmt.Stringer
func (d *Document) String() string {
	return d.Render()
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}
