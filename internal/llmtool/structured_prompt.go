package llmtool

import (
	"bytes"
	"fmt"
	"strings"

	"wandergenie/internal/util/jsonutil"
)

// PromptField describes a single output field in a simple schema.
type PromptField struct {
	Name        string
	Type        string
	Required    bool
	Description string
	// Hint carries constraints taken from validate tags (enum, range, prefix).
	Hint string
}

// PromptExample captures an optional input/output example.
type PromptExample struct {
	Title      string
	InputJSON  string
	OutputJSON string
}

// Section is a titled block of prompt text. A section with an empty body
// is not rendered.
type Section struct {
	Title string
	Body  string
}

// When returns s if cond holds and the zero Section otherwise.
func When(cond bool, s Section) Section {
	if !cond {
		return Section{}
	}
	return s
}

// StructuredPromptSpec defines the sections for a structured prompt.
type StructuredPromptSpec struct {
	Purpose      string
	Background   string
	OutputFields []PromptField
	Constraints  []string
	Rules        []string
	Assumptions  []string
	// Sections are rendered after RULES in order. Use When for blocks that
	// depend on a request flag.
	Sections     []Section
	OutputFormat string
	Language     string
	Examples     []PromptExample
}

// Render produces the instruction text for spec and input. It has no side
// effects; equal arguments always give equal output. A nil input omits the
// INPUT section.
func Render(spec StructuredPromptSpec, input any) (string, error) {
	if strings.TrimSpace(spec.Purpose) == "" {
		return "", fmt.Errorf("llmtool: purpose is empty")
	}
	if len(spec.OutputFields) == 0 {
		return "", fmt.Errorf("llmtool: output fields are empty")
	}
	inputJSON, err := formatAnyJSON(input)
	if err != nil {
		return "", fmt.Errorf("llmtool: encode input: %w", err)
	}

	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", spec.Purpose)
	writeSection(&buf, "BACKGROUND", spec.Background)
	writeSection(&buf, "INPUT", inputJSON)
	writeSection(&buf, "OUTPUT", formatFields(spec.OutputFields))
	writeSection(&buf, "CONSTRAINTS", formatList(spec.Constraints))
	writeSection(&buf, "RULES", formatList(spec.Rules))
	writeSection(&buf, "ASSUMPTIONS", formatList(spec.Assumptions))
	for _, s := range spec.Sections {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		writeSection(&buf, strings.ToUpper(s.Title), s.Body)
	}
	writeSection(&buf, "OUTPUT_FORMAT", spec.OutputFormat)
	writeSection(&buf, "LANGUAGE", spec.Language)
	if len(spec.Examples) > 0 {
		writeSection(&buf, "EXAMPLES", formatExamples(spec.Examples))
	}

	return strings.TrimSpace(buf.String()) + "\n", nil
}


func formatAnyJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := jsonutil.MarshalIndent(v, "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatFields(fields []PromptField) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&buf, "- %s (%s, %s)", name, f.Type, req)
		if f.Description != "" {
			fmt.Fprintf(&buf, ": %s", f.Description)
		}
		if f.Hint != "" {
			fmt.Fprintf(&buf, " [%s]", f.Hint)
		}
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatExamples(examples []PromptExample) string {
	var buf strings.Builder
	for i, ex := range examples {
		if ex.Title != "" {
			fmt.Fprintf(&buf, "Example %d (%s):\n", i+1, ex.Title)
		} else {
			fmt.Fprintf(&buf, "Example %d:\n", i+1)
		}
		writeBlock(&buf, "INPUT", ex.InputJSON)
		writeBlock(&buf, "OUTPUT", ex.OutputJSON)
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeBlock(buf *strings.Builder, label, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString(label)
	buf.WriteString(":\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
