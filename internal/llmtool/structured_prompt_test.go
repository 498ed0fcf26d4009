package llmtool

import (
	"strings"
	"testing"
)

func TestRender_RendersSections(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "Plan a trip.",
		Background:   "Travel planner.",
		OutputFormat: "JSON only.",
		Language:     "English",
		OutputFields: []PromptField{
			{Name: "summary", Type: "string", Required: true, Description: "Short summary."},
			{Name: "tags", Type: "[]string", Required: false},
		},
		Constraints: []string{"No markdown."},
		Rules:       []string{"Be concise."},
		Assumptions: []string{"If unsure, return empty strings."},
		Sections:    []Section{{Title: "safety", Body: "Stay safe."}},
		Examples: []PromptExample{
			{Title: "standard", InputJSON: `{"city":"x"}`, OutputJSON: `{"summary":"ok"}`},
		},
	}

	out, err := Render(spec, map[string]any{"city": "Lisbon"})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	wantSections := []string{
		"[PURPOSE]",
		"[BACKGROUND]",
		"[INPUT]",
		"[OUTPUT]",
		"[CONSTRAINTS]",
		"[RULES]",
		"[ASSUMPTIONS]",
		"[SAFETY]",
		"[OUTPUT_FORMAT]",
		"[LANGUAGE]",
		"[EXAMPLES]",
	}
	last := -1
	for _, sec := range wantSections {
		idx := strings.Index(out, sec)
		if idx < 0 {
			t.Fatalf("expected section %s in prompt", sec)
		}
		if idx < last {
			t.Fatalf("section %s out of order", sec)
		}
		last = idx
	}
	if !strings.Contains(out, `"city": "Lisbon"`) {
		t.Fatalf("expected input JSON in prompt, got:\n%s", out)
	}
	if !strings.Contains(out, "- summary (string, required): Short summary.") {
		t.Fatalf("expected field list in prompt, got:\n%s", out)
	}
	if !strings.Contains(out, "Example 1 (standard):") {
		t.Fatalf("expected titled example, got:\n%s", out)
	}
}

func TestRender_IsDeterministic(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "x",
		OutputFields: []PromptField{{Name: "a", Type: "string", Required: true}},
	}
	input := map[string]any{"b": 2, "a": 1, "c": []string{"z", "y"}}
	first, err := Render(spec, input)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Render(spec, input)
		if err != nil {
			t.Fatalf("render error: %v", err)
		}
		if again != first {
			t.Fatalf("render not deterministic:\n%s\nvs\n%s", first, again)
		}
	}
}

func TestRender_NilInputOmitsInputSection(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "Transcribe.",
		OutputFields: []PromptField{{Name: "text", Type: "string", Required: true}},
	}
	out, err := Render(spec, nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if strings.Contains(out, "[INPUT]") {
		t.Fatalf("unexpected INPUT section:\n%s", out)
	}
}

func TestWhen_TogglesSection(t *testing.T) {
	block := Section{Title: "SAFETY_RULES", Body: "Prefer well-lit areas."}
	spec := func(flag bool) StructuredPromptSpec {
		return StructuredPromptSpec{
			Purpose:      "x",
			OutputFields: []PromptField{{Name: "a", Type: "string", Required: true}},
			Sections:     []Section{When(flag, block)},
		}
	}
	on, err := Render(spec(true), nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	off, err := Render(spec(false), nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(on, "[SAFETY_RULES]\nPrefer well-lit areas.") {
		t.Fatalf("expected conditional section when flag set:\n%s", on)
	}
	if strings.Contains(off, "SAFETY_RULES") || strings.Contains(off, "well-lit") {
		t.Fatalf("conditional section leaked when flag unset:\n%s", off)
	}
	if strings.Contains(off, "\n\n\n") {
		t.Fatalf("dropped section left blank lines:\n%q", off)
	}
}

func TestRender_RequiresPurpose(t *testing.T) {
	spec := StructuredPromptSpec{
		OutputFields: []PromptField{{Name: "summary", Type: "string", Required: true}},
	}
	_, err := Render(spec, map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "purpose") {
		t.Fatalf("expected purpose error, got %v", err)
	}
}

func TestRender_RequiresOutputFields(t *testing.T) {
	spec := StructuredPromptSpec{Purpose: "x"}
	_, err := Render(spec, map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "output fields") {
		t.Fatalf("expected output fields error, got %v", err)
	}
}

func TestApplyPresets_PrependConstraintsAndRules(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "x",
		OutputFields: []PromptField{{Name: "summary", Type: "string", Required: true}},
		Constraints:  []string{"spec-constraint"},
		Rules:        []string{"spec-rule"},
	}
	preset := PromptPreset{
		Constraints: []string{"preset-constraint"},
		Rules:       []string{"preset-rule"},
	}
	applied := ApplyPresets(spec, preset)
	if len(applied.Constraints) < 2 || applied.Constraints[0] != "preset-constraint" {
		t.Fatalf("expected preset constraint prepended, got %+v", applied.Constraints)
	}
	if len(applied.Rules) < 2 || applied.Rules[0] != "preset-rule" {
		t.Fatalf("expected preset rule prepended, got %+v", applied.Rules)
	}
}
