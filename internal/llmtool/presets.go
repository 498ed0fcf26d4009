package llmtool

// PromptPreset holds reusable constraints and rules for structured prompts.
type PromptPreset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets prepends preset constraints/rules to a structured prompt spec.
func ApplyPresets(spec StructuredPromptSpec, presets ...PromptPreset) StructuredPromptSpec {
	if len(presets) == 0 {
		return spec
	}
	var merged PromptPreset
	for _, p := range presets {
		merged.Constraints = append(merged.Constraints, p.Constraints...)
		merged.Rules = append(merged.Rules, p.Rules...)
	}
	spec.Constraints = append(merged.Constraints, spec.Constraints...)
	spec.Rules = append(merged.Rules, spec.Rules...)
	return spec
}

// PresetStrictJSON enforces strict JSON-only output.
func PresetStrictJSON() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Return strict JSON only.",
			"Match the output fields exactly; no extra fields.",
			"No markdown fences, comments, or trailing commas.",
		},
	}
}

// PresetNoInvent keeps the model from fabricating places and links.
func PresetNoInvent() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Only name places, venues, and neighbourhoods that actually exist at the destination.",
			"Never invent URLs; build map links only from real place names.",
		},
	}
}

// PresetCautious asks for honest uncertainty instead of confident guesses.
func PresetCautious() PromptPreset {
	return PromptPreset{
		Rules: []string{
			"If unsure about opening hours, prices, or availability, say so in the notes instead of guessing.",
		},
	}
}
