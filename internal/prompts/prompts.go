// Package prompts holds the named instruction templates sent to the text
// model. Every template is a pure function of its typed request.
package prompts

import (
	"fmt"
	"strings"

	"wandergenie/internal/llmtool"
	"wandergenie/internal/types"
)

// Template phases. They double as oracle phase names.
const (
	PhaseItinerary     = "itinerary"
	PhaseHighlights    = "highlights"
	PhaseChat          = "chat"
	PhaseTranscription = "transcription"
	PhaseTranslation   = "translation"
	PhaseSpeech        = "speech"
)

var (
	itineraryFields     = llmtool.MustFieldsFromStruct(types.ItineraryResponse{})
	highlightsFields    = llmtool.MustFieldsFromStruct(types.HighlightsResponse{})
	chatFields          = llmtool.MustFieldsFromStruct(types.ChatResponse{})
	transcriptionFields = llmtool.MustFieldsFromStruct(types.TranscriptionResponse{})
	translationFields   = llmtool.MustFieldsFromStruct(types.TranslatedText{})
)

// Itinerary renders the day-by-day planning instruction.
func Itinerary(req types.ItineraryRequest) (string, error) {
	spec := llmtool.StructuredPromptSpec{
		Purpose: "You are an expert travel planner and designer. Transform the user's request into a highly aesthetic, stylish, and readable day-by-day travel itinerary that people will actually enjoy reading.",
		Background: lines(
			"User Request:",
			"- Destination: "+req.Destination,
			"- Preferences: "+req.Preferences,
			fmt.Sprintf("- Duration: %d days", req.Duration),
			"- Budget: "+string(req.Budget),
		),
		OutputFields: itineraryFields,
		Rules: []string{
			fmt.Sprintf("Produce exactly %d day objects, one per day of the trip, in order.", req.Duration),
			`day is "Day X"; date is "YYYY-MM-DD" starting from today's date.`,
			"morning, afternoon and evening include time blocks (e.g., 9:00-12:00), emojis, a short description, and key activities in bold.",
			`accommodation gives a stylish name and an optional highlight (e.g., "**The Grand Parisian**, Rooftop view of the Eiffel Tower").`,
			"notes mix secret spots, photo/selfie tips, local travel hacks, and safety tips.",
			"Break long paragraphs into short, punchy sentences.",
			"Add relevant emojis for activities (e.g., 🏰, 🍷, 🖼️, 🛶).",
			"Highlight must-visit landmarks in bold.",
			"Include specific time allocations for each activity.",
			"Add offbeat/secret places, local food/cafe recommendations, and interactive tips (e.g., best photo spots, reservation advice).",
			"Keep the tone readable and fun; avoid heavy, dense text.",
			budgetRule(req.Budget),
		},
		Sections: []llmtool.Section{
			llmtool.When(req.IsSoloFemaleTraveler, llmtool.Section{
				Title: "SPECIAL_CONSIDERATION",
				Body:  "User is a Solo Female Traveler. Prioritize safety above all else.",
			}),
			llmtool.When(req.IsSoloFemaleTraveler, llmtool.Section{
				Title: "WOMEN_SAFETY_RULES",
				Body:  womenSafetyRules,
			}),
		},
		OutputFormat: `A strict JSON object {"itinerary": [...]} where each element represents a single day. Do not output any text outside of the JSON.`,
		Examples: []llmtool.PromptExample{
			{Title: "single day for a standard user", OutputJSON: standardDayExample},
			{Title: "single day for a SOLO FEMALE TRAVELER", OutputJSON: soloDayExample},
		},
	}
	spec = llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON(), llmtool.PresetNoInvent(), llmtool.PresetCautious())
	return llmtool.Render(spec, req)
}

func budgetRule(b types.Budget) string {
	base := "Tailor all recommendations (activities, food, accommodation) to the specified budget. "
	switch b {
	case types.BudgetFriendly:
		return base + "For this budget-friendly trip, suggest free activities, street food, and hostels."
	case types.BudgetLuxury:
		return base + "For this luxury trip, suggest private tours, fine dining, and 5-star hotels."
	default:
		return base + "For this balanced trip, mix free and paid activities, casual and upscale dining, and mid-range stays."
	}
}

const womenSafetyRules = `CRITICAL:
- Accommodation: ONLY recommend hotels/hostels in well-lit, central, and reputable neighborhoods known for safety. Mention why the area is safe.
- Activities & Timing: Prioritize daytime activities. For evening activities, suggest group tours, well-populated areas, or early evening plans. Avoid suggesting late-night solo wandering or clubs in dubious areas.
- Transportation: Recommend trusted taxi apps (like Uber/Lyft if available, or a specific local equivalent), and public transport options known for being safe.
- Notes & Tips: This is the most important section for safety. Each day's notes MUST include:
  - Local emergency number (e.g., Police: 112).
  - A specific, practical safety tip (e.g., "Always share your live location with a friend", "Opt for pre-booked taxis at night instead of hailing one.").
  - Advice on cultural etiquette or dress code if relevant to safety.`

const standardDayExample = `{
  "day": "Day 1",
  "date": "2025-10-01",
  "morning": "🛫 9:00–12:00: Arrive in Paris, check into **Hotel Le Meurice**. Quick coffee at local café ☕.",
  "afternoon": "🖼️ 12:00–16:00: Explore **Louvre Museum**. Must-see: Mona Lisa, Venus de Milo. Secret tip: Visit Egyptian Antiquities wing first to avoid crowds.",
  "evening": "🌆 17:00–20:00: Stroll **Tuileries Garden**, enjoy sunset at Place de la Concorde. Dinner at Le Fumoir 🍷.",
  "accommodation": "**Hotel Le Meurice**, First Arrondissement",
  "notes": "Take metro line 1 for quick access. Best photo spot: Arc de Triomphe in evening."
}`

const soloDayExample = `{
  "day": "Day 1",
  "date": "2025-10-01",
  "morning": "🛫 9:00–12:00: Arrive in Paris (CDG), take an official taxi to **Hotel Adèle & Jules** in the safe 9th Arr. Settle in with a coffee ☕.",
  "afternoon": "🖼️ 12:00–16:00: Explore the charming **Le Marais district**. Lots of boutiques and cafes. It's a very walkable and busy area, great for solo exploration.",
  "evening": "🌆 17:00–19:30: Early evening visit to **Montmartre & Sacré-Cœur**. Stick to the main streets as it gets dark. Dinner at a well-reviewed restaurant like 'La Boîte aux Lettres'.",
  "accommodation": "**Hotel Adèle & Jules**, 9th Arr. - Known for its safe, central location.",
  "notes": "Emergency: 112. Use the 'G7 Taxi' app for reliable transport. For evenings, pre-book your restaurant and let someone know your plans. Best photo spot: Place du Tertre in Montmartre during the day."
}`

// Highlights renders the destination research instruction.
func Highlights(req types.HighlightsRequest) (string, error) {
	spec := llmtool.StructuredPromptSpec{
		Purpose:      "You are an expert travel researcher and data analyst. For the given destination, provide a detailed and structured list of tourist attractions and regional highlights.",
		Background:   "Destination: " + req.Destination,
		OutputFields: highlightsFields,
		Rules: []string{
			"Tourist spots: identify 5-7 major tourist attractions, each with a concise and appealing description.",
			fmt.Sprintf("For each spot provide a valid, direct URL to a Google Maps 360-degree Street View or Photo Sphere for that exact location. The URL must start with %q or %q.", types.MapsURLPrefix+"/", types.MapsURLPrefix+"?"),
			`Provide a "safetyScore" for solo female travelers as a percentage (0-100), where 100 is safest. Base it on crime rates (specifically against women if possible), general reputation, and tourist-friendliness.`,
			`Provide a brief "safetyJustification" explaining the score.`,
			"Regional highlights: identify 3-4 distinct states or regions within the destination country.",
			"For each region, list its most famous foods, traditional apparel, and other key cultural highlights.",
		},
		OutputFormat: "A strict JSON object that conforms to the output fields. Do not output any text outside of the JSON.",
		Examples: []llmtool.PromptExample{
			{Title: "Italy", InputJSON: `{"destination": "Italy"}`, OutputJSON: italyExample},
		},
	}
	spec = llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON(), llmtool.PresetNoInvent())
	return llmtool.Render(spec, req)
}

const italyExample = `{
  "touristSpots": [
    {
      "name": "Colosseum, Rome",
      "description": "The iconic ancient Roman amphitheater, a testament to architectural and historical grandeur.",
      "googleMaps360Url": "https://www.google.com/maps/@41.8902102,12.4922309,3a,75y,90h,90t",
      "safetyScore": 85,
      "safetyJustification": "Generally safe, but be cautious of pickpockets in crowded areas. Well-policed and well-lit."
    }
  ],
  "regionalHighlights": [
    {
      "regionName": "Tuscany",
      "famousFoods": ["Ribollita", "Pappa al Pomodoro", "Bistecca alla Fiorentina"],
      "famousApparel": ["Handcrafted leather goods (Florentine style)"],
      "otherHighlights": ["Chianti wine", "Renaissance art"]
    }
  ]
}`

// Chat renders the travel-assistant reply instruction for a single message.
func Chat(req types.ChatRequest) (string, error) {
	spec := llmtool.StructuredPromptSpec{
		Purpose:    "You are WanderGenie, a friendly and expert AI travel assistant. Your goal is to help travelers with their questions and make their journey planning enjoyable and easy.",
		Background: "User's message: " + req.Message,
		Rules: []string{
			"Respond to the user's message in a helpful, conversational, and friendly tone.",
			"You can answer questions about destinations, travel tips, culture, food, safety, and anything else related to travel.",
		},
		Language:     "If the user asks a question in a language other than English, you MUST respond in that same language.",
		OutputFields: chatFields,
	}
	return llmtool.Render(llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON()), req)
}

// Transcription renders the instruction that accompanies an audio part.
// The recording itself travels as media, never inside the text.
func Transcription() (string, error) {
	spec := llmtool.StructuredPromptSpec{
		Purpose:      "Transcribe the following audio recording. Only output the transcribed text.",
		OutputFields: transcriptionFields,
		Rules:        []string{"If the recording contains no speech, return an empty transcription."},
	}
	return llmtool.Render(llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON()), nil)
}

// Translation renders the text-only translation instruction.
func Translation(req types.TranslationRequest) (string, error) {
	spec := llmtool.StructuredPromptSpec{
		Purpose:      fmt.Sprintf("Translate the following text to %s. Only output the translated text, with no additional explanation or context.", req.TargetLanguage),
		Background:   lines("Text to translate:", req.Text),
		OutputFields: translationFields,
	}
	return llmtool.Render(llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON()), req)
}

// Speech returns what the speech model reads aloud: the text, unchanged.
func Speech(text string) string {
	return text
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n")
}
