package types

import "strings"

// Budget is the spending tier a trip is planned for.
type Budget string

const (
	BudgetFriendly Budget = "budget-friendly"
	BudgetBalanced Budget = "balanced"
	BudgetLuxury   Budget = "luxury"
)

// ItineraryRequest is the trip-planning form submission.
type ItineraryRequest struct {
	Destination          string `json:"destination" validate:"required,min=2" prompt_desc:"The desired travel destination."`
	Preferences          string `json:"preferences" validate:"required,min=10" prompt_desc:"The user's interests and preferences (e.g., historical sites, beaches, nightlife)."`
	Duration             int    `json:"duration" validate:"min=1,max=30" prompt_desc:"The duration of the trip in days."`
	Budget               Budget `json:"budget" validate:"oneof=budget-friendly balanced luxury" prompt_desc:"The user's budget preference for the trip."`
	IsSoloFemaleTraveler bool   `json:"isSoloFemaleTraveler" prompt_desc:"Whether the user is a solo female traveler seeking safety-conscious recommendations."`
}

// Normalize trims free text and applies the default budget.
func (r *ItineraryRequest) Normalize() {
	r.Destination = strings.TrimSpace(r.Destination)
	r.Preferences = strings.TrimSpace(r.Preferences)
	r.Budget = Budget(strings.ToLower(strings.TrimSpace(string(r.Budget))))
	if r.Budget == "" {
		r.Budget = BudgetBalanced
	}
}

// ItineraryDay is one day of a generated plan.
type ItineraryDay struct {
	Day           string `json:"day" validate:"notblank" prompt_desc:"The day of the itinerary, e.g., \"Day 1\"."`
	Date          string `json:"date" validate:"notblank,datetime=2006-01-02" prompt_desc:"The date for this day of the itinerary in YYYY-MM-DD format. Start from today's date."`
	Morning       string `json:"morning" validate:"notblank" prompt_desc:"Morning (9am-12pm) activities with time blocks, emojis, short description and highlights."`
	Afternoon     string `json:"afternoon" validate:"notblank" prompt_desc:"Afternoon (12pm-4pm) activities with time blocks, emojis, short description and highlights."`
	Evening       string `json:"evening" validate:"notblank" prompt_desc:"Evening (5pm-8pm) activities with time blocks, emojis, short description and highlights."`
	Accommodation string `json:"accommodation" validate:"notblank" prompt_desc:"Stylish name for accommodation and optional highlight."`
	Notes         string `json:"notes" validate:"notblank" prompt_desc:"Secret spots, photo/selfie tips, local travel hacks, and safety tips."`
}

// ItineraryResponse is the ordered day sequence returned by the model.
type ItineraryResponse struct {
	Itinerary []ItineraryDay `json:"itinerary" validate:"required,min=1,dive" prompt_desc:"A highly aesthetic, stylish, and readable day-by-day travel itinerary."`
}
