package types

import "strings"

// MapsURLPrefix is the prefix every tourist spot map link must carry,
// followed by a path or a query.
const MapsURLPrefix = "https://www.google.com/maps"

type HighlightsRequest struct {
	Destination string `json:"destination" validate:"required" prompt_desc:"The desired travel destination country (e.g., \"Japan\", \"Brazil\")."`
}

func (r *HighlightsRequest) Normalize() {
	r.Destination = strings.TrimSpace(r.Destination)
}

type TouristSpot struct {
	Name                string  `json:"name" validate:"notblank" prompt_desc:"The name of the tourist spot."`
	Description         string  `json:"description" validate:"notblank" prompt_desc:"A brief, engaging description of the spot."`
	GoogleMaps360URL    string  `json:"googleMaps360Url" validate:"notblank,url,startswith=https://www.google.com/maps/|startswith=https://www.google.com/maps?" prompt_desc:"A direct URL to a Google Maps 360-degree street view of the location."`
	SafetyScore         float64 `json:"safetyScore" validate:"gte=0,lte=100" prompt_desc:"A safety percentage for female travelers, based on available data and general reputation (0-100)."`
	SafetyJustification string  `json:"safetyJustification" validate:"notblank" prompt_desc:"A brief explanation for the assigned safety score."`
}

type RegionalHighlight struct {
	RegionName      string   `json:"regionName" validate:"notblank" prompt_desc:"The name of the state or region within the country."`
	FamousFoods     []string `json:"famousFoods" prompt_desc:"A list of famous local foods or dishes."`
	FamousApparel   []string `json:"famousApparel" prompt_desc:"A list of traditional or famous clothing items."`
	OtherHighlights []string `json:"otherHighlights" prompt_desc:"A list of other unique cultural highlights or famous things."`
}

type HighlightsResponse struct {
	TouristSpots       []TouristSpot       `json:"touristSpots" validate:"dive" prompt_desc:"A list of top tourist spots in the destination."`
	RegionalHighlights []RegionalHighlight `json:"regionalHighlights" validate:"dive" prompt_desc:"A list of highlights for different regions within the country."`
}
