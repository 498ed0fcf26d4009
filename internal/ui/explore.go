package ui

import (
	"context"

	"wandergenie/internal/flow"
	"wandergenie/internal/types"
)

type HighlightsResearcher interface {
	Highlights(ctx context.Context, req types.HighlightsRequest) (types.HighlightsResponse, error)
}

// SafetyBand buckets a safety score the way the explore page colours it.
type SafetyBand string

const (
	SafetyHigh     SafetyBand = "high"
	SafetyModerate SafetyBand = "moderate"
	SafetyLow      SafetyBand = "low"
)

func BandFor(score float64) SafetyBand {
	switch {
	case score > 75:
		return SafetyHigh
	case score > 50:
		return SafetyModerate
	default:
		return SafetyLow
	}
}

type SpotView struct {
	types.TouristSpot
	SafetyBand SafetyBand `json:"safetyBand"`
}

type ExploreResult struct {
	TouristSpots       []SpotView                `json:"touristSpots"`
	RegionalHighlights []types.RegionalHighlight `json:"regionalHighlights"`
}

type ExploreSnapshot struct {
	Loading bool                     `json:"loading"`
	Request *types.HighlightsRequest `json:"request,omitempty"`
	Result  *ExploreResult           `json:"result,omitempty"`
	Notice  *Notice                  `json:"notice,omitempty"`
}

// ExploreView is the destination highlights page.
type ExploreView struct {
	form formView[types.HighlightsRequest, types.HighlightsResponse]
}

func NewExploreView(h HighlightsResearcher) *ExploreView {
	v := &ExploreView{}
	v.form.run = h.Highlights
	v.form.title = "Error Generating Highlights"
	return v
}

func (v *ExploreView) Submit(ctx context.Context, req types.HighlightsRequest) (ExploreResult, error) {
	resp, err := v.form.submit(ctx, req)
	if err != nil {
		return ExploreResult{}, err
	}
	return decorate(resp), nil
}

func (v *ExploreView) Snapshot() ExploreSnapshot {
	loading, req, out, notice := v.form.state()
	s := ExploreSnapshot{Loading: loading, Request: req, Notice: notice}
	if out.State == flow.Succeeded {
		r := decorate(out.Value)
		s.Result = &r
	}
	return s
}

func decorate(resp types.HighlightsResponse) ExploreResult {
	spots := make([]SpotView, 0, len(resp.TouristSpots))
	for _, sp := range resp.TouristSpots {
		spots = append(spots, SpotView{TouristSpot: sp, SafetyBand: BandFor(sp.SafetyScore)})
	}
	regions := resp.RegionalHighlights
	if regions == nil {
		regions = []types.RegionalHighlight{}
	}
	return ExploreResult{TouristSpots: spots, RegionalHighlights: regions}
}
