package ui

import (
	"context"

	"wandergenie/internal/flow"
	"wandergenie/internal/types"
)

type ItineraryPlanner interface {
	Itinerary(ctx context.Context, req types.ItineraryRequest) (types.ItineraryResponse, error)
}

// ItineraryView is the trip-planning page.
type ItineraryView struct {
	form formView[types.ItineraryRequest, types.ItineraryResponse]
}

type ItinerarySnapshot struct {
	Loading bool                     `json:"loading"`
	Request *types.ItineraryRequest  `json:"request,omitempty"`
	Result  *types.ItineraryResponse `json:"result,omitempty"`
	Notice  *Notice                  `json:"notice,omitempty"`
}

func NewItineraryView(p ItineraryPlanner) *ItineraryView {
	v := &ItineraryView{}
	v.form.run = p.Itinerary
	v.form.title = "Error Generating Itinerary"
	return v
}

// Submit clears the previous result and plans a new trip. A second submit
// while one is loading returns ErrBusy.
func (v *ItineraryView) Submit(ctx context.Context, req types.ItineraryRequest) (types.ItineraryResponse, error) {
	return v.form.submit(ctx, req)
}

func (v *ItineraryView) Snapshot() ItinerarySnapshot {
	loading, req, out, notice := v.form.state()
	s := ItinerarySnapshot{Loading: loading, Request: req, Notice: notice}
	if out.State == flow.Succeeded {
		r := out.Value
		s.Result = &r
	}
	return s
}
