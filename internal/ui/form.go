package ui

import (
	"context"
	"sync"

	"wandergenie/internal/flow"
)

// formView is the shared shape of a submit-and-show page: one request in
// flight at a time, the last request, and its settled outcome.
type formView[Req, Resp any] struct {
	mu      sync.Mutex
	run     func(context.Context, Req) (Resp, error)
	title   string
	loading bool
	request *Req
	outcome flow.Outcome[Resp]
}

func (v *formView[Req, Resp]) submit(ctx context.Context, req Req) (Resp, error) {
	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		var zero Resp
		return zero, ErrBusy
	}
	v.loading = true
	v.request = &req
	v.outcome = flow.Outcome[Resp]{State: flow.Pending}
	v.mu.Unlock()

	out := flow.Run(ctx, func(ctx context.Context) (Resp, error) { return v.run(ctx, req) })

	v.mu.Lock()
	v.loading = false
	v.outcome = out
	v.mu.Unlock()
	return out.Value, out.Err
}

// state copies the view under lock.
func (v *formView[Req, Resp]) state() (loading bool, req *Req, out flow.Outcome[Resp], notice *Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.request != nil {
		r := *v.request
		req = &r
	}
	if v.outcome.State == flow.Failed {
		notice = NoticeFor(v.title, v.outcome.Err)
	}
	return v.loading, req, v.outcome, notice
}
