package ui

import (
	"context"
	"fmt"
	"sync"

	"wandergenie/internal/flow"
	"wandergenie/internal/schema"
	"wandergenie/internal/types"
)

type Replier interface {
	Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
}

// ChatView keeps the displayed conversation. History is never sent to the
// model; each message is answered on its own.
type ChatView struct {
	replier Replier

	mu      sync.Mutex
	history []types.ChatMessage
	sending bool
	notice  *Notice
}

type ChatSnapshot struct {
	Messages []types.ChatMessage `json:"messages"`
	Loading  bool                `json:"loading"`
	Notice   *Notice             `json:"notice,omitempty"`
}

func NewChatView(r Replier) *ChatView {
	return &ChatView{replier: r, history: []types.ChatMessage{}}
}

// Send appends the user message right away and the reply once it arrives.
// If the reply fails the user message is withdrawn again.
func (v *ChatView) Send(ctx context.Context, message string) (types.ChatMessage, error) {
	req := types.ChatRequest{Message: message}
	if err := schema.Validate(&req); err != nil {
		return types.ChatMessage{}, fmt.Errorf("%w: %w", flow.ErrInvalidInput, err)
	}

	v.mu.Lock()
	if v.sending {
		v.mu.Unlock()
		return types.ChatMessage{}, ErrBusy
	}
	v.sending = true
	v.notice = nil
	pos := len(v.history)
	v.history = append(v.history, types.ChatMessage{Role: types.RoleUser, Content: req.Message})
	v.mu.Unlock()

	resp, err := v.replier.Chat(ctx, req)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.sending = false
	if err != nil {
		v.history = v.history[:pos]
		v.notice = &Notice{Title: "Error", Description: GenericFailure}
		return types.ChatMessage{}, err
	}
	reply := types.ChatMessage{Role: types.RoleAssistant, Content: resp.Response}
	v.history = append(v.history, reply)
	return reply, nil
}

// History returns a copy of the conversation in display order.
func (v *ChatView) History() []types.ChatMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]types.ChatMessage{}, v.history...)
}

func (v *ChatView) Snapshot() ChatSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ChatSnapshot{
		Messages: append([]types.ChatMessage{}, v.history...),
		Loading:  v.sending,
		Notice:   v.notice,
	}
}
