package types

import "strings"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a session's display history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required" prompt_desc:"The user's message or question."`
}

func (r *ChatRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
}

type ChatResponse struct {
	Response string `json:"response" validate:"notblank" prompt_desc:"The AI's response to the user's message."`
}
