package models

// Role identifies the author of a conversational turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the conversation. Turns are treated as value
// objects: a closed turn is never mutated, and the single in-flight
// assistant turn grows by being replaced wholesale in the transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatStreamRequest is the body sent to the chat stream endpoint. The
// full transcript travels as history so the assistant keeps context.
type ChatStreamRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

// GreetingTurn seeds a fresh transcript. Kept as a function so every
// session gets its own value, not an aliased package-level Turn.
func GreetingTurn() Turn {
	return Turn{
		Role:    RoleAssistant,
		Content: "Namasthe! I'm your Trip Mate Assistant. Tell me where you want to go, your dates, budget, and travel style!",
	}
}
