package models

// Chat message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest is the transcript sent to the chat-completion API
type CompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []CompletionMessage `json:"messages"`
	Temperature float32             `json:"temperature"`
}

// CompletionMessage represents a role-tagged message in the transcript
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionChoice represents a completion choice
type CompletionChoice struct {
	Index        int               `json:"index"`
	Message      CompletionMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// CompletionResponse represents the response from the chat-completion API
type CompletionResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message string `json:"message" form:"message" binding:"required"`
	UserID  string `json:"userId,omitempty" form:"userId"`
}

// ChatResponse is returned by POST /chat
type ChatResponse struct {
	Response string `json:"response"`
}

// CallbackRequest asks for a phone callback
type CallbackRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Phone string `json:"phone" form:"phone" binding:"required"`
}

// SettlementRequest books a loan settlement
type SettlementRequest struct {
	Account string `json:"account" form:"account" binding:"required"`
	Date    string `json:"date" form:"date" binding:"required"`
}

// StatementQuery identifies the user whose statement is requested
type StatementQuery struct {
	UserID       string `form:"userId"`
	LegacyUserID string `form:"user_id"`
}

// ID returns the user id, preferring userId over user_id
func (q StatementQuery) ID() string {
	if q.UserID != "" {
		return q.UserID
	}
	return q.LegacyUserID
}

// MessageResponse carries a single confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// BookingResponse echoes the accepted request back to the caller
type BookingResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
}
