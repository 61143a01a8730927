package models

import "time"

// Sender identifies which side of the conversation a message came from.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage is a single entry in the transcript. Messages are immutable
// once created; insertion order is display order.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile holds the fitness profile the prompt is personalized with.
// Age and weight stay numeric strings, exactly as the form submits them.
type UserProfile struct {
	Age    string `json:"age"`
	Sex    string `json:"sex"` // "Male" or "Female"
	Weight string `json:"weight"`
}

// ChatRequest is the payload sent to the relay endpoint.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse is the reply from the relay endpoint.
type ChatResponse struct {
	Text string `json:"text"`
}
