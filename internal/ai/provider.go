package ai

import (
	"context"
	"time"
)

// ChatMessage is one turn of conversation history passed to the chat model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries everything a single completion call needs.
type ChatRequest struct {
	SystemPrompt string
	History      []ChatMessage
	Query        string
}

// ChatProvider generates a conversational reply for a visitor query.
type ChatProvider interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// SpeechRequest asks for one utterance to be synthesized.
type SpeechRequest struct {
	Text    string
	VoiceID string
}

// SpeechResult is the synthesized audio with its media type.
type SpeechResult struct {
	Audio       []byte
	ContentType string
}

// SpeechProvider converts assistant replies to audio.
type SpeechProvider interface {
	Synthesize(ctx context.Context, req SpeechRequest) (SpeechResult, error)
}

// Logger defines the logging contract for provider operations.
type Logger func(ctx context.Context, event string, fields map[string]any)

func noopLogger(context.Context, string, map[string]any) {}

const defaultRequestTimeout = 30 * time.Second
