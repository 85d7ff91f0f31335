package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recharge-travels/api/internal/ai"
	"github.com/recharge-travels/api/internal/assistant"
	"github.com/recharge-travels/api/internal/platform/httpx"
	"github.com/recharge-travels/api/internal/services"
)

// AssistantHandlers exposes the conversational assistant endpoints.
type AssistantHandlers struct {
	assistant services.AssistantService
}

// NewAssistantHandlers constructs a new AssistantHandlers instance.
func NewAssistantHandlers(svc services.AssistantService) *AssistantHandlers {
	return &AssistantHandlers{assistant: svc}
}

// Routes registers the /assistant endpoints.
func (h *AssistantHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/chat", h.chat)
	r.Post("/speech", h.speech)
}

type chatRequestPayload struct {
	Message   string                `json:"message"`
	Context   assistant.UserContext `json:"context"`
	History   []ai.ChatMessage      `json:"history,omitempty"`
	WithAudio bool                  `json:"withAudio,omitempty"`
	VoiceID   string                `json:"voiceId,omitempty"`
}

type chatResponsePayload struct {
	Reply            string                `json:"reply"`
	Intent           string                `json:"intent"`
	Suggestions      []string              `json:"suggestions"`
	Context          assistant.UserContext `json:"context"`
	Fallback         bool                  `json:"fallback"`
	Audio            string                `json:"audio,omitempty"`
	AudioContentType string                `json:"audioContentType,omitempty"`
}

type speechRequestPayload struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId,omitempty"`
}

func (h *AssistantHandlers) chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.assistant == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "assistant unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload chatRequestPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	output, err := h.assistant.Chat(ctx, services.ChatInput{
		Message:   payload.Message,
		Context:   payload.Context,
		History:   payload.History,
		WithAudio: payload.WithAudio,
		VoiceID:   payload.VoiceID,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "message is required", http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("internal", "assistant request failed", http.StatusInternalServerError))
		return
	}

	response := chatResponsePayload{
		Reply:            output.Reply,
		Intent:           string(output.Intent),
		Suggestions:      output.Suggestions,
		Context:          output.Context,
		Fallback:         output.Fallback,
		AudioContentType: output.AudioContentType,
	}
	if len(output.Audio) > 0 {
		response.Audio = base64.StdEncoding.EncodeToString(output.Audio)
	}
	writeJSONResponse(w, http.StatusOK, response)
}

// speech streams synthesized audio for arbitrary text so the widget can
// replay earlier answers without another model round trip.
func (h *AssistantHandlers) speech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.assistant == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "assistant unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload speechRequestPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if payload.Text == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "text is required", http.StatusBadRequest))
		return
	}

	result, err := h.assistant.Synthesize(ctx, payload.Text, payload.VoiceID)
	if err != nil {
		if errors.Is(err, services.ErrSpeechUnavailable) {
			httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "speech synthesis unavailable", http.StatusServiceUnavailable))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("internal", "speech synthesis failed", http.StatusInternalServerError))
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Audio)
}
