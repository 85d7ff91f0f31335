package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/recharge-travels/api/internal/ai"
	"github.com/recharge-travels/api/internal/assistant"
	"github.com/recharge-travels/api/internal/platform/requestctx"
)

// ErrChatProviderMissing signals that the chat provider dependency is absent.
var ErrChatProviderMissing = errors.New("assistant service: chat provider is not configured")

// ErrEmptyMessage is returned when a chat request carries no text.
var ErrEmptyMessage = errors.New("assistant service: message is required")

// ErrSpeechUnavailable is returned when speech synthesis is requested but not configured.
var ErrSpeechUnavailable = errors.New("assistant service: speech provider is not configured")

// AssistantServiceDeps groups constructor parameters for the assistant service.
type AssistantServiceDeps struct {
	Chat   ai.ChatProvider
	Speech ai.SpeechProvider
}

type assistantService struct {
	chat   ai.ChatProvider
	speech ai.SpeechProvider
}

// NewAssistantService constructs the conversational assistant service.
func NewAssistantService(deps AssistantServiceDeps) (AssistantService, error) {
	if deps.Chat == nil {
		return nil, ErrChatProviderMissing
	}
	return &assistantService{
		chat:   deps.Chat,
		speech: deps.Speech,
	}, nil
}

// Chat runs one assistant turn: classify the query, fold it into the
// client-carried context, ask the model, and fall back to canned copy when the
// model is unreachable. The updated context is echoed back for the client to
// store; nothing is persisted server-side.
func (s *assistantService) Chat(ctx context.Context, input ChatInput) (ChatOutput, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return ChatOutput{}, ErrEmptyMessage
	}

	userCtx := input.Context
	userCtx.Normalize()

	intent := assistant.DetectIntent(message)
	userCtx.Update(message, intent)

	output := ChatOutput{
		Intent:      intent,
		Suggestions: assistant.SuggestionsFor(intent),
		Context:     userCtx,
	}

	reply, err := s.chat.Complete(ctx, ai.ChatRequest{
		SystemPrompt: assistant.BuildSystemPrompt(userCtx, intent, message),
		History:      input.History,
		Query:        message,
	})
	if err != nil {
		requestctx.Logger(ctx).Warn("assistant completion failed, serving fallback",
			zap.String("intent", string(intent)),
			zap.Error(err),
		)
		output.Reply = assistant.FallbackResponse(intent)
		output.Fallback = true
	} else {
		output.Reply = reply
	}

	if input.WithAudio && s.speech != nil {
		speech, err := s.speech.Synthesize(ctx, ai.SpeechRequest{Text: output.Reply, VoiceID: input.VoiceID})
		if err != nil {
			// Text still answers the question; audio is an enhancement.
			requestctx.Logger(ctx).Warn("assistant speech synthesis failed", zap.Error(err))
		} else {
			output.Audio = speech.Audio
			output.AudioContentType = speech.ContentType
		}
	}

	return output, nil
}

// Synthesize renders arbitrary assistant text as audio.
func (s *assistantService) Synthesize(ctx context.Context, text, voiceID string) (ai.SpeechResult, error) {
	if s.speech == nil {
		return ai.SpeechResult{}, ErrSpeechUnavailable
	}
	return s.speech.Synthesize(ctx, ai.SpeechRequest{Text: text, VoiceID: voiceID})
}
