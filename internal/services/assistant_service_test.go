package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/recharge-travels/api/internal/ai"
	"github.com/recharge-travels/api/internal/assistant"
)

type stubChatProvider struct {
	reply    string
	err      error
	requests []ai.ChatRequest
}

func (s *stubChatProvider) Complete(_ context.Context, req ai.ChatRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubSpeechProvider struct {
	result   ai.SpeechResult
	err      error
	requests []ai.SpeechRequest
}

func (s *stubSpeechProvider) Synthesize(_ context.Context, req ai.SpeechRequest) (ai.SpeechResult, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return ai.SpeechResult{}, s.err
	}
	return s.result, nil
}

func TestChatClassifiesAndEchoesContext(t *testing.T) {
	chat := &stubChatProvider{reply: "Mirissa is lovely in December."}
	svc, err := NewAssistantService(AssistantServiceDeps{Chat: chat})
	if err != nil {
		t.Fatalf("NewAssistantService: %v", err)
	}

	out, err := svc.Chat(context.Background(), ChatInput{Message: "Which beach should I visit on a budget?"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out.Reply != "Mirissa is lovely in December." {
		t.Fatalf("reply = %q", out.Reply)
	}
	if out.Intent != assistant.IntentBeaches {
		t.Fatalf("intent = %s", out.Intent)
	}
	if out.Fallback {
		t.Fatal("fallback should be false on success")
	}
	if out.Context.Budget != assistant.BudgetTierBudget {
		t.Fatalf("budget = %q", out.Context.Budget)
	}
	if len(out.Context.PreviousQueries) != 1 {
		t.Fatalf("previous queries = %v", out.Context.PreviousQueries)
	}
	if len(out.Suggestions) == 0 {
		t.Fatal("suggestions missing")
	}
	if len(chat.requests) != 1 || !strings.Contains(chat.requests[0].SystemPrompt, "Yalu") {
		t.Fatalf("requests = %+v", chat.requests)
	}
}

func TestChatServesFallbackWhenProviderFails(t *testing.T) {
	chat := &stubChatProvider{err: errors.New("upstream 500")}
	svc, err := NewAssistantService(AssistantServiceDeps{Chat: chat})
	if err != nil {
		t.Fatalf("NewAssistantService: %v", err)
	}

	out, err := svc.Chat(context.Background(), ChatInput{Message: "Tell me about the best beaches"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !out.Fallback {
		t.Fatal("expected fallback reply")
	}
	if out.Reply != assistant.FallbackResponse(assistant.IntentBeaches) {
		t.Fatalf("reply = %q", out.Reply)
	}
	if out.Intent != assistant.IntentBeaches {
		t.Fatalf("intent = %s", out.Intent)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc, err := NewAssistantService(AssistantServiceDeps{Chat: &stubChatProvider{}})
	if err != nil {
		t.Fatalf("NewAssistantService: %v", err)
	}
	if _, err := svc.Chat(context.Background(), ChatInput{Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestChatCarriesForwardExistingContext(t *testing.T) {
	chat := &stubChatProvider{reply: "ok"}
	svc, err := NewAssistantService(AssistantServiceDeps{Chat: chat})
	if err != nil {
		t.Fatalf("NewAssistantService: %v", err)
	}

	out, err := svc.Chat(context.Background(), ChatInput{
		Message: "What wildlife can I see?",
		Context: assistant.UserContext{
			Name:            "Asha",
			Interests:       []string{"beaches"},
			PreviousQueries: []string{"beaches in the south"},
		},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out.Context.Name != "Asha" {
		t.Fatalf("name = %q", out.Context.Name)
	}
	if len(out.Context.Interests) != 2 {
		t.Fatalf("interests = %v", out.Context.Interests)
	}
	if len(out.Context.PreviousQueries) != 2 {
		t.Fatalf("previous queries = %v", out.Context.PreviousQueries)
	}
}

func TestChatAttachesAudioWhenRequested(t *testing.T) {
	chat := &stubChatProvider{reply: "Ayubowan!"}
	speech := &stubSpeechProvider{result: ai.SpeechResult{Audio: []byte("mp3"), ContentType: "audio/mpeg"}}
	svc, err := NewAssistantService(AssistantServiceDeps{Chat: chat, Speech: speech})
	if err != nil {
		t.Fatalf("NewAssistantService: %v", err)
	}

	out, err := svc.Chat(context.Background(), ChatInput{Message: "hello", WithAudio: true, VoiceID: "voice-7"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if string(out.Audio) != "mp3" || out.AudioContentType != "audio/mpeg" {
		t.Fatalf("audio = %q %q", out.Audio, out.AudioContentType)
	}
	if len(speech.requests) != 1 || speech.requests[0].VoiceID != "voice-7" || speech.requests[0].Text != "Ayubowan!" {
		t.Fatalf("speech requests = %+v", speech.requests)
	}
}

func TestChatToleratesSpeechFailure(t *testing.T) {
	chat := &stubChatProvider{reply: "still fine"}
	speech := &stubSpeechProvider{err: errors.New("tts down")}
	svc, err := NewAssistantService(AssistantServiceDeps{Chat: chat, Speech: speech})
	if err != nil {
		t.Fatalf("NewAssistantService: %v", err)
	}

	out, err := svc.Chat(context.Background(), ChatInput{Message: "hello", WithAudio: true})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out.Reply != "still fine" || len(out.Audio) != 0 {
		t.Fatalf("out = %+v", out)
	}
}

func TestSynthesizeWithoutProvider(t *testing.T) {
	svc, err := NewAssistantService(AssistantServiceDeps{Chat: &stubChatProvider{}})
	if err != nil {
		t.Fatalf("NewAssistantService: %v", err)
	}
	if _, err := svc.Synthesize(context.Background(), "text", ""); !errors.Is(err, ErrSpeechUnavailable) {
		t.Fatalf("err = %v, want ErrSpeechUnavailable", err)
	}
}
