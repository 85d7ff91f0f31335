package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestElevenLabsProviderSynthesize(t *testing.T) {
	audio := []byte{0xff, 0xfb, 0x90, 0x00}
	var gotPath string
	var gotBody speechRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if got := r.Header.Get("xi-api-key"); got != "el-key" {
			t.Errorf("xi-api-key = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	provider, err := NewElevenLabsProvider(ElevenLabsProviderConfig{
		APIKey:   "el-key",
		Endpoint: srv.URL,
		VoiceID:  "voice-1",
	})
	if err != nil {
		t.Fatalf("NewElevenLabsProvider: %v", err)
	}

	res, err := provider.Synthesize(context.Background(), SpeechRequest{Text: "Ayubowan!"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(res.Audio, audio) {
		t.Fatalf("audio = %v", res.Audio)
	}
	if res.ContentType != "audio/mpeg" {
		t.Fatalf("content type = %q", res.ContentType)
	}
	if !strings.HasSuffix(gotPath, "/voice-1") {
		t.Fatalf("path = %q, want voice suffix", gotPath)
	}
	if gotBody.Text != "Ayubowan!" || gotBody.ModelID != defaultSpeechModel {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestElevenLabsProviderPerRequestVoiceOverride(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte{0x01})
	}))
	defer srv.Close()

	provider, err := NewElevenLabsProvider(ElevenLabsProviderConfig{APIKey: "k", Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("NewElevenLabsProvider: %v", err)
	}
	if _, err := provider.Synthesize(context.Background(), SpeechRequest{Text: "hi", VoiceID: "other"}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/other") {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestElevenLabsProviderErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		if _, err := NewElevenLabsProvider(ElevenLabsProviderConfig{}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty text", func(t *testing.T) {
		provider, err := NewElevenLabsProvider(ElevenLabsProviderConfig{APIKey: "k"})
		if err != nil {
			t.Fatalf("NewElevenLabsProvider: %v", err)
		}
		if _, err := provider.Synthesize(context.Background(), SpeechRequest{Text: "  "}); err == nil {
			t.Fatal("expected error on empty text")
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad voice", http.StatusUnprocessableEntity)
		}))
		defer srv.Close()
		provider, err := NewElevenLabsProvider(ElevenLabsProviderConfig{APIKey: "k", Endpoint: srv.URL})
		if err != nil {
			t.Fatalf("NewElevenLabsProvider: %v", err)
		}
		if _, err := provider.Synthesize(context.Background(), SpeechRequest{Text: "hi"}); err == nil {
			t.Fatal("expected error on 422")
		}
	})
}
