package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "demo-project")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Fatalf("expected default read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Firestore.ProjectID != "demo-project" {
		t.Fatalf("expected firestore project fallback, got %q", cfg.Firestore.ProjectID)
	}
	if cfg.Assistant.ChatModel != defaultChatModel {
		t.Fatalf("expected default chat model, got %q", cfg.Assistant.ChatModel)
	}
	if !cfg.Assistant.SpeechEnabled {
		t.Fatalf("expected speech enabled by default")
	}
	if cfg.Content.DefaultLanguage != "en" {
		t.Fatalf("expected default language en, got %q", cfg.Content.DefaultLanguage)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("PORT", "9090")
	t.Setenv("FIRESTORE_PROJECT_ID", "travel-prod")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("ASSISTANT_SPEECH_ENABLED", "false")
	t.Setenv("ASSISTANT_CHAT_MODEL", "gpt-4o-mini")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("expected read timeout override, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Firestore.ProjectID != "travel-prod" {
		t.Fatalf("expected firestore project override, got %q", cfg.Firestore.ProjectID)
	}
	if cfg.Assistant.SpeechEnabled {
		t.Fatalf("expected speech disabled")
	}
	if cfg.Assistant.ChatModel != "gpt-4o-mini" {
		t.Fatalf("expected chat model override, got %q", cfg.Assistant.ChatModel)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "demo-project")
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error for non-numeric port")
	}
}

func TestLoad_MissingFirestoreProject(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("FIRESTORE_EMULATOR_HOST", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error without firestore target")
	}
}

func TestDurationEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "banana")
	if got := durationEnv("SOME_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback duration, got %v", got)
	}
}
