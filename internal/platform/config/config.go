package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultLanguage        = "en"
	defaultChatModel       = "gpt-4-turbo-preview"
	defaultChatEndpoint    = "https://api.openai.com/v1/chat/completions"
	defaultSpeechEndpoint  = "https://api.elevenlabs.io/v1/text-to-speech"
	defaultSpeechVoiceID   = "pNInz6obpgDQGcFmaJgB"
	defaultSpeechModelID   = "eleven_turbo_v2"
	defaultSignedURLExpiry = 15 * time.Minute
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Firebase  FirebaseConfig
	Firestore FirestoreConfig
	Storage   StorageConfig
	PubSub    PubSubConfig
	Assistant AssistantConfig
	Payments  PaymentsConfig
	Content   ContentConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirebaseConfig stores Firebase project settings used for token verification.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// StorageConfig names the bucket holding vehicle verification documents.
type StorageConfig struct {
	DocumentsBucket string
	SignedURLExpiry time.Duration
}

// PubSubConfig names the topic receiving booking and approval events.
type PubSubConfig struct {
	ProjectID   string
	EventsTopic string
}

// AssistantConfig configures the external chat-completion and TTS providers.
// Key values may be secret references (sm://project/name) resolved at startup.
type AssistantConfig struct {
	ChatEndpoint   string
	ChatModel      string
	ChatAPIKey     string
	SpeechEndpoint string
	SpeechAPIKey   string
	SpeechVoiceID  string
	SpeechModelID  string
	SpeechEnabled  bool
}

// PaymentsConfig collects secrets for the deposit payment provider.
type PaymentsConfig struct {
	StripeAPIKey string
}

// ContentConfig tunes the public content surface.
type ContentConfig struct {
	DefaultLanguage string
}

// Load reads configuration from the environment, optionally seeded by a .env file.
func Load() (Config, error) {
	loadEnvFile(envOrDefault("ENV_FILE", defaultEnvFile))

	cfg := Config{
		Server: ServerConfig{
			Port:         envOrDefault("PORT", defaultPort),
			ReadTimeout:  durationEnv("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationEnv("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationEnv("SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Firebase: FirebaseConfig{
			ProjectID:       firstNonEmpty(os.Getenv("FIREBASE_PROJECT_ID"), os.Getenv("GOOGLE_CLOUD_PROJECT")),
			CredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		},
		Firestore: FirestoreConfig{
			ProjectID:    firstNonEmpty(os.Getenv("FIRESTORE_PROJECT_ID"), os.Getenv("GOOGLE_CLOUD_PROJECT")),
			EmulatorHost: os.Getenv("FIRESTORE_EMULATOR_HOST"),
		},
		Storage: StorageConfig{
			DocumentsBucket: os.Getenv("STORAGE_DOCUMENTS_BUCKET"),
			SignedURLExpiry: durationEnv("STORAGE_SIGNED_URL_EXPIRY", defaultSignedURLExpiry),
		},
		PubSub: PubSubConfig{
			ProjectID:   firstNonEmpty(os.Getenv("PUBSUB_PROJECT_ID"), os.Getenv("GOOGLE_CLOUD_PROJECT")),
			EventsTopic: envOrDefault("PUBSUB_EVENTS_TOPIC", "travel-events"),
		},
		Assistant: AssistantConfig{
			ChatEndpoint:   envOrDefault("ASSISTANT_CHAT_ENDPOINT", defaultChatEndpoint),
			ChatModel:      envOrDefault("ASSISTANT_CHAT_MODEL", defaultChatModel),
			ChatAPIKey:     os.Getenv("OPENAI_API_KEY"),
			SpeechEndpoint: envOrDefault("ASSISTANT_SPEECH_ENDPOINT", defaultSpeechEndpoint),
			SpeechAPIKey:   os.Getenv("ELEVENLABS_API_KEY"),
			SpeechVoiceID:  envOrDefault("ASSISTANT_SPEECH_VOICE_ID", defaultSpeechVoiceID),
			SpeechModelID:  envOrDefault("ASSISTANT_SPEECH_MODEL_ID", defaultSpeechModelID),
			SpeechEnabled:  boolEnv("ASSISTANT_SPEECH_ENABLED", true),
		},
		Payments: PaymentsConfig{
			StripeAPIKey: os.Getenv("STRIPE_API_KEY"),
		},
		Content: ContentConfig{
			DefaultLanguage: envOrDefault("CONTENT_DEFAULT_LANGUAGE", defaultLanguage),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []string
	if strings.TrimSpace(c.Server.Port) == "" {
		problems = append(problems, "server port is required")
	}
	if _, err := strconv.Atoi(strings.TrimSpace(c.Server.Port)); err != nil {
		problems = append(problems, fmt.Sprintf("server port %q is not numeric", c.Server.Port))
	}
	if strings.TrimSpace(c.Firestore.ProjectID) == "" && strings.TrimSpace(c.Firestore.EmulatorHost) == "" {
		problems = append(problems, "firestore project id or emulator host is required")
	}
	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// loadEnvFile reads KEY=VALUE pairs without overriding variables already set.
func loadEnvFile(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, value)
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func boolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
