package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultSpeechEndpoint = "https://api.elevenlabs.io/v1/text-to-speech"
	defaultVoiceID        = "pNInz6obpgDQGcFmaJgB"
	defaultSpeechModel    = "eleven_turbo_v2"

	maxAudioBytes = 8 << 20
)

// ElevenLabsProviderConfig configures the ElevenLabsProvider.
type ElevenLabsProviderConfig struct {
	APIKey     string
	Endpoint   string
	VoiceID    string
	ModelID    string
	HTTPClient *http.Client
	Logger     Logger
}

// ElevenLabsProvider implements SpeechProvider against the text-to-speech API.
type ElevenLabsProvider struct {
	apiKey   string
	endpoint string
	voiceID  string
	modelID  string
	client   *http.Client
	logger   Logger
}

// NewElevenLabsProvider constructs a speech provider using the given configuration.
func NewElevenLabsProvider(cfg ElevenLabsProviderConfig) (*ElevenLabsProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("elevenlabs: api key is required")
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = defaultSpeechEndpoint
	}
	voiceID := strings.TrimSpace(cfg.VoiceID)
	if voiceID == "" {
		voiceID = defaultVoiceID
	}
	modelID := strings.TrimSpace(cfg.ModelID)
	if modelID == "" {
		modelID = defaultSpeechModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger
	}
	return &ElevenLabsProvider{
		apiKey:   apiKey,
		endpoint: endpoint,
		voiceID:  voiceID,
		modelID:  modelID,
		client:   client,
		logger:   logger,
	}, nil
}

type speechSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechRequestBody struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings speechSettings `json:"voice_settings"`
}

// Synthesize renders the text with the configured (or per-request) voice and
// returns the raw audio stream.
func (p *ElevenLabsProvider) Synthesize(ctx context.Context, req SpeechRequest) (SpeechResult, error) {
	if p == nil {
		return SpeechResult{}, errors.New("elevenlabs: provider is nil")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return SpeechResult{}, errors.New("elevenlabs: text is required")
	}
	voiceID := strings.TrimSpace(req.VoiceID)
	if voiceID == "" {
		voiceID = p.voiceID
	}

	body, err := json.Marshal(speechRequestBody{
		Text:    text,
		ModelID: p.modelID,
		VoiceSettings: speechSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return SpeechResult{}, fmt.Errorf("elevenlabs: encode request: %w", err)
	}

	url := p.endpoint + "/" + voiceID
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SpeechResult{}, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return SpeechResult{}, fmt.Errorf("elevenlabs: synthesize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return SpeechResult{}, fmt.Errorf("elevenlabs: synthesize: unexpected status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return SpeechResult{}, fmt.Errorf("elevenlabs: read audio: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	p.logger(ctx, "ai.elevenlabs.synthesized", map[string]any{
		"voiceId": voiceID,
		"bytes":   len(audio),
	})
	return SpeechResult{Audio: audio, ContentType: contentType}, nil
}
