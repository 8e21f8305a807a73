// Package elevenlabs is a minimal client for the ElevenLabs text-to-speech
// API, used to voice reminder announcements.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const BaseURL = "https://api.elevenlabs.io/v1"

// VoiceSettings tunes the synthesized voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

// DefaultVoiceSettings matches the product defaults.
var DefaultVoiceSettings = VoiceSettings{
	Stability:       0.4,
	SimilarityBoost: 0.7,
	Style:           0.5,
}

// Client calls the ElevenLabs TTS endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	voiceID    string
	settings   VoiceSettings
	httpClient *http.Client
}

// NewClient creates an ElevenLabs client. An empty apiKey or voiceID leaves
// the client unconfigured; Synthesize then fails fast.
func NewClient(apiKey, voiceID string, settings VoiceSettings) *Client {
	return &Client{
		baseURL:  BaseURL,
		apiKey:   apiKey,
		voiceID:  voiceID,
		settings: settings,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured returns true if the client has an API key and a voice.
func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.voiceID != ""
}

// SetBaseURL overrides the API endpoint (tests).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize converts text to speech and returns the audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("elevenlabs client not configured")
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, VoiceSettings: c.settings})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts request failed: %s: %s", resp.Status, string(snippet))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}
