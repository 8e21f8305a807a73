package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"lifedash/internal/clients/elevenlabs"
)

// NoopAnnouncer discards announcements. Used when no TTS is configured.
type NoopAnnouncer struct{}

func (NoopAnnouncer) Announce(string) {}

// VoiceAnnouncer synthesizes spoken reminders through ElevenLabs and drops
// the audio into a spool directory for the dashboard UI to play. Everything
// is fire-and-forget: a failed synthesis is logged and forgotten, never
// surfaced to the scheduling path.
type VoiceAnnouncer struct {
	client *elevenlabs.Client
	dir    string
	log    zerolog.Logger
}

func NewVoiceAnnouncer(client *elevenlabs.Client, dir string, log zerolog.Logger) *VoiceAnnouncer {
	return &VoiceAnnouncer{client: client, dir: dir, log: log}
}

func (a *VoiceAnnouncer) Announce(text string) {
	if a.client == nil || !a.client.IsConfigured() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		audio, err := a.client.Synthesize(ctx, text)
		if err != nil {
			a.log.Warn().Err(err).Msg("announcement synthesis failed")
			return
		}

		if err := os.MkdirAll(a.dir, 0755); err != nil {
			a.log.Warn().Err(err).Msg("create announcements dir")
			return
		}
		name := fmt.Sprintf("announcement-%d.mp3", time.Now().UnixNano())
		if err := os.WriteFile(filepath.Join(a.dir, name), audio, 0644); err != nil {
			a.log.Warn().Err(err).Msg("write announcement audio")
			return
		}
		a.log.Debug().Str("file", name).Msg("announcement synthesized")
	}()
}
