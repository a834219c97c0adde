// Package speech turns generated answers into playable audio artifacts.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mentor-backend/internal/storage"
)

// Synthesizer converts text into encoded audio. Implementations call an
// external speech engine with a fixed voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Service cleans answers, synthesizes them, and stores the result under a
// globally unique name. Synthesis never fails a request: every error path
// returns "" (no audio available).
type Service struct {
	synth Synthesizer
	store storage.ArtifactStore
}

// NewService accepts a nil synthesizer, which disables audio entirely.
func NewService(synth Synthesizer, store storage.ArtifactStore) *Service {
	return &Service{synth: synth, store: store}
}

func (s *Service) Speak(ctx context.Context, text string) string {
	if s.synth == nil {
		return ""
	}

	clean := CleanForSpeech(text)
	if clean == "" {
		return ""
	}

	audio, err := s.synth.Synthesize(ctx, clean)
	if err != nil {
		slog.Warn("audio synthesis failed", "error", err)
		return ""
	}

	name := fmt.Sprintf("reply_%s.mp3", uuid.New())
	url, err := s.store.Put(ctx, name, bytes.NewReader(audio))
	if err != nil {
		slog.Warn("could not store audio artifact", "name", name, "error", err)
		return ""
	}

	return url
}
