package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultVoice matches the voice the product shipped with.
const DefaultVoice = "en-IN-PrabhatNeural"

// EdgeSynthesizer calls an edge-tts-compatible HTTP service that accepts
// {text, voice} and responds with encoded audio.
type EdgeSynthesizer struct {
	client *resty.Client
	voice  string
}

func NewEdgeSynthesizer(endpointURL, voice string) *EdgeSynthesizer {
	if voice == "" {
		voice = DefaultVoice
	}
	return &EdgeSynthesizer{
		client: resty.New().SetBaseURL(endpointURL).SetTimeout(30 * time.Second),
		voice:  voice,
	}
}

func (s *EdgeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": text, "voice": s.voice}).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("tts engine returned status %d", res.StatusCode())
	}
	if len(res.Body()) == 0 {
		return nil, fmt.Errorf("tts engine returned empty audio")
	}
	return res.Body(), nil
}
