package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAISynthesizer uses the OpenAI speech endpoint as the speech engine.
type OpenAISynthesizer struct {
	client openai.Client
	voice  openai.AudioSpeechNewParamsVoice
}

func NewOpenAISynthesizer(apiKey, voice string) *OpenAISynthesizer {
	if voice == "" {
		voice = string(openai.AudioSpeechNewParamsVoiceAlloy)
	}
	return &OpenAISynthesizer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		voice:  openai.AudioSpeechNewParamsVoice(voice),
	}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	res, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech call failed: %w", err)
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading audio response: %w", err)
	}
	return audio, nil
}
