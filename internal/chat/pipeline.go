package chat

import (
	"context"
	"errors"
	"log/slog"
)

// Generation engine failures are reported upward as fixed sentinels so the HTTP
// layer never leaks engine internals.
var (
	ErrGeneration = errors.New("generation engine failure")
	ErrVision     = errors.New("vision generation failure")
)

const greetingReply = "Hello! I am your portfolio mentor. How can I assist you with your portfolio today?"

// Generator is the external answer-generation engine. It is opaque and
// synchronous; the pipeline attempts each call exactly once.
type Generator interface {
	Answer(ctx context.Context, question, history string) (string, error)
	Consult(ctx context.Context, question, screenshot, history string) (string, error)
}

// Speaker turns an answer into a playable audio reference. An empty return means
// no audio is available; synthesis never fails a request.
type Speaker interface {
	Speak(ctx context.Context, text string) string
}

type Reply struct {
	Answer   string
	AudioURL string // "" when synthesis was unavailable
}

// Pipeline orchestrates one request: classify, generate, persist the two-turn
// exchange, synthesize audio.
type Pipeline struct {
	memory  *Memory
	engine  Generator
	speaker Speaker
}

func NewPipeline(memory *Memory, engine Generator, speaker Speaker) *Pipeline {
	return &Pipeline{memory: memory, engine: engine, speaker: speaker}
}

// Chat handles the plain-question variant. Greetings short-circuit the engine
// but still count as a full exchange in history.
func (p *Pipeline) Chat(ctx context.Context, identity, question string) (Reply, error) {
	conv := p.memory.conversation(identity)
	conv.mu.Lock()

	var answer string
	if isGreeting(question) {
		answer = greetingReply
	} else {
		history := FormatPrompt(conv.recent(PromptWindow))
		slog.Info("delegating to generation engine", "identity", identity, "history_turns", len(conv.turns))

		var err error
		answer, err = p.engine.Answer(ctx, question, history)
		if err != nil {
			conv.mu.Unlock()
			slog.Error("generation engine call failed", "identity", identity, "error", err)
			return Reply{}, ErrGeneration
		}
	}

	conv.append(question, answer)
	conv.mu.Unlock()

	return Reply{Answer: answer, AudioURL: p.speaker.Speak(ctx, answer)}, nil
}

// Consult handles the question+screenshot variant. There is no greeting path;
// the engine is always consulted.
func (p *Pipeline) Consult(ctx context.Context, identity, question, screenshot string) (Reply, error) {
	conv := p.memory.conversation(identity)
	conv.mu.Lock()

	history := FormatPrompt(conv.recent(PromptWindow))
	answer, err := p.engine.Consult(ctx, question, screenshot, history)
	if err != nil {
		conv.mu.Unlock()
		slog.Error("vision engine call failed", "identity", identity, "error", err)
		return Reply{}, ErrVision
	}

	conv.append(question, answer)
	conv.mu.Unlock()

	return Reply{Answer: answer, AudioURL: p.speaker.Speak(ctx, answer)}, nil
}
