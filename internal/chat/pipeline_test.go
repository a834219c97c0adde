package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	answer   string
	err      error
	calls    int
	lastHist string
}

func (e *fakeEngine) Answer(ctx context.Context, question, history string) (string, error) {
	e.calls++
	e.lastHist = history
	return e.answer, e.err
}

func (e *fakeEngine) Consult(ctx context.Context, question, screenshot, history string) (string, error) {
	e.calls++
	e.lastHist = history
	return e.answer, e.err
}

type fakeSpeaker struct {
	url string
}

func (s *fakeSpeaker) Speak(ctx context.Context, text string) string { return s.url }

func TestChatAppendsExactlyTwoTurns(t *testing.T) {
	memory := NewMemory()
	engine := &fakeEngine{answer: "I built a few trading dashboards."}
	pipeline := NewPipeline(memory, engine, &fakeSpeaker{url: "/static/audio/reply_x.mp3"})

	reply, err := pipeline.Chat(context.Background(), "user@example.com", "What projects have you built?")
	require.NoError(t, err)
	assert.Equal(t, "I built a few trading dashboards.", reply.Answer)
	assert.Equal(t, "/static/audio/reply_x.mp3", reply.AudioURL)

	turns := memory.Recent("user@example.com")
	require.Len(t, turns, 2)
	assert.Equal(t, Turn{Role: RoleUser, Content: "What projects have you built?"}, turns[0])
	assert.Equal(t, Turn{Role: RoleAssistant, Content: "I built a few trading dashboards."}, turns[1])
}

func TestChatGreetingSkipsEngine(t *testing.T) {
	memory := NewMemory()
	engine := &fakeEngine{answer: "should not be used"}
	pipeline := NewPipeline(memory, engine, &fakeSpeaker{})

	reply, err := pipeline.Chat(context.Background(), "user@example.com", "Hi")
	require.NoError(t, err)
	assert.Equal(t, greetingReply, reply.Answer)
	assert.Zero(t, engine.calls)

	// the greeting still counts as a full exchange
	assert.Len(t, memory.Recent("user@example.com"), 2)
}

func TestChatPassesFormattedHistory(t *testing.T) {
	memory := NewMemory()
	memory.Append("user@example.com", "earlier question", "earlier answer")
	engine := &fakeEngine{answer: "ok"}
	pipeline := NewPipeline(memory, engine, &fakeSpeaker{})

	_, err := pipeline.Chat(context.Background(), "user@example.com", "and now?")
	require.NoError(t, err)
	assert.Equal(t, "User: earlier question\nMentor AI: earlier answer", engine.lastHist)
}

func TestChatFirstRequestSendsSentinel(t *testing.T) {
	engine := &fakeEngine{answer: "ok"}
	pipeline := NewPipeline(NewMemory(), engine, &fakeSpeaker{})

	_, err := pipeline.Chat(context.Background(), "user@example.com", "first question")
	require.NoError(t, err)
	assert.Equal(t, "No previous conversation.", engine.lastHist)
}

func TestChatEngineFailure(t *testing.T) {
	memory := NewMemory()
	engine := &fakeEngine{err: errors.New("upstream exploded: key=sk-123")}
	pipeline := NewPipeline(memory, engine, &fakeSpeaker{})

	_, err := pipeline.Chat(context.Background(), "user@example.com", "What projects have you built?")
	assert.ErrorIs(t, err, ErrGeneration)

	// a failed exchange is not persisted
	assert.Empty(t, memory.Recent("user@example.com"))
}

func TestConsult(t *testing.T) {
	memory := NewMemory()
	engine := &fakeEngine{answer: "the chart shows a drawdown"}
	pipeline := NewPipeline(memory, engine, &fakeSpeaker{})

	reply, err := pipeline.Consult(context.Background(), "user@example.com", "what is wrong here", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "the chart shows a drawdown", reply.Answer)
	assert.Equal(t, 1, engine.calls)
	assert.Len(t, memory.Recent("user@example.com"), 2)
}

func TestConsultEngineFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("vision backend down")}
	pipeline := NewPipeline(NewMemory(), engine, &fakeSpeaker{})

	_, err := pipeline.Consult(context.Background(), "user@example.com", "q", "img")
	assert.ErrorIs(t, err, ErrVision)
}

func TestSynthesisFailureDegradesGracefully(t *testing.T) {
	pipeline := NewPipeline(NewMemory(), &fakeEngine{answer: "answer"}, &fakeSpeaker{url: ""})

	reply, err := pipeline.Chat(context.Background(), "user@example.com", "a question")
	require.NoError(t, err)
	assert.Equal(t, "answer", reply.Answer)
	assert.Empty(t, reply.AudioURL)
}
