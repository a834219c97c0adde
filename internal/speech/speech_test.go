package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor-backend/internal/storage"
)

type fakeSynth struct {
	audio []byte
	err   error
	got   string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.got = text
	return f.audio, f.err
}

func localStore(t *testing.T) *storage.LocalProvider {
	t.Helper()
	store, err := storage.NewLocalProvider(t.TempDir(), "/static/audio")
	require.NoError(t, err)
	return store
}

func TestSpeakStoresUniqueArtifacts(t *testing.T) {
	synth := &fakeSynth{audio: []byte("mp3")}
	service := NewService(synth, localStore(t))

	url1 := service.Speak(context.Background(), "**Answer** one")
	url2 := service.Speak(context.Background(), "**Answer** one")

	pattern := regexp.MustCompile(`^/static/audio/reply_[0-9a-f-]{36}\.mp3$`)
	assert.Regexp(t, pattern, url1)
	assert.Regexp(t, pattern, url2)
	assert.NotEqual(t, url1, url2)

	// the synthesizer receives cleaned text
	assert.Equal(t, "Answer one", synth.got)
}

func TestSpeakSwallowsSynthFailure(t *testing.T) {
	service := NewService(&fakeSynth{err: errors.New("engine down")}, localStore(t))
	assert.Empty(t, service.Speak(context.Background(), "an answer"))
}

func TestSpeakSkipsEmptyCleanedText(t *testing.T) {
	synth := &fakeSynth{audio: []byte("mp3")}
	service := NewService(synth, localStore(t))
	assert.Empty(t, service.Speak(context.Background(), "*** ###"))
	assert.Empty(t, synth.got)
}

func TestSpeakDisabled(t *testing.T) {
	service := NewService(nil, localStore(t))
	assert.Empty(t, service.Speak(context.Background(), "an answer"))
}

func TestEdgeSynthesizer(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	synth := NewEdgeSynthesizer(server.URL, "")
	audio, err := synth.Synthesize(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(audio))
	assert.Equal(t, "hello world", gotBody["text"])
	assert.Equal(t, DefaultVoice, gotBody["voice"])
}

func TestEdgeSynthesizerEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewEdgeSynthesizer(server.URL, "").Synthesize(context.Background(), "hello")
	assert.Error(t, err)
}

func TestEdgeSynthesizerEmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	_, err := NewEdgeSynthesizer(server.URL, "").Synthesize(context.Background(), "hello")
	assert.Error(t, err)
}
