// Package chat holds the per-identity conversation state and the response
// pipeline that assembles answers from it.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"
)

// PromptWindow is the number of most-recent turns included when building model
// context. Storage beyond the window is kept for the life of the process.
const PromptWindow = 15

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	assistantLabel    = "Mentor AI"
	noHistorySentinel = "No previous conversation."
)

type Turn struct {
	Role    string
	Content string
}

type conversation struct {
	mu         sync.Mutex
	turns      []Turn
	lastActive time.Time
}

func (c *conversation) recent(n int) []Turn {
	if len(c.turns) <= n {
		return append([]Turn(nil), c.turns...)
	}
	return append([]Turn(nil), c.turns[len(c.turns)-n:]...)
}

func (c *conversation) append(userText, assistantText string) {
	c.turns = append(c.turns,
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleAssistant, Content: assistantText},
	)
}

// Memory is the process-wide conversation store, keyed by normalized email.
// Each identity gets its own mutex so concurrent requests for the same identity
// serialize on load+append while distinct identities proceed independently.
type Memory struct {
	mu            sync.Mutex
	conversations map[string]*conversation
}

func NewMemory() *Memory {
	return &Memory{conversations: make(map[string]*conversation)}
}

func (m *Memory) conversation(identity string) *conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[identity]
	if !ok {
		conv = &conversation{}
		m.conversations[identity] = conv
	}
	conv.lastActive = time.Now()
	return conv
}

// Recent returns the last PromptWindow turns in insertion order; empty for an
// unknown identity.
func (m *Memory) Recent(identity string) []Turn {
	return m.RecentN(identity, PromptWindow)
}

func (m *Memory) RecentN(identity string, n int) []Turn {
	m.mu.Lock()
	conv, ok := m.conversations[identity]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.recent(n)
}

// Append records one completed exchange: exactly two turns, user then assistant.
func (m *Memory) Append(identity, userText, assistantText string) {
	conv := m.conversation(identity)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.append(userText, assistantText)
}

// EvictIdle drops conversations that have not been touched since the cutoff and
// returns how many were removed.
func (m *Memory) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for identity, conv := range m.conversations {
		if conv.lastActive.Before(cutoff) {
			delete(m.conversations, identity)
			evicted++
		}
	}
	return evicted
}

// Janitor evicts idle conversations on a fixed interval until ctx is done.
func (m *Memory) Janitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle(maxIdle)
		}
	}
}

// FormatPrompt renders turns for prompt injection, one "<label>: <content>" line
// per turn.
func FormatPrompt(turns []Turn) string {
	if len(turns) == 0 {
		return noHistorySentinel
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		label := assistantLabel
		if turn.Role == RoleUser {
			label = "User"
		}
		lines = append(lines, label+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
