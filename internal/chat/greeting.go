package chat

import "strings"

var greetings = map[string]struct{}{
	"hi":        {},
	"hello":     {},
	"hy":        {},
	"hey":       {},
	"hola":      {},
	"namaste":   {},
	"greetings": {},
}

// isGreeting decides whether a question gets the canned greeting instead of a
// trip to the generation engine. Purely lexical: the literal set above, or a
// normalized form under 5 characters containing "hi". Kept exactly as shipped
// for compatibility; it is not a language-understanding step.
func isGreeting(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if _, ok := greetings[q]; ok {
		return true
	}
	return len(q) < 5 && strings.Contains(q, "hi")
}
