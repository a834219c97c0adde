package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/schema"
)

const defaultTopK = 4

// LoadKnowledgeBase reads every .md and .txt file under dir into an in-memory
// retriever. Scoring is naive keyword overlap; anything smarter plugs in behind
// the same schema.Retriever interface.
func LoadKnowledgeBase(dir string) (schema.Retriever, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read knowledge dir %s: %w", dir, err)
	}

	var docs []schema.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".md" && ext != ".txt" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("could not read knowledge file %s: %w", entry.Name(), err)
		}
		docs = append(docs, schema.Document{
			PageContent: string(data),
			Metadata:    map[string]any{"source": entry.Name()},
		})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("knowledge dir %s has no .md or .txt files", dir)
	}
	return keywordRetriever{docs: docs, topK: defaultTopK}, nil
}

type keywordRetriever struct {
	docs []schema.Document
	topK int
}

func (r keywordRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	terms := strings.Fields(strings.ToLower(query))

	type scored struct {
		doc   schema.Document
		score int
	}
	ranked := make([]scored, 0, len(r.docs))
	for _, doc := range r.docs {
		content := strings.ToLower(doc.PageContent)
		score := 0
		for _, term := range terms {
			score += strings.Count(content, term)
		}
		ranked = append(ranked, scored{doc: doc, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := r.topK
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]schema.Document, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, s.doc)
	}
	return out, nil
}
