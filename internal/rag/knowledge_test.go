package rag

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadKnowledgeBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "projects.md", "Built a portfolio dashboard and a risk screener.")
	writeFile(t, dir, "funds.txt", "Mutual funds and SIP strategies for long horizons.")
	writeFile(t, dir, "ignored.json", "{}")

	retriever, err := LoadKnowledgeBase(dir)
	require.NoError(t, err)

	docs, err := retriever.GetRelevantDocuments(context.Background(), "which projects and dashboard work")
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	assert.Contains(t, docs[0].PageContent, "dashboard")
	assert.Equal(t, "projects.md", docs[0].Metadata["source"])
}

func TestLoadKnowledgeBaseEmptyDir(t *testing.T) {
	_, err := LoadKnowledgeBase(t.TempDir())
	assert.Error(t, err)
}

func TestLoadKnowledgeBaseMissingDir(t *testing.T) {
	_, err := LoadKnowledgeBase(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestKeywordRetrieverCapsResults(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md", "d.md", "e.md", "f.md"} {
		writeFile(t, dir, name, "markets and portfolios "+name)
	}

	retriever, err := LoadKnowledgeBase(dir)
	require.NoError(t, err)

	docs, err := retriever.GetRelevantDocuments(context.Background(), "markets")
	require.NoError(t, err)
	assert.Len(t, docs, defaultTopK)
}
