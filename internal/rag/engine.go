// Package rag wraps the external answer-generation engine. The retrieval side is
// deliberately thin: the engine takes whatever schema.Retriever it is handed and
// treats it as opaque.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const systemPrompt = "You are an experienced investment mentor. Answer from the " +
	"provided background material and the conversation so far. Be direct and " +
	"practical; say so when the material does not cover the question."

type Engine struct {
	llm       *openai.LLM
	retriever schema.Retriever
}

func NewEngine(apiKey, model string, retriever schema.Retriever) (*Engine, error) {
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("could not create LLM client: %w", err)
	}
	return &Engine{llm: llm, retriever: retriever}, nil
}

// Answer produces a response for the plain-question path.
func (e *Engine) Answer(ctx context.Context, question, history string) (string, error) {
	background, err := e.background(ctx, question)
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, buildPrompt(question, background, history)),
	}
	return e.generate(ctx, messages)
}

// Consult produces a response for the question+screenshot path. The screenshot is
// a base64 payload, with or without a data-URL prefix.
func (e *Engine) Consult(ctx context.Context, question, screenshot, history string) (string, error) {
	background, err := e.background(ctx, question)
	if err != nil {
		return "", err
	}

	imageURL := screenshot
	if !strings.HasPrefix(imageURL, "data:") {
		imageURL = "data:image/png;base64," + imageURL
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildPrompt(question, background, history)),
				llms.ImageURLPart(imageURL),
			},
		},
	}
	return e.generate(ctx, messages)
}

func (e *Engine) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	resp, err := e.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func (e *Engine) background(ctx context.Context, question string) (string, error) {
	docs, err := e.retriever.GetRelevantDocuments(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retriever failed: %w", err)
	}

	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(doc.PageContent)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func buildPrompt(question, background, history string) string {
	return fmt.Sprintf(
		"Background material:\n%s\n\nConversation so far:\n%s\n\nQuestion: %s",
		background, history, question,
	)
}
