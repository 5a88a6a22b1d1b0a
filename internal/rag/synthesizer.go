package rag

import (
	"context"
	"fmt"
	"strings"

	"naijalaw-ai/internal/ai"
	"naijalaw-ai/internal/model"
)

// Fixed sampling settings. Low temperature favors accuracy over
// creativity; these are not tunable per request.
const (
	SynthesisTemperature = 0.3
	SynthesisMaxTokens   = 1500
)

const systemPrompt = `You are NaijaLaw AI, an expert legal assistant specializing in Nigerian law. You have access to a comprehensive database of Nigerian legal documents, cases, and statutes.

Your role is to:
1. Provide accurate, well-researched answers about Nigerian law
2. Cite relevant cases and statutes when applicable
3. Explain legal concepts clearly for legal professionals
4. Always base your responses on the provided context when available
5. If you cannot find relevant information in the context, clearly state this limitation

Guidelines:
- Always prioritize accuracy over completeness
- Use proper legal citation format for Nigerian cases
- Explain the reasoning behind legal principles
- Distinguish between binding precedents and persuasive authorities
- Consider the hierarchy of Nigerian courts when discussing precedents`

type completionClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// Synthesizer builds a grounded prompt from retrieved chunks and calls
// the completion service. It never fabricates an answer: a failed call is
// returned as an error for the orchestrator to handle.
type Synthesizer struct {
	llm completionClient
	cfg ai.ChatConfig
}

func NewSynthesizer(llm *ai.Client, cfg ai.ChatConfig) *Synthesizer {
	cfg.Temperature = SynthesisTemperature
	cfg.MaxTokens = SynthesisMaxTokens
	return &Synthesizer{llm: llm, cfg: cfg}
}

// Answer produces a grounded answer to query from the given chunks.
func (s *Synthesizer) Answer(ctx context.Context, query string, chunks []model.DocumentChunk) (string, error) {
	messages := BuildPrompt(query, chunks)
	answer, err := s.llm.Complete(ctx, s.cfg, messages)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// BuildPrompt assembles the two-part prompt: a system instruction with the
// assistant's domain and grounding rules, and a user instruction with the
// retrieved chunks as numbered context blocks followed by the query.
// Deterministic for a given query and chunk list.
func BuildPrompt(query string, chunks []model.DocumentChunk) []ai.ChatMessage {
	var b strings.Builder
	if len(chunks) == 0 {
		b.WriteString("No matching documents were found in the legal database for this question.\n")
	} else {
		b.WriteString("Context from Nigerian legal documents:\n\n")
		for i := range chunks {
			fmt.Fprintf(&b, "[Document %d]: %s\n\n", i+1, chunks[i].Content)
		}
	}

	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nPlease provide a comprehensive answer based on the Nigerian legal documents provided in the context. If the context doesn't contain sufficient information to fully answer the question, please indicate what additional research might be needed.")

	return []ai.ChatMessage{
		{Role: model.RoleSystem, Content: systemPrompt},
		{Role: model.RoleUser, Content: b.String()},
	}
}
