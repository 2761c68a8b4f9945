// Package annotate produces human-readable relationship labels for edges.
package annotate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/curio-social/semgraph/internal/domain"
)

// Similarity tiers for the heuristic labels.
const (
	tierHigh     = 0.7
	tierModerate = 0.5

	labelHigh     = "High similarity - Very related topics"
	labelModerate = "Moderate similarity - Related concepts"
	labelLow      = "Low similarity - Slightly related"
)

const (
	describeSystemPrompt = "You are a helpful assistant that explains relationships between content pieces concisely."
	describeExcerptLen   = 200
	describeMaxTokens    = 50

	detailsSystemPrompt = "You are a helpful assistant that analyzes relationships between content pieces in detail."
	detailsExcerptLen   = 400
	detailsMaxTokens    = 300
)

// Service annotates edges. The chat client is optional; without one every
// label comes from the similarity heuristic.
type Service struct {
	chat   domain.ChatCompleter
	bar    float64
	logger *zap.Logger
}

// New creates the annotation service. bar is the minimum similarity for which
// a chat call is worth making; chat may be nil.
func New(chat domain.ChatCompleter, bar float64, logger *zap.Logger) *Service {
	return &Service{chat: chat, bar: bar, logger: logger}
}

// Describe returns a one-sentence relationship label for two texts with the
// given similarity. Chat failures degrade to the heuristic label, never error.
func (s *Service) Describe(ctx context.Context, textA, textB string, similarity float64) string {
	if s.chat == nil || similarity <= s.bar {
		return HeuristicLabel(similarity)
	}

	user := fmt.Sprintf(
		"Post 1: %s\n\nPost 2: %s\n\nExplain the relationship between these two posts in one sentence:",
		excerpt(textA, describeExcerptLen),
		excerpt(textB, describeExcerptLen),
	)

	out, err := s.chat.Complete(ctx, describeSystemPrompt, user, describeMaxTokens)
	if err != nil {
		s.logger.Warn("Chat annotation failed, using heuristic label", zap.Error(err))
		return HeuristicLabel(similarity)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return HeuristicLabel(similarity)
	}
	return out
}

// Analyze returns a detailed multi-part relationship analysis for two texts.
// Errors degrade to an unavailability notice, never propagate.
func (s *Service) Analyze(ctx context.Context, textA, textB string) string {
	if s.chat == nil {
		return "AI analysis unavailable."
	}

	user := fmt.Sprintf(
		"Post 1: %s\n\nPost 2: %s\n\n"+
			"Analyze the relationship between these two posts. Structure your answer as:\n"+
			"SIMILARITIES: what the posts share\n"+
			"DIFFERENCES: how the posts diverge\n"+
			"SUMMARY: one sentence on the overall relationship",
		excerpt(textA, detailsExcerptLen),
		excerpt(textB, detailsExcerptLen),
	)

	out, err := s.chat.Complete(ctx, detailsSystemPrompt, user, detailsMaxTokens)
	if err != nil {
		s.logger.Warn("Chat analysis failed", zap.Error(err))
		return "AI analysis unavailable."
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "AI analysis unavailable."
	}
	return out
}

// HeuristicLabel maps a similarity score to a fixed tier label.
func HeuristicLabel(similarity float64) string {
	switch {
	case similarity > tierHigh:
		return labelHigh
	case similarity > tierModerate:
		return labelModerate
	default:
		return labelLow
	}
}

// excerpt truncates text to at most n bytes for prompt construction, backing
// off to the previous rune boundary so a multibyte character is never split.
func excerpt(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
