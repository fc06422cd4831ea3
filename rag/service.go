package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/vie-scout/vigie/embedder"
	"github.com/vie-scout/vigie/generator"
	"github.com/vie-scout/vigie/offer"
	"github.com/vie-scout/vigie/search"
)

// Answer is a generated response plus the matches it was grounded on.
type Answer struct {
	Text    string
	Matches []search.Match
}

// Service ties the read path together: embed the question, rank stored
// offers, build a grounded prompt, generate.
type Service struct {
	options   Options
	embedder  embedder.Embedder
	engine    *search.Engine
	generator generator.Generator
}

func New(emb embedder.Embedder, engine *search.Engine, gen generator.Generator, opts ...Option) *Service {
	options := NewOptions(opts...)

	return &Service{
		options:   options,
		embedder:  emb,
		engine:    engine,
		generator: gen,
	}
}

// Search embeds question and returns the top-k stored offers.
func (s *Service) Search(ctx context.Context, question string, k int, opts ...search.QueryOption) ([]search.Match, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	return s.engine.Query(ctx, vector, k, opts...)
}

// Ask retrieves the top-k offers for question and asks the generator for an
// answer grounded on them. Offer text and metadata are passed through
// verbatim, only truncated for prompt budget.
func (s *Service) Ask(ctx context.Context, question string, k int, opts ...search.QueryOption) (Answer, error) {
	matches, err := s.Search(ctx, question, k, opts...)
	if err != nil {
		return Answer{}, err
	}

	text, err := s.generator.Generate(ctx, s.buildPrompt(question, matches))
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	return Answer{Text: text, Matches: matches}, nil
}

func (s *Service) buildPrompt(question string, matches []search.Match) string {
	var b strings.Builder

	b.WriteString(s.options.SystemPrompt)
	b.WriteString("\n")

	if len(matches) == 0 {
		b.WriteString("\nNo matching job offers were found.\n")
	} else {
		b.WriteString("\nJob offers:\n")
	}

	for i, match := range matches {
		meta := match.Entry.Metadata
		b.WriteString(fmt.Sprintf("\n[%d] %s (ref %s, score %.3f)\n",
			i+1, offer.MetaString(meta, offer.MetaTitle), match.Entry.ID, match.Score))

		if company := offer.MetaString(meta, offer.MetaCompany); len(company) > 0 {
			b.WriteString(fmt.Sprintf("%s, %s, %s\n",
				company, offer.MetaString(meta, offer.MetaCity), offer.MetaString(meta, offer.MetaCountry)))
		}
		if url := offer.MetaString(meta, offer.MetaURL); len(url) > 0 {
			b.WriteString(url)
			b.WriteString("\n")
		}

		b.WriteString(truncate(match.Entry.Text, s.options.MaxOfferChars))
		b.WriteString("\n")
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)

	return b.String()
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
