package generator

import "context"

// Generator produces a text answer for a fully-built prompt. The retrieval
// side owns prompt construction; implementations only call their model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
