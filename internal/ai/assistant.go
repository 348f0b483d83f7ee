// Package ai describes the external text-generation collaborator used for enrichment.
package ai

import "context"

// Generator turns a prompt into raw text. A nil Generator means no service is configured.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Describer is implemented by generators that can name their provider and model for logs.
type Describer interface {
	Provider() string
	Model() string
}

// Describe returns provider and model when g implements Describer.
func Describe(g Generator) (provider, model string) {
	if d, ok := g.(Describer); ok {
		return d.Provider(), d.Model()
	}
	return "", ""
}
