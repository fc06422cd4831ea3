package rag

import "context"

type Option func(*Options)

type Options struct {
	// SystemPrompt opens every generated prompt.
	SystemPrompt string
	// MaxOfferChars truncates each offer's text inside the prompt.
	MaxOfferChars int
	Context       context.Context
}

func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

func WithMaxOfferChars(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxOfferChars = n
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		SystemPrompt:  "You are a career assistant. Answer using only the job offers below, and cite them by reference.",
		MaxOfferChars: 1200,
		Context:       context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
