package embedder

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	ApiKey string
	Model  string
	// Dimensions requests a specific output dimensionality from providers
	// that support it. Zero keeps the model default.
	Dimensions int
	// Timeout bounds a single Embed call. Zero means no per-call deadline
	// beyond the caller's context.
	Timeout time.Duration
	Context context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithDimensions(dims int) Option {
	return func(o *Options) {
		o.Dimensions = dims
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
