package source

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Location string
	PageSize int
	// Timeout bounds a single page fetch.
	Timeout time.Duration
	Context context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithPageSize(size int) Option {
	return func(o *Options) {
		o.PageSize = size
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		PageSize: 50,
		Timeout:  30 * time.Second,
		Context:  context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
