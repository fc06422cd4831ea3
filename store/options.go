package store

import "context"

type Option func(*Options)

type Options struct {
	// Location is backend-specific: a file path for the file store, a
	// postgres DSN for the postgres store.
	Location string
	// Dimensions pins the vector length up front. Zero lets the first
	// accepted Put establish it.
	Dimensions int
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithDimensions(dims int) Option {
	return func(o *Options) {
		o.Dimensions = dims
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
