package search

import "context"

type QueryOption func(*QueryOptions)

type QueryOptions struct {
	Filter  *Filter
	Context context.Context
}

func WithFilter(f *Filter) QueryOption {
	return func(o *QueryOptions) {
		o.Filter = f
	}
}

func NewQueryOptions(opts ...QueryOption) QueryOptions {
	options := QueryOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
