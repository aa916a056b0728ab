package search

import "errors"

var (
	// ErrNoRetrievalService indicates that no retrieval service was provided.
	ErrNoRetrievalService = errors.New("retrieval service is required")

	// ErrNothingIndexed replaces the empty store error with a hint for the user.
	ErrNothingIndexed = errors.New("nothing indexed yet: run `docrag index` first")
)
