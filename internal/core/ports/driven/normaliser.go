package driven

import "context"

// Normaliser converts the raw bytes of one document format into plain text.
type Normaliser interface {
	// Name identifies the format (e.g. "markdown").
	Name() string

	// Extensions returns the lower-case file extensions handled, with the dot.
	Extensions() []string

	// Normalise returns the readable text of raw. Malformed input is an
	// error wrapping domain.ErrExtraction.
	Normalise(ctx context.Context, raw []byte) (string, error)
}
