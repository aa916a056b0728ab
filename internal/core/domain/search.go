package domain

// DefaultTopK is the number of passages returned when the caller does not choose.
const DefaultTopK = 3

// SearchResult is a single ranked passage.
type SearchResult struct {
	// Text is the stored chunk text.
	Text string

	// Position is the insertion ordinal in the store, used for stable ordering.
	Position int

	// Score is the cosine similarity to the query.
	Score float64
}

// Answer packages retrieved passages for a question.
type Answer struct {
	// Question is the question as asked.
	Question string

	// Context is the passages joined by blank lines.
	Context string

	// Answer is a templated presentation of the context.
	Answer string

	// Passages are the ranked passages the context was built from.
	Passages []SearchResult
}

// Texts returns the passage texts in rank order.
func Texts(results []SearchResult) []string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return texts
}
