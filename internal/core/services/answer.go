package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// ContextSeparator joins passages in an assembled context.
const ContextSeparator = "\n\n"

// AnswerAssembler packages retrieved passages as an answer payload.
// It performs no generation: the answer text presents the context and
// labels it as retrieved.
type AnswerAssembler struct {
	header string
}

// NewAnswerAssembler creates an assembler with the default header.
func NewAnswerAssembler() *AnswerAssembler {
	return &AnswerAssembler{
		header: "The following passages were retrieved from the indexed documents and may answer %q. They are quoted as stored, not generated:",
	}
}

// Assemble joins passages with a blank line and builds the answer text.
func (a *AnswerAssembler) Assemble(question string, passages []domain.SearchResult) domain.Answer {
	context := strings.Join(domain.Texts(passages), ContextSeparator)

	var answer string
	if len(passages) == 0 {
		answer = fmt.Sprintf("No retrieved passages match %q.", question)
	} else {
		answer = fmt.Sprintf(a.header, question) + ContextSeparator + context
	}

	return domain.Answer{
		Question: question,
		Context:  context,
		Answer:   answer,
		Passages: passages,
	}
}
