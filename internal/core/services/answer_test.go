package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestAnswerAssembler_Assemble(t *testing.T) {
	a := NewAnswerAssembler()
	passages := []domain.SearchResult{
		{Text: "first passage", Position: 2, Score: 0.9},
		{Text: "second passage", Position: 0, Score: 0.5},
	}

	answer := a.Assemble("what is it?", passages)

	assert.Equal(t, "what is it?", answer.Question)
	assert.Equal(t, "first passage\n\nsecond passage", answer.Context)
	assert.Equal(t, passages, answer.Passages)
	assert.Contains(t, answer.Answer, `"what is it?"`)
	assert.Contains(t, answer.Answer, "not generated")
	assert.True(t, len(answer.Answer) > len(answer.Context))
	assert.Equal(t, answer.Context, answer.Answer[len(answer.Answer)-len(answer.Context):])
}

func TestAnswerAssembler_NoPassages(t *testing.T) {
	answer := NewAnswerAssembler().Assemble("anything", nil)

	assert.Empty(t, answer.Context)
	assert.Equal(t, `No retrieved passages match "anything".`, answer.Answer)
}

func TestAnswerAssembler_SinglePassageHasNoSeparator(t *testing.T) {
	answer := NewAnswerAssembler().Assemble("q", []domain.SearchResult{{Text: "only"}})

	assert.Equal(t, "only", answer.Context)
}
