// Package inference talks to hosted summarization and question-answering models
// through a Hugging Face Inference API compatible HTTP endpoint.
package inference

import (
	"context"

	"pdfqa/internal/model"
)

// Summarizer condenses text with an abstractive summarization model.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// QuestionAnswerer finds the span of document that best answers question.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, document string) (model.Answer, error)
}
