package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfqa/internal/model"
)

type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

type MockQuestionAnswerer struct {
	mock.Mock
}

func (m *MockQuestionAnswerer) Answer(ctx context.Context, question, document string) (model.Answer, error) {
	args := m.Called(ctx, question, document)
	return args.Get(0).(model.Answer), args.Error(1)
}
