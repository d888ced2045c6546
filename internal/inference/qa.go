package inference

import (
	"context"

	"pdfqa/internal/config"
	"pdfqa/internal/model"
)

// HFQuestionAnswerer calls an extractive question-answering model.
// The span is passed through as returned, whatever its score.
type HFQuestionAnswerer struct {
	client *Client
	model  string
}

var _ QuestionAnswerer = (*HFQuestionAnswerer)(nil)

func NewQuestionAnswerer(client *Client, cfg config.InferenceConfig) *HFQuestionAnswerer {
	return &HFQuestionAnswerer{client: client, model: cfg.QAModel}
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaRequest struct {
	Inputs  qaInputs        `json:"inputs"`
	Options *requestOptions `json:"options,omitempty"`
}

func (q *HFQuestionAnswerer) Answer(ctx context.Context, question, document string) (model.Answer, error) {
	req := qaRequest{
		Inputs:  qaInputs{Question: question, Context: document},
		Options: q.client.options(),
	}

	var out model.Answer
	if err := q.client.postJSON(ctx, taskQuestionAnswering, q.client.modelURL(q.model), req, &out); err != nil {
		return model.Answer{}, err
	}
	return out, nil
}
