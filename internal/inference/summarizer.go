package inference

import (
	"context"
	"fmt"
	"strings"

	"pdfqa/internal/config"
)

// HFSummarizer calls a summarization model with bounded output length and greedy decoding.
type HFSummarizer struct {
	client    *Client
	model     string
	minLength int
	maxLength int
}

var _ Summarizer = (*HFSummarizer)(nil)

func NewSummarizer(client *Client, cfg config.InferenceConfig) *HFSummarizer {
	return &HFSummarizer{
		client:    client,
		model:     cfg.SummarizationModel,
		minLength: cfg.SummaryMinTokens,
		maxLength: cfg.SummaryMaxTokens,
	}
}

type summarizationParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type summarizationRequest struct {
	Inputs     string                  `json:"inputs"`
	Parameters summarizationParameters `json:"parameters"`
	Options    *requestOptions         `json:"options,omitempty"`
}

func (s *HFSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	req := summarizationRequest{
		Inputs: text,
		Parameters: summarizationParameters{
			MinLength: s.minLength,
			MaxLength: s.maxLength,
			DoSample:  false,
		},
		Options: s.client.options(),
	}

	var resp []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := s.client.postJSON(ctx, taskSummarization, s.client.modelURL(s.model), req, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 {
		return "", fmt.Errorf("empty summarization result")
	}
	return strings.TrimSpace(resp[0].SummaryText), nil
}
