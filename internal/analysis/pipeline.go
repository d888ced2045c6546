package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pdfqa/internal/inference"
)

// SummaryUnavailable replaces the summary of a bucket whose summarization failed.
const SummaryUnavailable = "Summary not available."

// BucketResult is the outcome of summarizing one bucket. Err is set when Summary is the placeholder.
type BucketResult struct {
	Bucket  Bucket
	Summary string
	Err     error
}

// Pipeline summarizes classified sections with an abstractive model.
type Pipeline struct {
	summarizer inference.Summarizer
	logger     *zap.Logger
}

func NewPipeline(summarizer inference.Summarizer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{summarizer: summarizer, logger: logger}
}

// Summarize calls the model once per non-empty bucket, in priority order. A failing bucket
// gets SummaryUnavailable and does not stop the remaining ones.
func (p *Pipeline) Summarize(ctx context.Context, sections Sections) []BucketResult {
	results := make([]BucketResult, 0, len(Buckets))
	for _, bucket := range Buckets {
		fragments := sections[bucket]
		if len(fragments) == 0 {
			continue
		}

		summary, err := p.summarizer.Summarize(ctx, strings.Join(fragments, " "))
		if err != nil {
			p.logger.Warn("section_summary_failed",
				zap.String("bucket", string(bucket)),
				zap.Int("fragments", len(fragments)),
				zap.Error(err),
			)
			summary = SummaryUnavailable
		}
		results = append(results, BucketResult{Bucket: bucket, Summary: summary, Err: err})
	}
	return results
}

// Run normalizes and classifies raw document text, then summarizes it.
// The returned map only holds buckets that matched at least one fragment.
func (p *Pipeline) Run(ctx context.Context, raw string) map[string]string {
	results := p.Summarize(ctx, Classify(Normalize(raw)))
	out := make(map[string]string, len(results))
	for _, r := range results {
		out[string(r.Bucket)] = r.Summary
	}
	return out
}
