// Command analyze extracts the text of a local PDF, routes it into sections and prints
// one summary per section as indented JSON.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pdfqa/internal/analysis"
	"pdfqa/internal/config"
	"pdfqa/internal/extractor"
	"pdfqa/internal/inference"
	"pdfqa/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	minTokens int
	maxTokens int
	model     string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadInference()
	opts := options{
		minTokens: cfg.SummaryMinTokens,
		maxTokens: cfg.SummaryMaxTokens,
		model:     cfg.SummarizationModel,
		logLevel:  "warn",
	}

	cmd := &cobra.Command{
		Use:           "analyze <file.pdf>",
		Short:         "Summarize the sections of a PDF filing",
		Long:          `Extracts text from a local PDF, classifies sentences into growth prospects, business changes, key triggers and material effects, and summarizes each non-empty section.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.minTokens <= 0 || opts.maxTokens < opts.minTokens {
				return fmt.Errorf("invalid token bounds: min=%d max=%d", opts.minTokens, opts.maxTokens)
			}
			cfg.SummaryMinTokens = opts.minTokens
			cfg.SummaryMaxTokens = opts.maxTokens
			cfg.SummarizationModel = opts.model

			logger := logging.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel, nil)
			defer logger.Sync()

			pipeline := analysis.NewPipeline(inference.NewSummarizer(inference.NewClient(cfg), cfg), logger)
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], extractor.NewPDF(), pipeline, logger)
		},
	}

	cmd.Flags().IntVar(&opts.minTokens, "min-tokens", opts.minTokens, "minimum summary length in tokens")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", opts.maxTokens, "maximum summary length in tokens")
	cmd.Flags().StringVar(&opts.model, "model", opts.model, "summarization model id")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level for diagnostics on stderr")
	return cmd
}

func run(ctx context.Context, out io.Writer, path string, ext extractor.Extractor, pipeline *analysis.Pipeline, logger *zap.Logger) error {
	text, err := ext.Extract(ctx, path)
	if err != nil {
		return err
	}

	sections := analysis.Classify(analysis.Normalize(text))
	logger.Debug("sections_classified", zap.String("path", path), zap.Int("buckets", len(sections)))

	b, err := json.MarshalIndent(orderedSummaries(pipeline.Summarize(ctx, sections)), "", "  ")
	if err != nil {
		return fmt.Errorf("encode summaries: %w", err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}

// orderedSummaries encodes as a JSON object whose keys keep bucket priority order.
type orderedSummaries []analysis.BucketResult

func (o orderedSummaries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(r.Bucket))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Summary)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
