package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mediacatalog/searchservice/internal/catalog"
	"mediacatalog/searchservice/internal/domain"
	"mediacatalog/searchservice/internal/metrics"
)

// Policy controls how the ingestor reacts to a line that fails to parse.
type Policy string

const (
	// PolicySkipInvalid records the failure and keeps going.
	PolicySkipInvalid Policy = "skip_invalid"
	// PolicyAbortOnError stops the whole run at the first bad line.
	PolicyAbortOnError Policy = "abort_on_error"
)

func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case PolicySkipInvalid, "":
		return PolicySkipInvalid, nil
	case PolicyAbortOnError:
		return PolicyAbortOnError, nil
	default:
		return "", fmt.Errorf("unknown ingest policy %q", raw)
	}
}

// LineError ties a parse failure to its position in a source.
type LineError struct {
	Source string `json:"source"`
	LineNo int    `json:"lineNo"`
	Err    error  `json:"-"`
	Reason string `json:"reason"`
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.LineNo, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Report summarizes one ingest run.
type Report struct {
	Parsed   int         `json:"parsed"`
	Skipped  int         `json:"skipped"`
	Failures []LineError `json:"failures,omitempty"`
}

// Ingestor turns raw catalog lines from one or more sources into media
// records. It does not touch any store: the caller decides what to do with
// the batch, so a failed abort-on-error run leaves no partial state behind.
type Ingestor struct {
	sources []Source
	policy  Policy
	logger  *slog.Logger
}

type Option func(*Ingestor)

func WithPolicy(policy Policy) Option {
	return func(in *Ingestor) {
		in.policy = policy
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(in *Ingestor) {
		in.logger = logger
	}
}

func New(sources []Source, opts ...Option) *Ingestor {
	in := &Ingestor{
		sources: sources,
		policy:  PolicySkipInvalid,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run reads every source in order and parses each line. Blank lines and
// comment lines count as skipped. Under PolicyAbortOnError the first parse
// failure aborts the run with a *LineError; under PolicySkipInvalid failures
// are collected in the report and the run always succeeds.
func (in *Ingestor) Run(ctx context.Context) ([]domain.Media, Report, error) {
	var (
		batch  []domain.Media
		report Report
	)

	for _, source := range in.sources {
		lines, err := source.Lines(ctx)
		if err != nil {
			return nil, Report{}, fmt.Errorf("source %s: %w", source.Name(), err)
		}

		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				report.Skipped++
				metrics.IngestLinesTotal.WithLabelValues(source.Name(), "blank").Inc()
				continue
			}

			media, ok, err := catalog.ParseLine(line)
			if err != nil {
				metrics.IngestLinesTotal.WithLabelValues(source.Name(), "error").Inc()
				metrics.ParseLinesTotal.WithLabelValues("error").Inc()
				if kind := catalog.ErrorKind(err); kind != "" {
					metrics.ParseErrorsTotal.WithLabelValues(string(kind)).Inc()
				}
				lineErr := &LineError{
					Source: source.Name(),
					LineNo: i + 1,
					Err:    err,
					Reason: err.Error(),
				}
				if in.policy == PolicyAbortOnError {
					return nil, Report{}, lineErr
				}
				in.logger.Warn("skipping invalid catalog line",
					"source", source.Name(),
					"line", i+1,
					"error", err,
				)
				report.Failures = append(report.Failures, *lineErr)
				continue
			}
			if !ok {
				report.Skipped++
				metrics.IngestLinesTotal.WithLabelValues(source.Name(), "comment").Inc()
				metrics.ParseLinesTotal.WithLabelValues("comment").Inc()
				continue
			}

			batch = append(batch, media)
			report.Parsed++
			metrics.IngestLinesTotal.WithLabelValues(source.Name(), "ok").Inc()
			metrics.ParseLinesTotal.WithLabelValues("ok").Inc()
		}
	}

	return batch, report, nil
}
