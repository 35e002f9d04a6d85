// Package process orchestrates the per-decision citation pipeline: fetch the
// decision document, extract and aggregate citation mentions, resolve each
// citation key, and append unambiguously resolved links to the knowledge base.
package process

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rattsdata/citera/pkg/citation"
	"github.com/rattsdata/citera/pkg/decision"
)

// DocumentFetcher retrieves the source document bytes for a decision.
type DocumentFetcher interface {
	Fetch(ctx context.Context, documentURL string) ([]byte, error)
}

// TextExtractor turns document bytes into plain text.
type TextExtractor interface {
	ExtractText(documentBytes []byte) (string, error)
}

// CitationResolver maps a citation key to matching knowledge-base items.
type CitationResolver interface {
	Resolve(ctx context.Context, citationKey string) ([]string, error)
}

// LinkWriter appends citation links to a decision entity.
type LinkWriter interface {
	AppendCitationLinks(ctx context.Context, item string, links []decision.CitationLink) error
}

// DecisionStatus is the terminal state of one decision's processing.
type DecisionStatus string

const (
	// StatusLinked means at least one citation link was built.
	StatusLinked DecisionStatus = "linked"

	// StatusNoLinks means processing completed but no citation resolved
	// uniquely, so nothing was written.
	StatusNoLinks DecisionStatus = "no-links"

	// StatusFetchFailed means the document could not be retrieved; the
	// decision was skipped before extraction.
	StatusFetchFailed DecisionStatus = "fetch-failed"

	// StatusExtractFailed means the document text could not be extracted;
	// the decision was skipped before resolution.
	StatusExtractFailed DecisionStatus = "extract-failed"
)

// DecisionOutcome is the typed result of processing one decision. Recoverable
// stage failures terminate in a skip status here rather than escaping as
// errors; only a rejected write escapes ProcessDecision as an error.
type DecisionOutcome struct {
	Decision decision.SourceDecision
	Status   DecisionStatus

	// Links are the citation links built for the decision.
	Links []decision.CitationLink

	// Unresolved counts citation keys with no matching item.
	Unresolved int

	// Ambiguous counts citation keys matching more than one item.
	Ambiguous int

	// LookupFailures counts citation keys skipped because the external
	// lookup itself failed.
	LookupFailures int
}

// Config holds the collaborators and options for a Processor.
type Config struct {
	Fetcher   DocumentFetcher
	Extractor TextExtractor
	Resolver  CitationResolver

	// Writer receives the built links. May be nil only in dry-run mode.
	Writer LinkWriter

	// Logger receives the per-decision diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger

	// DryRun skips the write step; links are still built and reported.
	DryRun bool

	// Now supplies the retrieval timestamp recorded in provenance.
	// Defaults to time.Now.
	Now func() time.Time
}

// Processor runs the citation pipeline over source decisions, sequentially
// and without retries. The only state shared across decisions lives inside
// the resolver's cache.
type Processor struct {
	fetcher   DocumentFetcher
	extractor TextExtractor
	resolver  CitationResolver
	writer    LinkWriter
	logger    *zap.Logger
	dryRun    bool
	now       func() time.Time
}

// NewProcessor creates a processor from the given configuration.
func NewProcessor(config Config) (*Processor, error) {
	if config.Fetcher == nil {
		return nil, fmt.Errorf("document fetcher cannot be nil")
	}
	if config.Extractor == nil {
		return nil, fmt.Errorf("text extractor cannot be nil")
	}
	if config.Resolver == nil {
		return nil, fmt.Errorf("citation resolver cannot be nil")
	}
	if config.Writer == nil && !config.DryRun {
		return nil, fmt.Errorf("link writer cannot be nil outside dry-run mode")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Processor{
		fetcher:   config.Fetcher,
		extractor: config.Extractor,
		resolver:  config.Resolver,
		writer:    config.Writer,
		logger:    logger,
		dryRun:    config.DryRun,
		now:       now,
	}, nil
}

// Run processes every decision in order. Recoverable failures skip the
// affected decision or citation and the run continues; a rejected write
// aborts the run immediately, since it usually means the session or
// credentials are broken for every remaining decision too.
func (processor *Processor) Run(ctx context.Context, decisions []decision.SourceDecision) (*RunReport, error) {
	report := &RunReport{DryRun: processor.dryRun}

	for _, sourceDecision := range decisions {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, err := processor.ProcessDecision(ctx, sourceDecision)
		report.observe(outcome, err == nil)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// ProcessDecision runs the pipeline for a single decision. The returned
// error is non-nil only for the fatal write failure; every recoverable
// condition is folded into the outcome.
func (processor *Processor) ProcessDecision(ctx context.Context, sourceDecision decision.SourceDecision) (*DecisionOutcome, error) {
	outcome := &DecisionOutcome{Decision: sourceDecision}

	documentBytes, err := processor.fetcher.Fetch(ctx, sourceDecision.DocumentURL)
	if err != nil {
		processor.logger.Warn("fetch error",
			zap.String("item", sourceDecision.Item),
			zap.String("url", sourceDecision.DocumentURL),
			zap.Error(err))
		outcome.Status = StatusFetchFailed
		return outcome, nil
	}

	decisionText, err := processor.extractor.ExtractText(documentBytes)
	if err != nil {
		processor.logger.Warn("parse error",
			zap.String("item", sourceDecision.Item),
			zap.Error(err))
		outcome.Status = StatusExtractFailed
		return outcome, nil
	}

	groups := citation.Aggregate(citation.Extract(decisionText))

	retrieved := processor.now().UTC()
	for _, citationKey := range sortedKeys(groups) {
		targets, err := processor.resolver.Resolve(ctx, citationKey)
		if err != nil {
			processor.logger.Warn("lookup error for citation",
				zap.String("item", sourceDecision.Item),
				zap.String("citation", citationKey),
				zap.Error(err))
			outcome.LookupFailures++
			continue
		}

		switch len(targets) {
		case 0:
			processor.logger.Info("no item found for citation",
				zap.String("item", sourceDecision.Item),
				zap.String("citation", citationKey))
			outcome.Unresolved++

		case 1:
			outcome.Links = append(outcome.Links, decision.CitationLink{
				Target: targets[0],
				Pages:  groups[citationKey],
				Provenance: decision.Provenance{
					DocumentURL:  sourceDecision.DocumentURL,
					Title:        sourceDecision.Title,
					DecisionDate: sourceDecision.DecisionDate,
					Retrieved:    retrieved,
				},
			})

		default:
			processor.logger.Info("multiple items found for citation",
				zap.String("item", sourceDecision.Item),
				zap.String("citation", citationKey),
				zap.Strings("candidates", targets))
			outcome.Ambiguous++
		}
	}

	if len(outcome.Links) == 0 {
		outcome.Status = StatusNoLinks
		return outcome, nil
	}
	outcome.Status = StatusLinked

	if processor.dryRun {
		processor.logger.Info("dry run: skipping write",
			zap.String("item", sourceDecision.Item),
			zap.Int("links", len(outcome.Links)))
		return outcome, nil
	}

	if err := processor.writer.AppendCitationLinks(ctx, sourceDecision.Item, outcome.Links); err != nil {
		processor.logger.Error("edit error",
			zap.String("item", sourceDecision.Item),
			zap.Error(err))
		return outcome, fmt.Errorf("writing links for %s: %w", sourceDecision.Item, err)
	}

	return outcome, nil
}

// sortedKeys returns the aggregated citation keys in lexicographic order so
// resolution, diagnostics, and written claims are deterministic.
func sortedKeys(groups map[string]citation.PageSet) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
