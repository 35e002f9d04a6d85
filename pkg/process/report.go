package process

import (
	"fmt"
	"strings"
)

// RunReport summarizes one batch run over the discovered decisions.
type RunReport struct {
	// DecisionsProcessed is the number of decisions the run looked at.
	DecisionsProcessed int `json:"decisions_processed"`

	// DecisionsLinked is the number of decisions for which links were built
	// and (outside dry-run) written.
	DecisionsLinked int `json:"decisions_linked"`

	// DecisionsSkipped is the number of decisions skipped on fetch or
	// extraction failure.
	DecisionsSkipped int `json:"decisions_skipped"`

	// LinksWritten is the total number of citation links written.
	// In dry-run mode it counts the links that would have been written.
	LinksWritten int `json:"links_written"`

	// CitationsUnresolved counts citation keys with no matching item.
	CitationsUnresolved int `json:"citations_unresolved"`

	// CitationsAmbiguous counts citation keys matching several items.
	CitationsAmbiguous int `json:"citations_ambiguous"`

	// LookupFailures counts citation keys skipped on lookup failure.
	LookupFailures int `json:"lookup_failures"`

	// DryRun indicates no writes were attempted.
	DryRun bool `json:"dry_run"`
}

// observe folds one decision outcome into the report. writeSucceeded is
// false only when the write step was attempted and rejected.
func (report *RunReport) observe(outcome *DecisionOutcome, writeSucceeded bool) {
	report.DecisionsProcessed++
	report.CitationsUnresolved += outcome.Unresolved
	report.CitationsAmbiguous += outcome.Ambiguous
	report.LookupFailures += outcome.LookupFailures

	switch outcome.Status {
	case StatusFetchFailed, StatusExtractFailed:
		report.DecisionsSkipped++
	case StatusLinked:
		if writeSucceeded {
			report.DecisionsLinked++
			report.LinksWritten += len(outcome.Links)
		}
	}
}

// String returns a CLI-friendly summary of the run.
func (report *RunReport) String() string {
	var summaryBuilder strings.Builder

	if report.DryRun {
		summaryBuilder.WriteString("Run Report (dry-run):\n")
	} else {
		summaryBuilder.WriteString("Run Report:\n")
	}

	summaryBuilder.WriteString(fmt.Sprintf("  Decisions processed:   %d\n", report.DecisionsProcessed))
	summaryBuilder.WriteString(fmt.Sprintf("  Decisions linked:      %d\n", report.DecisionsLinked))
	summaryBuilder.WriteString(fmt.Sprintf("  Decisions skipped:     %d\n", report.DecisionsSkipped))
	summaryBuilder.WriteString(fmt.Sprintf("  Links written:         %d\n", report.LinksWritten))
	summaryBuilder.WriteString(fmt.Sprintf("  Citations unresolved:  %d\n", report.CitationsUnresolved))
	summaryBuilder.WriteString(fmt.Sprintf("  Citations ambiguous:   %d\n", report.CitationsAmbiguous))

	if report.LookupFailures > 0 {
		summaryBuilder.WriteString(fmt.Sprintf("  Lookup failures:       %d\n", report.LookupFailures))
	}

	return summaryBuilder.String()
}
