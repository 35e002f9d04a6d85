// Package decision holds the data model shared between the decision
// processor and the knowledge-base collaborators: the court decisions under
// processing and the citation links written back for them.
package decision

import (
	"time"

	"github.com/rattsdata/citera/pkg/citation"
)

// SourceDecision identifies one court decision to process. Records are
// produced by the discovery query and are immutable for the run.
type SourceDecision struct {
	// Item is the knowledge-base identifier of the decision entity (e.g. "Q110813466").
	Item string

	// DocumentURL is the full-text PDF location.
	DocumentURL string

	// Title is the published decision title. Empty when the discovery query
	// found no title; provenance then simply omits it.
	Title string

	// DecisionDate is the publication date as recorded in the knowledge base.
	DecisionDate time.Time
}

// HasTitle reports whether a published title was available at discovery time.
func (sourceDecision SourceDecision) HasTitle() bool {
	return sourceDecision.Title != ""
}

// Provenance is the structured justification attached to a written citation
// link: where the citing text was found and when it was read.
type Provenance struct {
	// DocumentURL is the source document the citation was extracted from.
	DocumentURL string

	// Title is the source decision title; empty when unavailable.
	Title string

	// DecisionDate is the source decision's publication date.
	DecisionDate time.Time

	// Retrieved is the timestamp at which the document was fetched.
	Retrieved time.Time
}

// CitationLink is one "cites" statement ready to be appended to a decision
// entity. It is built only when a citation key resolved to exactly one
// knowledge-base item.
type CitationLink struct {
	// Target is the knowledge-base identifier of the cited item.
	Target string

	// Pages holds the page numbers on which the citation appeared, attached
	// to the statement as qualifiers. May be empty.
	Pages citation.PageSet

	// Provenance is the reference block recorded with the statement.
	Provenance Provenance
}
