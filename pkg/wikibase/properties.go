// Package wikibase talks to a Wikibase knowledge base: SPARQL queries for
// discovery and citation lookup, and MediaWiki API writes for appending
// citation statements.
package wikibase

// Properties of the target knowledge base used by the citation pipeline.
const (
	PropInstanceOf      = "P31"
	PropTitle           = "P1476"
	PropPublicationDate = "P577"
	PropLegalCitation   = "P1031"
	PropFullWorkURL     = "P953"
	PropHasPart         = "P527"
	PropCites           = "P2860"
	PropPage            = "P304"
	PropReferenceURL    = "P854"
	PropRetrieved       = "P813"
)

// Items of the target knowledge base used by the discovery query.
const (
	// ItemSupremeCourtDecision is the class of decisions to discover.
	ItemSupremeCourtDecision = "Q96482904"

	// ItemCaseReport is the has-part member whose derivation record carries
	// the published decision title.
	ItemCaseReport = "Q6738447"
)

// TitleLanguage is the language code recorded with monolingual title values.
const TitleLanguage = "sv"
