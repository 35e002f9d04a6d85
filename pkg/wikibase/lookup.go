package wikibase

import (
	"context"
	"fmt"
	"strings"
)

// CitationLookup finds items by exact legal-citation value. It implements
// the resolver's Lookup interface.
type CitationLookup struct {
	sparqlClient *SPARQLClient
}

// NewCitationLookup creates a lookup backed by the given SPARQL client.
func NewCitationLookup(sparqlClient *SPARQLClient) *CitationLookup {
	return &CitationLookup{sparqlClient: sparqlClient}
}

// FindByLegalCitation returns every item whose legal-citation attribute
// equals the key verbatim. No fuzzy matching: the key must already be in the
// normalized form the matcher produces.
func (citationLookup *CitationLookup) FindByLegalCitation(ctx context.Context, citationKey string) ([]string, error) {
	query := fmt.Sprintf(`SELECT ?item WHERE { ?item wdt:%s %s }`,
		PropLegalCitation, quoteSPARQLString(citationKey))

	bindings, err := citationLookup.sparqlClient.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("legal citation lookup failed: %w", err)
	}

	targets := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		itemValue, hasItem := binding["item"]
		if !hasItem {
			continue
		}
		targets = append(targets, ItemIDFromURI(itemValue.Value))
	}

	return targets, nil
}

// quoteSPARQLString renders a string as a SPARQL literal, escaping the
// characters that would otherwise terminate or corrupt the literal.
func quoteSPARQLString(value string) string {
	escaper := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return `"` + escaper.Replace(value) + `"`
}
