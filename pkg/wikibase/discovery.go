package wikibase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rattsdata/citera/pkg/decision"
)

// decisionDiscoveryQuery finds every decision of the configured class that
// has a full-text link and a publication date, newest first. The title is
// taken from the derivation record of the case-report part when present.
const decisionDiscoveryQuery = `
SELECT ?item ?url ?date ?title WHERE {
  ?item wdt:` + PropInstanceOf + ` wd:` + ItemSupremeCourtDecision + ` ;
        wdt:` + PropFullWorkURL + ` ?url ;
        wdt:` + PropPublicationDate + ` ?date .
  OPTIONAL { ?item p:` + PropHasPart + ` [ ps:` + PropHasPart + ` wd:` + ItemCaseReport + ` ; prov:wasDerivedFrom/pr:` + PropTitle + ` ?title ] }
}
ORDER BY DESC(?date)
`

// Discovery produces the source decisions to process from the knowledge
// base's SPARQL endpoint.
type Discovery struct {
	sparqlClient *SPARQLClient
	logger       *zap.Logger
}

// NewDiscovery creates a discovery backed by the given SPARQL client.
func NewDiscovery(sparqlClient *SPARQLClient, logger *zap.Logger) *Discovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discovery{
		sparqlClient: sparqlClient,
		logger:       logger,
	}
}

// Decisions runs the discovery query and returns the decisions to process,
// sorted newest first. A positive limit caps the number of results.
// Bindings missing required fields are skipped with a diagnostic rather than
// failing the whole run.
func (discovery *Discovery) Decisions(ctx context.Context, limit int) ([]decision.SourceDecision, error) {
	query := decisionDiscoveryQuery
	if limit > 0 {
		query = fmt.Sprintf("%s\nLIMIT %d", query, limit)
	}

	bindings, err := discovery.sparqlClient.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("decision discovery query failed: %w", err)
	}

	decisions := make([]decision.SourceDecision, 0, len(bindings))
	for _, binding := range bindings {
		itemValue, hasItem := binding["item"]
		urlValue, hasURL := binding["url"]
		dateValue, hasDate := binding["date"]
		if !hasItem || !hasURL || !hasDate {
			discovery.logger.Warn("skipping discovery binding with missing fields",
				zap.Any("binding", binding))
			continue
		}

		decisionDate, err := time.Parse(time.RFC3339, dateValue.Value)
		if err != nil {
			discovery.logger.Warn("skipping discovery binding with malformed date",
				zap.String("item", ItemIDFromURI(itemValue.Value)),
				zap.String("date", dateValue.Value))
			continue
		}

		decisions = append(decisions, decision.SourceDecision{
			Item:         ItemIDFromURI(itemValue.Value),
			DocumentURL:  urlValue.Value,
			Title:        binding["title"].Value,
			DecisionDate: decisionDate,
		})
	}

	return decisions, nil
}
