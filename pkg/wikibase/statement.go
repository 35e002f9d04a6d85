package wikibase

import (
	"fmt"
	"time"

	"github.com/rattsdata/citera/pkg/decision"
)

// TimePrecisionDay is the Wikibase time precision for dates exact to the day.
const TimePrecisionDay = 11

// calendarGregorian is the calendar model recorded with time values.
const calendarGregorian = "http://www.wikidata.org/entity/Q1985727"

// Snak is a single property-value assertion in Wikibase claim JSON.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// DataValue is the typed value carried by a snak.
type DataValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// EntityIDValue is an item-valued snak payload.
type EntityIDValue struct {
	EntityType string `json:"entity-type"`
	ID         string `json:"id"`
}

// MonolingualTextValue is a language-tagged text snak payload.
type MonolingualTextValue struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// TimeValue is a point-in-time snak payload.
type TimeValue struct {
	Time          string `json:"time"`
	Timezone      int    `json:"timezone"`
	Before        int    `json:"before"`
	After         int    `json:"after"`
	Precision     int    `json:"precision"`
	CalendarModel string `json:"calendarmodel"`
}

// Reference is a provenance block attached to a claim.
type Reference struct {
	Snaks      map[string][]Snak `json:"snaks"`
	SnaksOrder []string          `json:"snaks-order,omitempty"`
}

// Claim is one statement in Wikibase claim JSON, ready for an entity edit.
type Claim struct {
	MainSnak        Snak              `json:"mainsnak"`
	Type            string            `json:"type"`
	Rank            string            `json:"rank"`
	Qualifiers      map[string][]Snak `json:"qualifiers,omitempty"`
	QualifiersOrder []string          `json:"qualifiers-order,omitempty"`
	References      []Reference       `json:"references,omitempty"`
}

// NewItemSnak builds an item-valued snak.
func NewItemSnak(property string, itemID string) Snak {
	return Snak{
		SnakType: "value",
		Property: property,
		DataValue: &DataValue{
			Type:  "wikibase-entityid",
			Value: EntityIDValue{EntityType: "item", ID: itemID},
		},
	}
}

// NewStringSnak builds a string-valued snak (also used for URL properties).
func NewStringSnak(property string, value string) Snak {
	return Snak{
		SnakType: "value",
		Property: property,
		DataValue: &DataValue{
			Type:  "string",
			Value: value,
		},
	}
}

// NewMonolingualSnak builds a language-tagged text snak.
func NewMonolingualSnak(property string, text string, language string) Snak {
	return Snak{
		SnakType: "value",
		Property: property,
		DataValue: &DataValue{
			Type:  "monolingualtext",
			Value: MonolingualTextValue{Text: text, Language: language},
		},
	}
}

// NewTimeSnak builds a day-precision point-in-time snak.
func NewTimeSnak(property string, pointInTime time.Time) Snak {
	return Snak{
		SnakType: "value",
		Property: property,
		DataValue: &DataValue{
			Type: "time",
			Value: TimeValue{
				Time:          formatWikibaseTime(pointInTime),
				Precision:     TimePrecisionDay,
				CalendarModel: calendarGregorian,
			},
		},
	}
}

// formatWikibaseTime renders a time in the Wikibase time format, truncated to
// the day ("+2019-11-13T00:00:00Z").
func formatWikibaseTime(pointInTime time.Time) string {
	return fmt.Sprintf("+%sT00:00:00Z", pointInTime.UTC().Format("2006-01-02"))
}

// BuildCitesClaim renders a citation link as a "cites" claim: an item-valued
// main snak, one page qualifier per cited page, and a single reference block
// recording the source document URL, its title (when available), its
// publication date, and the retrieval time.
func BuildCitesClaim(citationLink decision.CitationLink) Claim {
	provenance := citationLink.Provenance

	referenceSnaks := map[string][]Snak{
		PropReferenceURL: {NewStringSnak(PropReferenceURL, provenance.DocumentURL)},
	}
	snaksOrder := []string{PropReferenceURL}

	if provenance.Title != "" {
		referenceSnaks[PropTitle] = []Snak{
			NewMonolingualSnak(PropTitle, provenance.Title, TitleLanguage),
		}
		snaksOrder = append(snaksOrder, PropTitle)
	}

	referenceSnaks[PropPublicationDate] = []Snak{
		NewTimeSnak(PropPublicationDate, provenance.DecisionDate),
	}
	referenceSnaks[PropRetrieved] = []Snak{
		NewTimeSnak(PropRetrieved, provenance.Retrieved),
	}
	snaksOrder = append(snaksOrder, PropPublicationDate, PropRetrieved)

	claim := Claim{
		MainSnak: NewItemSnak(PropCites, citationLink.Target),
		Type:     "statement",
		Rank:     "normal",
		References: []Reference{{
			Snaks:      referenceSnaks,
			SnaksOrder: snaksOrder,
		}},
	}

	if citationLink.Pages.Len() > 0 {
		pageSnaks := make([]Snak, 0, citationLink.Pages.Len())
		for _, page := range citationLink.Pages.Sorted() {
			pageSnaks = append(pageSnaks, NewStringSnak(PropPage, page))
		}
		claim.Qualifiers = map[string][]Snak{PropPage: pageSnaks}
		claim.QualifiersOrder = []string{PropPage}
	}

	return claim
}
