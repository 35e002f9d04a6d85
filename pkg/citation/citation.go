// Package citation extracts Swedish legal-citation mentions from court
// decision text and aggregates repeated mentions per citation key.
package citation

// Family classifies the citation convention a mention belongs to.
type Family string

const (
	// FamilyCaseReport covers case-law reporter citations ("NJA 2019 s. 45").
	FamilyCaseReport Family = "case-report"

	// FamilyBill covers government bill citations ("Prop. 2005/06:55").
	FamilyBill Family = "bill"

	// FamilyOfficialReport covers official government report citations ("SOU 2017:29").
	FamilyOfficialReport Family = "official-report"

	// FamilyCommitteeReport covers parliamentary committee report citations
	// ("bet. 2005/06:JuU22").
	FamilyCommitteeReport Family = "committee-report"

	// FamilyMotion covers parliamentary motion citations ("Mot. 2005/06:42").
	FamilyMotion Family = "motion"
)

// Occurrence is a single citation mention found in source text.
type Occurrence struct {
	// RawText is the matched text exactly as it appears in the source.
	RawText string

	// Key is the normalized citation key: canonical family prefix plus the
	// document identifier, with internal whitespace runs collapsed to single
	// spaces. Two mentions of the same citation always produce the same key.
	Key string

	// Family identifies which pattern family produced the match.
	Family Family

	// Page is the page number cited alongside the mention ("s. 12" → "12"),
	// or the empty string when the mention carries no page marker. The empty
	// string is the absence marker; a cited page 0 would be "0".
	Page string
}

// HasPage reports whether the occurrence carries an explicit page number.
func (occurrence Occurrence) HasPage() bool {
	return occurrence.Page != ""
}
