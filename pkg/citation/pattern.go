package citation

import (
	"regexp"
)

// patternFamily is a declarative descriptor for one citation convention.
// Families are scanned in a fixed order, each over the whole text, so the
// output groups occurrences family by family rather than by text position.
type patternFamily struct {
	family Family

	// expression matches one citation mention. Submatch group keyGroup holds
	// the document identifier; group pageGroup (if nonzero) holds an optional
	// trailing page number.
	expression *regexp.Regexp

	// keyPrefix is the canonical family prefix prepended to the identifier
	// group ("Prop. ", "bet. ", ...). When empty, the key is the identifier
	// group itself (the case-report and official-report forms already carry
	// their canonical prefix in the matched text).
	keyPrefix string

	// keyGroup is the submatch index of the citation identifier; 0 means the
	// whole match.
	keyGroup int

	// pageGroup is the submatch index of the optional page number; 0 means
	// the family has no page marker.
	pageGroup int
}

// The five recognized citation conventions, in scan order. Session-year
// identifiers accept two-digit second years plus the "2000" turn-of-century
// form ("1999/2000:74").
var patternFamilies = []patternFamily{
	{
		family: FamilyCaseReport,
		// The part suffix must end in V: a bare trailing "I" is far more
		// likely to be the Swedish word "i" starting the next sentence than a
		// part numeral.
		expression: regexp.MustCompile(`NJA\s+\d{4}\s+s\.?\s+\d+(?:\s+I*V)?`),
	},
	{
		family:     FamilyBill,
		expression: regexp.MustCompile(`[pP]rop(?:osition|\.)?\s+(\d{4}/(?:\d{2}|2000):\d+)(?:\s+s\.\s+(\d+))?`),
		keyPrefix:  "Prop. ",
		keyGroup:   1,
		pageGroup:  2,
	},
	{
		family:     FamilyOfficialReport,
		expression: regexp.MustCompile(`(SOU\s+\d{4}:\d+)(?:\s+s\.\s+(\d+))?`),
		keyGroup:   1,
		pageGroup:  2,
	},
	{
		family:     FamilyCommitteeReport,
		expression: regexp.MustCompile(`[bB]et(?:änkande|\.)?\s+(\d{4}/(?:\d{2}|2000):\w+\d+)(?:\s+s\.\s+(\d+))?`),
		keyPrefix:  "bet. ",
		keyGroup:   1,
		pageGroup:  2,
	},
	{
		family:     FamilyMotion,
		expression: regexp.MustCompile(`[mM]ot(?:ion|\.)?\s+(\d{4}/(?:\d{2}|2000):\d{2})(?:\s+s\.\s+(\d+))?`),
		keyPrefix:  "Mot. ",
		keyGroup:   1,
		pageGroup:  2,
	},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses every internal whitespace run to a single
// space. Normalization is idempotent: applying it to an already-normalized
// key is a no-op.
func NormalizeWhitespace(text string) string {
	return whitespaceRun.ReplaceAllString(text, " ")
}

// Extract scans the text with each pattern family in order and returns every
// citation occurrence found. Text with no recognizable citations yields an
// empty result; malformed text is not a concern here since any string input
// is scannable. Each call is independent of every other.
func Extract(text string) []Occurrence {
	var occurrences []Occurrence

	for _, family := range patternFamilies {
		for _, matchIndices := range family.expression.FindAllStringSubmatchIndex(text, -1) {
			rawText := text[matchIndices[0]:matchIndices[1]]

			identifier := rawText
			if family.keyGroup > 0 {
				identifier = text[matchIndices[2*family.keyGroup]:matchIndices[2*family.keyGroup+1]]
			}

			var pageNumber string
			if family.pageGroup > 0 && matchIndices[2*family.pageGroup] != -1 {
				pageNumber = text[matchIndices[2*family.pageGroup]:matchIndices[2*family.pageGroup+1]]
			}

			occurrences = append(occurrences, Occurrence{
				RawText: rawText,
				Key:     family.keyPrefix + NormalizeWhitespace(identifier),
				Family:  family.family,
				Page:    pageNumber,
			})
		}
	}

	return occurrences
}
