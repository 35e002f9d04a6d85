package citation

import (
	"testing"
)

func TestExtractSingleFamilies(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantKey    string
		wantFamily Family
		wantPage   string
	}{
		{
			name:       "case report",
			text:       "jämför NJA 2019 s. 45 om ansvar",
			wantKey:    "NJA 2019 s. 45",
			wantFamily: FamilyCaseReport,
		},
		{
			name:       "case report without period after s",
			text:       "se NJA 1984 s 271",
			wantKey:    "NJA 1984 s 271",
			wantFamily: FamilyCaseReport,
		},
		{
			name:       "case report with part numeral",
			text:       "NJA 1994 s. 74 IV är vägledande",
			wantKey:    "NJA 1994 s. 74 IV",
			wantFamily: FamilyCaseReport,
		},
		{
			name:       "bill abbreviated",
			text:       "enligt Prop. 2005/06:55 gäller",
			wantKey:    "Prop. 2005/06:55",
			wantFamily: FamilyBill,
		},
		{
			name:       "bill abbreviated with page",
			text:       "Prop. 2005/06:55 s. 12 anger",
			wantKey:    "Prop. 2005/06:55",
			wantFamily: FamilyBill,
			wantPage:   "12",
		},
		{
			name:       "bill full form lowercase",
			text:       "i proposition 1997/98:44 föreslogs",
			wantKey:    "Prop. 1997/98:44",
			wantFamily: FamilyBill,
		},
		{
			name:       "bill turn-of-century session",
			text:       "prop. 1999/2000:74 s. 8",
			wantKey:    "Prop. 1999/2000:74",
			wantFamily: FamilyBill,
			wantPage:   "8",
		},
		{
			name:       "official report",
			text:       "utredningen SOU 2017:29 behandlar",
			wantKey:    "SOU 2017:29",
			wantFamily: FamilyOfficialReport,
		},
		{
			name:       "official report with page",
			text:       "SOU 2017:29 s. 103",
			wantKey:    "SOU 2017:29",
			wantFamily: FamilyOfficialReport,
			wantPage:   "103",
		},
		{
			name:       "committee report abbreviated",
			text:       "bet. 2005/06:JuU22 tillstyrkte",
			wantKey:    "bet. 2005/06:JuU22",
			wantFamily: FamilyCommitteeReport,
		},
		{
			name:       "committee report full form",
			text:       "riksdagens betänkande 2011/12:CU5 s. 14",
			wantKey:    "bet. 2011/12:CU5",
			wantFamily: FamilyCommitteeReport,
			wantPage:   "14",
		},
		{
			name:       "motion abbreviated",
			text:       "Mot. 2005/06:42 avslogs",
			wantKey:    "Mot. 2005/06:42",
			wantFamily: FamilyMotion,
		},
		{
			name:       "motion full form with page",
			text:       "motion 2005/06:42 s. 3",
			wantKey:    "Mot. 2005/06:42",
			wantFamily: FamilyMotion,
			wantPage:   "3",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			occurrences := Extract(test.text)
			if len(occurrences) != 1 {
				t.Fatalf("Expected 1 occurrence, got %d: %+v", len(occurrences), occurrences)
			}

			occurrence := occurrences[0]
			if occurrence.Key != test.wantKey {
				t.Errorf("Key: got %q, want %q", occurrence.Key, test.wantKey)
			}
			if occurrence.Family != test.wantFamily {
				t.Errorf("Family: got %q, want %q", occurrence.Family, test.wantFamily)
			}
			if occurrence.Page != test.wantPage {
				t.Errorf("Page: got %q, want %q", occurrence.Page, test.wantPage)
			}
		})
	}
}

func TestExtractCollapsesWhitespaceInKey(t *testing.T) {
	// Line breaks inside a citation are common in extracted PDF text.
	occurrences := Extract("se NJA  2019\ns.  45 om ansvar")
	if len(occurrences) != 1 {
		t.Fatalf("Expected 1 occurrence, got %d", len(occurrences))
	}
	if occurrences[0].Key != "NJA 2019 s. 45" {
		t.Errorf("Key: got %q, want %q", occurrences[0].Key, "NJA 2019 s. 45")
	}
	if occurrences[0].RawText != "NJA  2019\ns.  45" {
		t.Errorf("RawText: got %q, want original spacing preserved", occurrences[0].RawText)
	}
}

func TestExtractNoMatches(t *testing.T) {
	occurrences := Extract("detta stycke innehåller inga hänvisningar alls")
	if len(occurrences) != 0 {
		t.Errorf("Expected no occurrences, got %d: %+v", len(occurrences), occurrences)
	}
}

func TestExtractEmptyText(t *testing.T) {
	occurrences := Extract("")
	if len(occurrences) != 0 {
		t.Errorf("Expected no occurrences for empty text, got %d", len(occurrences))
	}
}

func TestExtractGroupsByFamilyOrder(t *testing.T) {
	// Families are scanned one at a time over the whole text, so all case
	// reports come before all bills regardless of text position.
	text := "Prop. 2005/06:55 s. 12 och NJA 2019 s. 45 samt SOU 2017:29"

	occurrences := Extract(text)
	if len(occurrences) != 3 {
		t.Fatalf("Expected 3 occurrences, got %d: %+v", len(occurrences), occurrences)
	}

	wantFamilies := []Family{FamilyCaseReport, FamilyBill, FamilyOfficialReport}
	for occurrenceIndex, wantFamily := range wantFamilies {
		if occurrences[occurrenceIndex].Family != wantFamily {
			t.Errorf("Occurrence %d: got family %q, want %q",
				occurrenceIndex, occurrences[occurrenceIndex].Family, wantFamily)
		}
	}
}

func TestExtractRepeatedCitation(t *testing.T) {
	text := "NJA 2019 s. 45 ... som framgår av NJA 2019 s. 45"

	occurrences := Extract(text)
	if len(occurrences) != 2 {
		t.Fatalf("Expected 2 occurrences, got %d", len(occurrences))
	}
	if occurrences[0].Key != occurrences[1].Key {
		t.Errorf("Expected identical keys, got %q and %q", occurrences[0].Key, occurrences[1].Key)
	}
}

func TestExtractNoEmptyKeys(t *testing.T) {
	texts := []string{
		"NJA 2019 s. 45",
		"prop. 1997/98:44 s. 3 och SOU 2017:29",
		"bet. 2005/06:JuU22, Mot. 2005/06:42",
		"blandad text NJA utan nummer, Prop. utan id",
	}

	for _, text := range texts {
		for _, occurrence := range Extract(text) {
			if occurrence.Key == "" {
				t.Errorf("Empty key extracted from %q", text)
			}
		}
	}
}

func TestExtractIgnoresIncompleteMentions(t *testing.T) {
	// Family keywords without the required identifier are not citations.
	texts := []string{
		"NJA är en rättsfallssamling",
		"en proposition utan nummer",
		"SOU utan årtal",
	}

	for _, text := range texts {
		if occurrences := Extract(text); len(occurrences) != 0 {
			t.Errorf("Extract(%q): expected no occurrences, got %+v", text, occurrences)
		}
	}
}

func TestNormalizeWhitespaceIdempotent(t *testing.T) {
	tests := []string{
		"NJA  2019 \t s.\n45",
		"NJA 2019 s. 45",
		"",
		"   leading and trailing   ",
	}

	for _, input := range tests {
		normalized := NormalizeWhitespace(input)
		if again := NormalizeWhitespace(normalized); again != normalized {
			t.Errorf("Normalization not idempotent for %q: %q != %q", input, again, normalized)
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace("Prop.\n2005/06:55   s.\t12")
	want := "Prop. 2005/06:55 s. 12"
	if got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
}
