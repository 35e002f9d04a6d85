package citation

import (
	"sort"
)

// PageSet is an unordered set of page numbers cited for one citation key.
type PageSet map[string]struct{}

// NewPageSet creates a page set containing the given pages.
func NewPageSet(pages ...string) PageSet {
	pageSet := make(PageSet, len(pages))
	for _, page := range pages {
		pageSet.Add(page)
	}
	return pageSet
}

// Add inserts a page number into the set.
func (pageSet PageSet) Add(page string) {
	pageSet[page] = struct{}{}
}

// Contains reports whether the set holds the given page number.
func (pageSet PageSet) Contains(page string) bool {
	_, exists := pageSet[page]
	return exists
}

// Len returns the number of distinct pages in the set.
func (pageSet PageSet) Len() int {
	return len(pageSet)
}

// Sorted returns the pages in lexicographic order, for deterministic output.
func (pageSet PageSet) Sorted() []string {
	pages := make([]string, 0, len(pageSet))
	for page := range pageSet {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}

// Aggregate groups citation occurrences by key, collecting the distinct page
// numbers seen for each key. A key mentioned only without a page marker still
// appears in the result, with an empty page set, so that page-less citations
// are recorded and resolved. Duplicate identical occurrences are absorbed by
// the set semantics.
func Aggregate(occurrences []Occurrence) map[string]PageSet {
	groups := make(map[string]PageSet)

	for _, occurrence := range occurrences {
		pages, exists := groups[occurrence.Key]
		if !exists {
			pages = make(PageSet)
			groups[occurrence.Key] = pages
		}
		if occurrence.HasPage() {
			pages.Add(occurrence.Page)
		}
	}

	return groups
}
