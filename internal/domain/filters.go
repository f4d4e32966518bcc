package domain

// FilterKind identifies a facet dimension.
type FilterKind string

const (
	FilterKindYear       FilterKind = "year"
	FilterKindCitations  FilterKind = "citations"
	FilterKindJournal    FilterKind = "journal"
	FilterKindKeyword    FilterKind = "keyword"
	FilterKindOpenAccess FilterKind = "openAccess"
	FilterKindPubType    FilterKind = "pubType"
)

// ActiveFilter is the display record for a facet currently constraining
// results, i.e. one whose value differs from its unrestricted default.
// Computed per invocation, never persisted.
type ActiveFilter struct {
	// Kind is the facet dimension.
	Kind FilterKind `json:"kind"`

	// Label is the human-readable description shown in the active-filter
	// display, e.g. "Year: 2018-2022".
	Label string `json:"label"`

	// Value is the filter value in string form.
	Value string `json:"value"`
}
