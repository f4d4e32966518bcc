package search

import (
	"fmt"
	"strings"

	"github.com/helixir/scholar-directory/internal/cache"
	"github.com/helixir/scholar-directory/internal/domain"
)

// PubTypeAll is the publication-type value that leaves the facet inactive.
const PubTypeAll = "all"

// FilterSet holds the structured facet selections for one invocation,
// together with the facet domain whose unrestricted defaults decide which
// facets count as active. The engine applies AND semantics across facet
// kinds and OR semantics within the journal and keyword selections.
type FilterSet struct {
	// YearMin and YearMax bound the year facet.
	YearMin int
	YearMax int

	// CitationMin and CitationMax bound the citation facet.
	CitationMin int
	CitationMax int

	// Journals is the set of selected journal names (exact match, OR).
	Journals []string

	// Keywords is the set of selected keywords (exact token match, OR).
	Keywords []string

	// OpenAccessOnly keeps only publications whose open-access flag is
	// strictly true.
	OpenAccessOnly bool

	// PubType is the selected publication type, matched case-insensitively.
	// The value "all" leaves the facet inactive.
	PubType string

	domain cache.FacetDomain
}

// NewFilterSet returns the unrestricted filter set for the given facet
// domain: full year and citation ranges, no journal/keyword/type selections.
func NewFilterSet(facets cache.FacetDomain) FilterSet {
	return FilterSet{
		YearMin:     facets.YearMin,
		YearMax:     facets.YearMax,
		CitationMin: facets.CitationMin,
		CitationMax: facets.CitationMax,
		PubType:     PubTypeAll,
		domain:      facets,
	}
}

// Clear resets every facet to its unrestricted default.
func (f *FilterSet) Clear() {
	*f = NewFilterSet(f.domain)
}

// YearActive reports whether the year facet differs from the full range.
func (f *FilterSet) YearActive() bool {
	return f.YearMin != f.domain.YearMin || f.YearMax != f.domain.YearMax
}

// CitationsActive reports whether the citation facet differs from the full range.
func (f *FilterSet) CitationsActive() bool {
	return f.CitationMin != f.domain.CitationMin || f.CitationMax != f.domain.CitationMax
}

// AnyActive reports whether at least one facet constrains results.
func (f *FilterSet) AnyActive() bool {
	return f.YearActive() ||
		f.CitationsActive() ||
		len(f.Journals) > 0 ||
		len(f.Keywords) > 0 ||
		f.OpenAccessOnly ||
		f.typeActive()
}

func (f *FilterSet) typeActive() bool {
	return f.PubType != "" && !strings.EqualFold(f.PubType, PubTypeAll)
}

// Active returns the display records for every facet currently constraining
// results. This drives the active-filter chips and the Clear action.
func (f *FilterSet) Active() []domain.ActiveFilter {
	var active []domain.ActiveFilter

	if f.YearActive() {
		v := fmt.Sprintf("%d-%d", f.YearMin, f.YearMax)
		active = append(active, domain.ActiveFilter{
			Kind:  domain.FilterKindYear,
			Label: "Year: " + v,
			Value: v,
		})
	}
	if f.CitationsActive() {
		v := fmt.Sprintf("%d-%d", f.CitationMin, f.CitationMax)
		active = append(active, domain.ActiveFilter{
			Kind:  domain.FilterKindCitations,
			Label: "Citations: " + v,
			Value: v,
		})
	}
	for _, j := range f.Journals {
		active = append(active, domain.ActiveFilter{
			Kind:  domain.FilterKindJournal,
			Label: "Journal: " + j,
			Value: j,
		})
	}
	for _, k := range f.Keywords {
		active = append(active, domain.ActiveFilter{
			Kind:  domain.FilterKindKeyword,
			Label: "Keyword: " + k,
			Value: k,
		})
	}
	if f.OpenAccessOnly {
		active = append(active, domain.ActiveFilter{
			Kind:  domain.FilterKindOpenAccess,
			Label: "Open Access",
			Value: "true",
		})
	}
	if f.typeActive() {
		active = append(active, domain.ActiveFilter{
			Kind:  domain.FilterKindPubType,
			Label: "Type: " + f.PubType,
			Value: f.PubType,
		})
	}

	return active
}

// Apply narrows the publication set to those satisfying every active facet.
// Inactive facets admit everything.
func (f *FilterSet) Apply(publications []domain.Publication) []domain.Publication {
	out := make([]domain.Publication, 0, len(publications))
	for i := range publications {
		if f.admits(&publications[i]) {
			out = append(out, publications[i])
		}
	}
	return out
}

func (f *FilterSet) admits(p *domain.Publication) bool {
	// Year: an active year facet excludes publications whose year does not
	// parse; the range check is inclusive.
	if f.YearActive() {
		year, ok := domain.ParseNumeric(p.Year)
		if !ok || year < f.YearMin || year > f.YearMax {
			return false
		}
	}

	// Citations: missing or unparseable counts compare as zero.
	if f.CitationsActive() {
		count := domain.NumericOrZero(p.Citations)
		if count < f.CitationMin || count > f.CitationMax {
			return false
		}
	}

	// Journal: exact match against any selected journal.
	if len(f.Journals) > 0 {
		matched := false
		for _, j := range f.Journals {
			if p.Journal == j {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Keyword: any selected keyword present in the tokenized set.
	if len(f.Keywords) > 0 {
		matched := false
		for _, k := range f.Keywords {
			if p.Keywords.Contains(k) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.OpenAccessOnly && !p.OpenAccess {
		return false
	}

	if f.typeActive() && !strings.EqualFold(p.PubType, f.PubType) {
		return false
	}

	return true
}
