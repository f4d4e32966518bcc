package export

import (
	"fmt"
	"strings"

	"github.com/helixir/scholar-directory/internal/domain"
)

// CitationFormat selects a citation rendering style.
type CitationFormat string

const (
	FormatAPA    CitationFormat = "apa"
	FormatMLA    CitationFormat = "mla"
	FormatBibTeX CitationFormat = "bibtex"
)

// Literal fallbacks for missing citation fields.
const (
	fallbackAuthors = "Unknown"
	fallbackYear    = "n.d."
	fallbackTitle   = "Untitled"
)

// Citation renders a single publication in the requested format. Missing
// fields fall back to the literal strings "Unknown" (authors), "n.d." (year),
// and "Untitled" (title); field ordering and punctuation are fixed.
func Citation(p *domain.Publication, format CitationFormat) (string, error) {
	switch format {
	case FormatAPA:
		return apa(p), nil
	case FormatMLA:
		return mla(p), nil
	case FormatBibTeX:
		return bibtex(p), nil
	default:
		return "", domain.NewValidationError("format", fmt.Sprintf("unsupported citation format %q", format))
	}
}

func citationFields(p *domain.Publication) (authors, year, title string) {
	authors = strings.TrimSpace(p.Authors)
	if authors == "" {
		authors = fallbackAuthors
	}
	year = strings.TrimSpace(p.Year)
	if year == "" {
		year = fallbackYear
	}
	title = strings.TrimSpace(p.Title)
	if title == "" {
		title = fallbackTitle
	}
	return authors, year, title
}

// apa renders "Authors (Year). Title. Journal." with the journal clause
// omitted when blank.
func apa(p *domain.Publication) string {
	authors, year, title := citationFields(p)

	var sb strings.Builder
	sb.WriteString(authors)
	sb.WriteString(" (")
	sb.WriteString(year)
	sb.WriteString("). ")
	sb.WriteString(title)
	sb.WriteString(".")
	if j := strings.TrimSpace(p.Journal); j != "" {
		sb.WriteString(" ")
		sb.WriteString(j)
		sb.WriteString(".")
	}
	return sb.String()
}

// mla renders `Authors. "Title." Journal, Year.` with the journal clause
// omitted when blank.
func mla(p *domain.Publication) string {
	authors, year, title := citationFields(p)

	var sb strings.Builder
	sb.WriteString(authors)
	sb.WriteString(`. "`)
	sb.WriteString(title)
	sb.WriteString(`." `)
	if j := strings.TrimSpace(p.Journal); j != "" {
		sb.WriteString(j)
		sb.WriteString(", ")
	}
	sb.WriteString(year)
	sb.WriteString(".")
	return sb.String()
}

// bibtex renders an @article entry keyed by the first author's last word and
// the year.
func bibtex(p *domain.Publication) string {
	authors, year, title := citationFields(p)

	var sb strings.Builder
	sb.WriteString("@article{")
	sb.WriteString(bibtexKey(authors, year))
	sb.WriteString(",\n")
	sb.WriteString("  title={")
	sb.WriteString(title)
	sb.WriteString("},\n")
	sb.WriteString("  author={")
	sb.WriteString(authors)
	sb.WriteString("},\n")
	if j := strings.TrimSpace(p.Journal); j != "" {
		sb.WriteString("  journal={")
		sb.WriteString(j)
		sb.WriteString("},\n")
	}
	sb.WriteString("  year={")
	sb.WriteString(year)
	sb.WriteString("}\n")
	sb.WriteString("}")
	return sb.String()
}

// bibtexKey builds a citation key from the first author's last name token
// and the year, lowercased with non-alphanumerics stripped.
func bibtexKey(authors, year string) string {
	first := authors
	if idx := strings.Index(authors, ","); idx >= 0 {
		first = authors[:idx]
	}

	parts := strings.Fields(first)
	last := "unknown"
	if len(parts) > 0 {
		last = parts[len(parts)-1]
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(last + year) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "unknown"
	}
	return sb.String()
}
