// Package export produces the presentation-facing output formats: CSV
// downloads of publication result sets and citation text in APA, MLA, and
// BibTeX styles.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/helixir/scholar-directory/internal/domain"
)

// csvHeader is the fixed column order for publication exports.
var csvHeader = []string{"Title", "Authors", "Year", "Journal", "Citations", "DOI", "URL"}

// CSV renders the publication set as CSV. Every field is quoted and embedded
// quotes are doubled; rows are newline-terminated. The column order is
// Title, Authors, Year, Journal, Citations, DOI, URL.
func CSV(publications []domain.Publication) string {
	var sb strings.Builder

	writeRow(&sb, csvHeader)
	for i := range publications {
		p := &publications[i]
		writeRow(&sb, []string{
			p.Title,
			p.Authors,
			p.Year,
			p.Journal,
			p.Citations,
			p.DOI,
			p.URL,
		})
	}

	return sb.String()
}

// CSVFilename returns the download filename stamped with the given date,
// e.g. research_publications_2026-09-01.csv.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("research_publications_%s.csv", now.Format("2006-01-02"))
}

func writeRow(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
}
