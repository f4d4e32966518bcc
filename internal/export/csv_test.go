package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/scholar-directory/internal/domain"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	pubs := []domain.Publication{
		{
			Title:     "Deep Learning for Protein Folding",
			Authors:   "A. Karimi, B. Chen",
			Year:      "2021",
			Journal:   "Nature Methods",
			Citations: "412",
			DOI:       "10.1000/xyz123",
			URL:       "https://example.org/papers/1",
		},
		{
			Title:     `Measuring "Fairness" in Ranking`,
			Authors:   "C. Okafor",
			Year:      "2019",
			Journal:   "",
			Citations: "57",
			DOI:       "",
			URL:       "https://example.org/papers/2",
		},
	}

	out := CSV(pubs)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Title","Authors","Year","Journal","Citations","DOI","URL"`, lines[0])
	assert.Equal(t, `"Deep Learning for Protein Folding","A. Karimi, B. Chen","2021","Nature Methods","412","10.1000/xyz123","https://example.org/papers/1"`, lines[1])
	assert.Equal(t, `"Measuring ""Fairness"" in Ranking","C. Okafor","2019","","57","","https://example.org/papers/2"`, lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	pubs := []domain.Publication{
		{
			Title:     `Graphs, "Cuts", and Flows`,
			Authors:   "D. Li, E. Moreau",
			Year:      "2020",
			Journal:   "SIAM J. Comput.",
			Citations: "88",
			DOI:       "10.1000/abc987",
			URL:       "https://example.org/papers/3",
		},
		{
			Title:     "On the Complexity of Everything",
			Authors:   "F. Haddad",
			Year:      "2018",
			Journal:   "JACM",
			Citations: "301",
			DOI:       "10.1000/def654",
			URL:       "https://example.org/papers/4",
		},
	}

	records, err := csv.NewReader(strings.NewReader(CSV(pubs))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, p := range pubs {
		row := records[i+1]
		assert.Equal(t, p.Title, row[0])
		assert.Equal(t, p.Authors, row[1])
		assert.Equal(t, p.Year, row[2])
		assert.Equal(t, p.Journal, row[3])
		assert.Equal(t, p.Citations, row[4])
		assert.Equal(t, p.DOI, row[5])
		assert.Equal(t, p.URL, row[6])
	}
}

func TestCSVEmpty(t *testing.T) {
	t.Parallel()

	out := CSV(nil)
	assert.Equal(t, `"Title","Authors","Year","Journal","Citations","DOI","URL"`+"\n", out)
}

func TestCSVFilename(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "research_publications_2024-03-07.csv", CSVFilename(now))
}
