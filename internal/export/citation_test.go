package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/scholar-directory/internal/domain"
)

func TestCitation(t *testing.T) {
	t.Parallel()

	full := &domain.Publication{
		Title:   "Quantum Error Correction at Scale",
		Authors: "A. Rivera, B. Novak",
		Year:    "2022",
		Journal: "Physical Review X",
	}

	tests := []struct {
		name   string
		pub    *domain.Publication
		format CitationFormat
		want   string
	}{
		{
			name:   "apa full",
			pub:    full,
			format: FormatAPA,
			want:   "A. Rivera, B. Novak (2022). Quantum Error Correction at Scale. Physical Review X.",
		},
		{
			name:   "mla full",
			pub:    full,
			format: FormatMLA,
			want:   `A. Rivera, B. Novak. "Quantum Error Correction at Scale." Physical Review X, 2022.`,
		},
		{
			name:   "bibtex full",
			pub:    full,
			format: FormatBibTeX,
			want: "@article{rivera2022,\n" +
				"  title={Quantum Error Correction at Scale},\n" +
				"  author={A. Rivera, B. Novak},\n" +
				"  journal={Physical Review X},\n" +
				"  year={2022}\n" +
				"}",
		},
		{
			name:   "apa missing fields",
			pub:    &domain.Publication{},
			format: FormatAPA,
			want:   "Unknown (n.d.). Untitled.",
		},
		{
			name:   "mla missing journal",
			pub:    &domain.Publication{Title: "Short Note", Authors: "C. Díaz", Year: "2015"},
			format: FormatMLA,
			want:   `C. Díaz. "Short Note." 2015.`,
		},
		{
			name:   "bibtex missing fields",
			pub:    &domain.Publication{},
			format: FormatBibTeX,
			want: "@article{unknownnd,\n" +
				"  title={Untitled},\n" +
				"  author={Unknown},\n" +
				"  year={n.d.}\n" +
				"}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Citation(tt.pub, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCitationUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Citation(&domain.Publication{Title: "X"}, CitationFormat("chicago"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
