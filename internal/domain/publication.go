package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Publication represents a single publication record. The record is owned by
// exactly one researcher subcollection (OwnerID); co-author associations are
// resolved at search time, never stored.
//
// Year and Citations are kept in their raw string form as stored by the
// document database: the source data mixes numeric and string values and may
// be absent or unparseable. Call sites use ParseNumeric and document their
// fallback policy (default to zero vs. exclude the record).
type Publication struct {
	// ID is unique within the owning researcher's subcollection.
	ID string

	// OwnerID is the owning researcher's identifier, derived from the
	// document storage path at fetch time. Always refers to an existing
	// researcher; referential integrity is the data layer's concern.
	OwnerID string

	// Title is the publication title. May be empty; such records are
	// dropped during deduplication.
	Title string

	// Authors is the free-text comma-separated author list.
	Authors string

	// Year is the raw publication year field.
	Year string

	// Citations is the raw citation count field.
	Citations string

	// Journal is the journal name, if any.
	Journal string

	// DOI is the digital object identifier, if any.
	DOI string

	// Abstract is the free-text abstract, if any.
	Abstract string

	// Keywords holds the keyword field, which the source stores either as
	// a delimited string or as a list.
	Keywords Keywords

	// OpenAccess indicates the publication is openly accessible.
	OpenAccess bool

	// PubType is the free-text publication type category, if any.
	PubType string

	// URL and DownloadURL are the external and download links, if any.
	URL         string
	DownloadURL string

	// CreatedAt and UpdatedAt are storage timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicationRef is the composite key identifying a publication: the owning
// researcher's ID plus the publication's ID within that subcollection.
type PublicationRef struct {
	OwnerID       string `json:"owner_id"`
	PublicationID string `json:"publication_id"`
}

// NormalizedTitle returns the lowercase trimmed title used as the
// deduplication key. Empty for publications without a usable title.
func (p *Publication) NormalizedTitle() string {
	return strings.ToLower(strings.TrimSpace(p.Title))
}

// Keywords is the tagged union for the publication keyword field: the source
// stores either a single delimited string (comma or semicolon separators) or
// a sequence of strings. Tokens is the single normalization point; all
// downstream consumers operate on the normalized token slice.
type Keywords struct {
	raw    string
	list   []string
	isList bool
}

// KeywordsFromString creates Keywords from a delimited string.
func KeywordsFromString(s string) Keywords {
	return Keywords{raw: s}
}

// KeywordsFromList creates Keywords from an explicit list.
func KeywordsFromList(list []string) Keywords {
	return Keywords{list: list, isList: true}
}

// IsList reports whether the keywords were stored as an explicit sequence.
func (k Keywords) IsList() bool {
	return k.isList
}

// Tokens returns the normalized keyword tokens: delimited strings are split
// on ',' and ';', every token is trimmed, and blank tokens are dropped.
func (k Keywords) Tokens() []string {
	var parts []string
	if k.isList {
		parts = k.list
	} else {
		parts = strings.FieldsFunc(k.raw, func(r rune) bool {
			return r == ',' || r == ';'
		})
	}

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Contains reports whether the given keyword appears exactly in the
// normalized token set.
func (k Keywords) Contains(keyword string) bool {
	for _, t := range k.Tokens() {
		if t == keyword {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the keyword field in its original shape: a string for
// delimited storage, an array for list storage.
func (k Keywords) MarshalJSON() ([]byte, error) {
	if k.isList {
		return json.Marshal(k.list)
	}
	return json.Marshal(k.raw)
}

// UnmarshalJSON accepts either a JSON string or a JSON array of strings,
// preserving which shape the source used.
func (k *Keywords) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*k = KeywordsFromString(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*k = KeywordsFromList(list)
	return nil
}
