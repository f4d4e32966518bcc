package search

import (
	"net/url"
	"strings"

	"github.com/helixir/scholar-directory/internal/domain"
)

// scholarProfileBase is the external scholar profile endpoint.
const scholarProfileBase = "https://scholar.google.com/citations"

// ProfileURL resolves the external profile address for a scholar identifier.
// An empty identifier is a NavigationRejected error: the caller surfaces a
// user-visible message and performs no navigation.
func ProfileURL(scholarID string) (string, error) {
	scholarID = strings.TrimSpace(scholarID)
	if scholarID == "" {
		return "", domain.ErrNavigationRejected
	}

	q := url.Values{}
	q.Set("user", scholarID)
	return scholarProfileBase + "?" + q.Encode(), nil
}
