// Package search implements the session search pipeline: identity filtering,
// facet filtering, fuzzy matching, co-author cross-referencing, and
// deduplication with ordering. Every stage is a pure function over the
// session snapshot; the Session type wires the stages into one synchronous
// invocation.
package search

import (
	"strings"

	"github.com/helixir/scholar-directory/internal/domain"
)

// ExcludeIdentity removes the session user's own researcher record from the
// candidate list so users never see themselves in results. A researcher is
// excluded when any identity signal matches:
//
//   - identifier equals the identity's UID
//   - scholar identifier equals the identity's ScholarID (non-empty only)
//   - email equals the identity's Email (non-empty only)
//   - display name equals the identity's full name, case-insensitively
//     (both non-empty only)
//
// A zero identity passes every researcher through unchanged.
func ExcludeIdentity(researchers []domain.Researcher, identity domain.Identity) []domain.Researcher {
	if identity.IsZero() {
		return researchers
	}

	fullName := strings.ToLower(identity.FullName())

	out := make([]domain.Researcher, 0, len(researchers))
	for _, r := range researchers {
		if matchesIdentity(&r, identity, fullName) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesIdentity(r *domain.Researcher, identity domain.Identity, fullName string) bool {
	if identity.UID != "" && r.ID == identity.UID {
		return true
	}
	if identity.ScholarID != "" && r.ScholarID == identity.ScholarID {
		return true
	}
	if identity.Email != "" && r.Email == identity.Email {
		return true
	}
	if fullName != "" {
		if display := strings.ToLower(r.DisplayName()); display != "" && display == fullName {
			return true
		}
	}
	return false
}
