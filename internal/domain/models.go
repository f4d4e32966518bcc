// Package domain provides domain models and business logic for the Researcher Directory Search Service.
package domain

import (
	"strings"
	"time"
)

// Researcher represents an academic researcher record in the directory.
// Records are created by the bulk data reader at session start and are
// immutable for the lifetime of a session snapshot.
type Researcher struct {
	// ID is the unique researcher identifier, matching the identity
	// provider's uid for researchers who also hold accounts.
	ID string

	// Name is the display name as stored in the directory. May be empty
	// when only FirstName/LastName are present.
	Name string

	// FirstName and LastName are the split name fields. Used to derive the
	// display name when Name is empty.
	FirstName string
	LastName  string

	// DepartmentID references the researcher's department.
	DepartmentID string

	// Email is the institutional email address.
	Email string

	// Affiliation is the free-text institutional affiliation.
	Affiliation string

	// PhotoURL references the profile image.
	PhotoURL string

	// Interests is the ordered sequence of research interest tags.
	Interests []string

	// PublicationCount is the number of publications attributed to the researcher.
	PublicationCount int

	// CitationCount is the total citation count across publications.
	CitationCount int

	// ScholarID is the external scholar identifier used for profile
	// navigation. Empty when the researcher has no linked scholar profile.
	ScholarID string

	// CreatedAt and UpdatedAt are storage timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the researcher's display name: the Name field when
// present, otherwise the concatenation of FirstName and LastName.
func (r *Researcher) DisplayName() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// Department represents an entry in the department directory.
type Department struct {
	// ID is the department identifier.
	ID string

	// Name is the human-readable department name.
	Name string
}

// Identity describes the current session's user, as provided by the
// upstream identity/session collaborator. The zero value means no session.
type Identity struct {
	// UID is the account identifier.
	UID string

	// Email is the account email address.
	Email string

	// FirstName and LastName are the account name fields.
	FirstName string
	LastName  string

	// ScholarID is the external scholar identifier linked to the account,
	// if any.
	ScholarID string
}

// FullName returns the trimmed concatenation of first and last name.
func (i Identity) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
}

// IsZero reports whether the identity carries no session information.
func (i Identity) IsZero() bool {
	return i.UID == "" && i.Email == "" && i.ScholarID == "" && i.FullName() == ""
}
