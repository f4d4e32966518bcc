package server

import (
	"github.com/helixir/scholar-directory/internal/cache"
	"github.com/helixir/scholar-directory/internal/domain"
	"github.com/helixir/scholar-directory/internal/search"
)

// Response types for JSON serialization.

type researcherResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	DepartmentID     string   `json:"department_id,omitempty"`
	Email            string   `json:"email,omitempty"`
	Affiliation      string   `json:"affiliation,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	Interests        []string `json:"interests,omitempty"`
	PublicationCount int      `json:"publication_count"`
	CitationCount    int      `json:"citation_count"`
	HasProfile       bool     `json:"has_profile"`
	Score            float64  `json:"score,omitempty"`
}

type researcherRefResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HasProfile bool   `json:"has_profile"`
}

type publicationResponse struct {
	ID          string                  `json:"id"`
	OwnerID     string                  `json:"owner_id"`
	Title       string                  `json:"title"`
	Authors     string                  `json:"authors,omitempty"`
	Year        string                  `json:"year,omitempty"`
	Citations   string                  `json:"citations,omitempty"`
	Journal     string                  `json:"journal,omitempty"`
	DOI         string                  `json:"doi,omitempty"`
	Abstract    string                  `json:"abstract,omitempty"`
	Keywords    []string                `json:"keywords,omitempty"`
	OpenAccess  bool                    `json:"open_access"`
	PubType     string                  `json:"pub_type,omitempty"`
	URL         string                  `json:"url,omitempty"`
	DownloadURL string                  `json:"download_url,omitempty"`
	Researchers []researcherRefResponse `json:"researchers,omitempty"`
	Score       float64                 `json:"score,omitempty"`
}

type searchResponse struct {
	Researchers       []researcherResponse  `json:"researchers"`
	Publications      []publicationResponse `json:"publications"`
	ActiveFilters     []domain.ActiveFilter `json:"active_filters"`
	Page              int                   `json:"page"`
	CollapseAbstracts bool                  `json:"collapse_abstracts"`
	Empty             bool                  `json:"empty"`
	DurationMillis    int64                 `json:"duration_ms"`
}

type facetsResponse struct {
	Journals    []string `json:"journals"`
	Keywords    []string `json:"keywords"`
	YearMin     int      `json:"year_min"`
	YearMax     int      `json:"year_max"`
	CitationMin int      `json:"citation_min"`
	CitationMax int      `json:"citation_max"`
}

type departmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type profileResponse struct {
	ResearcherID string `json:"researcher_id"`
	URL          string `json:"url"`
}

type citationResponse struct {
	Format   string `json:"format"`
	Citation string `json:"citation"`
}

type likeCountResponse struct {
	OwnerID       string `json:"owner_id"`
	PublicationID string `json:"publication_id"`
	Likes         int64  `json:"likes"`
}

type bookmarkListResponse struct {
	Bookmarks []domain.PublicationRef `json:"bookmarks"`
}

type reloadResponse struct {
	Researchers  int    `json:"researchers"`
	Publications int    `json:"publications"`
	LoadedAt     string `json:"loaded_at"`
}

// Converter functions

func researcherToResponse(r domain.Researcher) researcherResponse {
	return researcherResponse{
		ID:               r.ID,
		Name:             r.DisplayName(),
		DepartmentID:     r.DepartmentID,
		Email:            r.Email,
		Affiliation:      r.Affiliation,
		PhotoURL:         r.PhotoURL,
		Interests:        r.Interests,
		PublicationCount: r.PublicationCount,
		CitationCount:    r.CitationCount,
		HasProfile:       r.ScholarID != "",
	}
}

func publicationToResponse(p domain.Publication) publicationResponse {
	return publicationResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Authors:     p.Authors,
		Year:        p.Year,
		Citations:   p.Citations,
		Journal:     p.Journal,
		DOI:         p.DOI,
		Abstract:    p.Abstract,
		Keywords:    p.Keywords.Tokens(),
		OpenAccess:  p.OpenAccess,
		PubType:     p.PubType,
		URL:         p.URL,
		DownloadURL: p.DownloadURL,
	}
}

func scoredResearcherToResponse(r search.ScoredResearcher) researcherResponse {
	resp := researcherToResponse(r.Researcher)
	resp.Score = r.Score
	return resp
}

func enrichedPublicationToResponse(p search.EnrichedPublication) publicationResponse {
	refs := make([]researcherRefResponse, len(p.Researchers))
	for i, r := range p.Researchers {
		refs[i] = researcherRefResponse{
			ID:         r.ID,
			Name:       r.DisplayName(),
			HasProfile: r.ScholarID != "",
		}
	}
	resp := publicationToResponse(p.Publication)
	resp.Researchers = refs
	resp.Score = p.Score
	return resp
}

func searchResultToResponse(result *search.Result) searchResponse {
	researchers := make([]researcherResponse, len(result.Researchers))
	for i, r := range result.Researchers {
		researchers[i] = scoredResearcherToResponse(r)
	}
	publications := make([]publicationResponse, len(result.Publications))
	for i, p := range result.Publications {
		publications[i] = enrichedPublicationToResponse(p)
	}
	active := result.ActiveFilters
	if active == nil {
		active = []domain.ActiveFilter{}
	}
	return searchResponse{
		Researchers:       researchers,
		Publications:      publications,
		ActiveFilters:     active,
		Page:              result.Page,
		CollapseAbstracts: result.CollapseAbstracts,
		Empty:             result.Empty,
		DurationMillis:    result.Duration.Milliseconds(),
	}
}

func facetDomainToResponse(facets cache.FacetDomain) facetsResponse {
	journals := facets.Journals
	if journals == nil {
		journals = []string{}
	}
	keywords := facets.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return facetsResponse{
		Journals:    journals,
		Keywords:    keywords,
		YearMin:     facets.YearMin,
		YearMax:     facets.YearMax,
		CitationMin: facets.CitationMin,
		CitationMax: facets.CitationMax,
	}
}
