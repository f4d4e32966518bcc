package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/helixir/scholar-directory/internal/domain"
	"github.com/helixir/scholar-directory/internal/export"
	"github.com/helixir/scholar-directory/internal/search"
)

// Request body limit.
const maxRequestBodySize = 1 << 20 // 1 MB

var validate = validator.New()

// searchRequest is the JSON request body for a search invocation.
type searchRequest struct {
	Query        string         `json:"query,omitempty"`
	DepartmentID string         `json:"department_id,omitempty"`
	Sort         string         `json:"sort,omitempty"`
	Filters      *filterRequest `json:"filters,omitempty"`
}

// filterRequest carries the structured facet selections. Absent bounds keep
// the facet at its unrestricted default.
type filterRequest struct {
	YearMin        *int     `json:"year_min,omitempty"`
	YearMax        *int     `json:"year_max,omitempty"`
	CitationMin    *int     `json:"citation_min,omitempty"`
	CitationMax    *int     `json:"citation_max,omitempty"`
	Journals       []string `json:"journals,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	OpenAccessOnly bool     `json:"open_access_only,omitempty"`
	PubType        string   `json:"pub_type,omitempty"`
}

// bookmarkRequest is the JSON request body for adding a bookmark.
type bookmarkRequest struct {
	OwnerID       string `json:"owner_id" validate:"required"`
	PublicationID string `json:"publication_id" validate:"required"`
}

// researcherUpsertRequest is the JSON request body for an admin researcher
// upsert. The researcher ID comes from the request path.
type researcherUpsertRequest struct {
	Name             string   `json:"name,omitempty"`
	FirstName        string   `json:"first_name,omitempty"`
	LastName         string   `json:"last_name,omitempty"`
	DepartmentID     string   `json:"department_id,omitempty"`
	Email            string   `json:"email,omitempty"`
	Affiliation      string   `json:"affiliation,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	Interests        []string `json:"interests,omitempty"`
	PublicationCount int      `json:"publication_count,omitempty"`
	CitationCount    int      `json:"citation_count,omitempty"`
	ScholarID        string   `json:"scholar_id,omitempty"`
}

// publicationUpsertRequest is the JSON request body for an admin publication
// upsert. The composite (owner, id) key comes from the request path.
type publicationUpsertRequest struct {
	Title       string          `json:"title" validate:"required"`
	Authors     string          `json:"authors,omitempty"`
	Year        string          `json:"year,omitempty"`
	Citations   string          `json:"citations,omitempty"`
	Journal     string          `json:"journal,omitempty"`
	DOI         string          `json:"doi,omitempty"`
	Abstract    string          `json:"abstract,omitempty"`
	Keywords    domain.Keywords `json:"keywords,omitempty"`
	OpenAccess  bool            `json:"open_access,omitempty"`
	PubType     string          `json:"pub_type,omitempty"`
	URL         string          `json:"url,omitempty"`
	DownloadURL string          `json:"download_url,omitempty"`
}

// emptyInvocation reports whether the request names nothing to search or
// filter by. Such invocations are rejected before the session snapshot is
// touched, so a cold cache never issues a bulk fetch just to reject.
func (r searchRequest) emptyInvocation() bool {
	if strings.TrimSpace(r.Query) != "" || r.DepartmentID != "" {
		return false
	}
	f := r.Filters
	if f == nil {
		return true
	}
	return f.YearMin == nil && f.YearMax == nil &&
		f.CitationMin == nil && f.CitationMax == nil &&
		len(f.Journals) == 0 && len(f.Keywords) == 0 &&
		!f.OpenAccessOnly &&
		(f.PubType == "" || strings.EqualFold(f.PubType, search.PubTypeAll))
}

// decodeSearchRequest parses and validates a search invocation body, then
// builds the pipeline request over the session's facet domain.
func (s *Server) decodeSearchRequest(w http.ResponseWriter, r *http.Request) (search.Request, bool) {
	identity := identityFromContext(r.Context())

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return search.Request{}, false
	}

	var req searchRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON request body")
			return search.Request{}, false
		}
	}

	sort := search.SortRelevance
	if req.Sort != "" {
		sort = search.SortOrder(req.Sort)
		if !sort.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported sort order: %s", req.Sort))
			return search.Request{}, false
		}
	}

	if req.emptyInvocation() {
		s.metrics.RecordSearchRejected()
		writeError(w, http.StatusBadRequest, "enter a search term or select a filter")
		return search.Request{}, false
	}

	filters, err := s.sessions.FilterSet(r.Context(), identity)
	if err != nil {
		writeDomainError(w, err)
		return search.Request{}, false
	}

	if f := req.Filters; f != nil {
		if f.YearMin != nil {
			filters.YearMin = *f.YearMin
		}
		if f.YearMax != nil {
			filters.YearMax = *f.YearMax
		}
		if f.CitationMin != nil {
			filters.CitationMin = *f.CitationMin
		}
		if f.CitationMax != nil {
			filters.CitationMax = *f.CitationMax
		}
		filters.Journals = f.Journals
		filters.Keywords = f.Keywords
		filters.OpenAccessOnly = f.OpenAccessOnly
		if f.PubType != "" {
			filters.PubType = f.PubType
		}
	}

	return search.Request{
		Query:        req.Query,
		DepartmentID: req.DepartmentID,
		Filters:      filters,
		Sort:         sort,
	}, true
}

// search handles POST /search. It runs one synchronous pipeline invocation
// for the session user. An empty outcome is a successful response with the
// empty flag set, not an error.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := identityFromContext(ctx)

	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	s.metrics.RecordSearchStarted()
	for _, f := range req.Filters.Active() {
		s.metrics.RecordFilterUsage(string(f.Kind))
	}

	result, err := s.sessions.Run(ctx, identity, req)
	switch {
	case err == nil:
		s.metrics.RecordSearchCompleted(
			len(result.Researchers)+len(result.Publications),
			result.Duration.Seconds(),
		)
		writeJSON(w, http.StatusOK, searchResultToResponse(result))
	case errors.Is(err, domain.ErrEmptyResult):
		s.metrics.RecordSearchEmpty(result.Duration.Seconds())
		writeJSON(w, http.StatusOK, searchResultToResponse(result))
	case errors.Is(err, domain.ErrInputRejected):
		s.metrics.RecordSearchRejected()
		writeError(w, http.StatusBadRequest, "enter a search term or select a filter")
	default:
		s.metrics.RecordSearchFailed()
		writeDomainError(w, err)
	}
}

// getFacets handles GET /facets. It returns the facet value space derived
// from the cached publication set.
func (s *Server) getFacets(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, facetDomainToResponse(snap.FacetDomain()))
}

// listDepartments handles GET /departments.
func (s *Server) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := s.departmentRepo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]departmentResponse, len(departments))
	for i, d := range departments {
		resp[i] = departmentResponse{ID: d.ID, Name: d.Name}
	}
	writeJSON(w, http.StatusOK, resp)
}

// getDepartment handles GET /departments/{departmentID}.
func (s *Server) getDepartment(w http.ResponseWriter, r *http.Request) {
	department, err := s.departmentRepo.GetByID(r.Context(), chi.URLParam(r, "departmentID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, departmentResponse{ID: department.ID, Name: department.Name})
}

// listResearcherPublications handles GET /researchers/{researcherID}/publications.
// It reads the researcher's subcollection from storage directly, so the list
// reflects writes that postdate the session snapshot.
func (s *Server) listResearcherPublications(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "researcherID")

	publications, err := s.publicationRepo.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]publicationResponse, len(publications))
	for i, p := range publications {
		resp[i] = publicationToResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// getResearcherProfile handles GET /researchers/{researcherID}/profile.
// It resolves the external scholar profile address for the researcher.
func (s *Server) getResearcherProfile(w http.ResponseWriter, r *http.Request) {
	researcherID := chi.URLParam(r, "researcherID")

	snap, err := s.cache.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	researcher := snap.ResearcherByID(researcherID)
	if researcher == nil {
		writeError(w, http.StatusNotFound, "researcher not found")
		return
	}

	profileURL, err := search.ProfileURL(researcher.ScholarID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.metrics.RecordEngagement("profile_view")
	writeJSON(w, http.StatusOK, profileResponse{
		ResearcherID: researcherID,
		URL:          profileURL,
	})
}

// getCitation handles GET /researchers/{researcherID}/publications/{publicationID}/citation.
// The format query parameter selects the style; it defaults to APA.
func (s *Server) getCitation(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "researcherID")
	publicationID := chi.URLParam(r, "publicationID")

	format := export.FormatAPA
	if f := r.URL.Query().Get("format"); f != "" {
		format = export.CitationFormat(strings.ToLower(f))
	}

	publication, err := s.publicationRepo.GetByID(r.Context(), ownerID, publicationID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	citation, err := export.Citation(publication, format)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.metrics.RecordExport(string(format))
	writeJSON(w, http.StatusOK, citationResponse{
		Format:   string(format),
		Citation: citation,
	})
}

// exportCSV handles POST /export/csv. It runs the search pipeline with the
// given request and streams the publication results as a CSV attachment. An
// empty outcome exports the header row alone.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := identityFromContext(ctx)

	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	result, err := s.sessions.Run(ctx, identity, req)
	if err != nil && !errors.Is(err, domain.ErrEmptyResult) {
		if errors.Is(err, domain.ErrInputRejected) {
			writeError(w, http.StatusBadRequest, "enter a search term or select a filter")
			return
		}
		writeDomainError(w, err)
		return
	}

	publications := make([]domain.Publication, len(result.Publications))
	for i, p := range result.Publications {
		publications[i] = p.Publication
	}

	s.metrics.RecordExport("csv")
	s.metrics.RecordCSVExport(len(publications))

	filename := export.CSVFilename(time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.CSV(publications)))
}

// listBookmarks handles GET /bookmarks for the session user.
func (s *Server) listBookmarks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	refs, err := s.engagementRepo.ListBookmarks(r.Context(), identity.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if refs == nil {
		refs = []domain.PublicationRef{}
	}
	writeJSON(w, http.StatusOK, bookmarkListResponse{Bookmarks: refs})
}

// addBookmark handles POST /bookmarks for the session user.
func (s *Server) addBookmark(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	var req bookmarkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "owner_id and publication_id are required")
		return
	}

	if err := s.engagementRepo.AddBookmark(r.Context(), identity.UID, req.OwnerID, req.PublicationID); err != nil {
		writeDomainError(w, err)
		return
	}

	s.metrics.RecordEngagement("bookmark")
	writeJSON(w, http.StatusCreated, map[string]string{"status": "bookmarked"})
}

// removeBookmark handles DELETE /bookmarks/{ownerID}/{publicationID}.
func (s *Server) removeBookmark(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	ownerID := chi.URLParam(r, "ownerID")
	publicationID := chi.URLParam(r, "publicationID")

	if err := s.engagementRepo.RemoveBookmark(r.Context(), identity.UID, ownerID, publicationID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// addLike handles POST /researchers/{researcherID}/publications/{publicationID}/like.
func (s *Server) addLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	ownerID := chi.URLParam(r, "researcherID")
	publicationID := chi.URLParam(r, "publicationID")

	if err := s.engagementRepo.AddLike(r.Context(), identity.UID, ownerID, publicationID); err != nil {
		writeDomainError(w, err)
		return
	}

	s.metrics.RecordEngagement("like")
	writeJSON(w, http.StatusCreated, map[string]string{"status": "liked"})
}

// removeLike handles DELETE /researchers/{researcherID}/publications/{publicationID}/like.
func (s *Server) removeLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	ownerID := chi.URLParam(r, "researcherID")
	publicationID := chi.URLParam(r, "publicationID")

	if err := s.engagementRepo.RemoveLike(r.Context(), identity.UID, ownerID, publicationID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// getLikeCount handles GET /researchers/{researcherID}/publications/{publicationID}/likes.
func (s *Server) getLikeCount(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "researcherID")
	publicationID := chi.URLParam(r, "publicationID")

	count, err := s.engagementRepo.LikeCount(r.Context(), ownerID, publicationID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeCountResponse{
		OwnerID:       ownerID,
		PublicationID: publicationID,
		Likes:         count,
	})
}

// upsertResearcher handles PUT /admin/researchers/{researcherID}. Writes do
// not touch the live snapshot; a reload publishes them to sessions.
func (s *Server) upsertResearcher(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req researcherUpsertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	researcher := &domain.Researcher{
		ID:               chi.URLParam(r, "researcherID"),
		Name:             req.Name,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DepartmentID:     req.DepartmentID,
		Email:            req.Email,
		Affiliation:      req.Affiliation,
		PhotoURL:         req.PhotoURL,
		Interests:        req.Interests,
		PublicationCount: req.PublicationCount,
		CitationCount:    req.CitationCount,
		ScholarID:        req.ScholarID,
	}

	stored, err := s.researcherRepo.Upsert(r.Context(), researcher)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, researcherToResponse(*stored))
}

// upsertPublication handles PUT /admin/researchers/{researcherID}/publications/{publicationID}.
// The owning researcher must already exist.
func (s *Server) upsertPublication(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "researcherID")
	publicationID := chi.URLParam(r, "publicationID")

	defer r.Body.Close()
	var req publicationUpsertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	if _, err := s.researcherRepo.GetByID(r.Context(), ownerID); err != nil {
		writeDomainError(w, err)
		return
	}

	publication := &domain.Publication{
		ID:          publicationID,
		OwnerID:     ownerID,
		Title:       req.Title,
		Authors:     req.Authors,
		Year:        req.Year,
		Citations:   req.Citations,
		Journal:     req.Journal,
		DOI:         req.DOI,
		Abstract:    req.Abstract,
		Keywords:    req.Keywords,
		OpenAccess:  req.OpenAccess,
		PubType:     req.PubType,
		URL:         req.URL,
		DownloadURL: req.DownloadURL,
	}

	stored, err := s.publicationRepo.Upsert(r.Context(), publication)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, publicationToResponse(*stored))
}

// reloadSnapshot handles POST /admin/reload. A failed reload keeps the prior
// snapshot in service.
func (s *Server) reloadSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Reload(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reloadResponse{
		Researchers:  len(snap.Researchers),
		Publications: len(snap.Publications),
		LoadedAt:     snap.LoadedAt.Format(time.RFC3339),
	})
}

// requireIdentity ensures the request carries an authenticated user,
// writing a 401 response otherwise.
func requireIdentity(w http.ResponseWriter, r *http.Request) (identity domain.Identity, ok bool) {
	identity = identityFromContext(r.Context())
	if identity.UID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return identity, false
	}
	return identity, true
}

// writeDomainError maps domain errors to appropriate HTTP status codes and
// writes a JSON error response. Internal error details are not leaked to
// clients.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrNavigationRejected):
		writeError(w, http.StatusBadRequest, "researcher has no linked scholar profile")
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrFetchFailure):
		writeError(w, http.StatusServiceUnavailable, "directory data is unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
