package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/api/middleware"
	"github.com/kestrelhq/trackdeck/internal/api/response"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/kestrelhq/trackdeck/internal/service"
)

// ProjectHandler handles project, link and audit endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List handles listing the projects visible in a workspace
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, err := queryUUID(r, "workspaceId")
	if err != nil {
		response.BadRequest(w, "missing or invalid workspaceId parameter")
		return
	}

	projects, err := h.projectService.ListByWorkspace(r.Context(), actor, workspaceID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, projects)
}

// Get handles getting a single project
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	project, err := h.projectService.Get(r.Context(), actor, chi.URLParam(r, "odid"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, project)
}

// Create handles project creation
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ProjectCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, project)
}

// Update handles a full project save
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	project, err := h.projectService.Update(r.Context(), actor, chi.URLParam(r, "odid"), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, project)
}

// Delete handles project deletion
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, chi.URLParam(r, "odid")); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// ListLinks handles listing the workspaces a project is linked into
func (h *ProjectHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	links, err := h.projectService.ListLinks(r.Context(), actor, chi.URLParam(r, "odid"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, links)
}

// Link handles linking a project into another workspace
func (h *ProjectHandler) Link(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.LinkCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	link, err := h.projectService.Link(r.Context(), actor, chi.URLParam(r, "odid"), input.WorkspaceID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, link)
}

// Unlink handles removing a project from a workspace it was linked into
func (h *ProjectHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, err := urlUUID(r, "workspaceID")
	if err != nil {
		response.BadRequest(w, "invalid workspace ID")
		return
	}

	if err := h.projectService.Unlink(r.Context(), actor, chi.URLParam(r, "odid"), workspaceID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// queryUUID parses a UUID query parameter
func queryUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.URL.Query().Get(name))
}

// AuditTrail handles listing a project's change history
func (h *ProjectHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	entries, err := h.projectService.AuditTrail(r.Context(), actor, chi.URLParam(r, "odid"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, entries)
}
