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

// WorkspaceHandler handles workspace and sharing endpoints
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// List handles listing the workspaces visible to the actor
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaces, err := h.workspaceService.ListByUser(r.Context(), actor.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// ListLinkable returns the workspaces a project could be linked into: those
// the actor can write to, minus the one passed as exclude.
func (h *WorkspaceHandler) ListLinkable(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var exclude uuid.UUID
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid exclude parameter")
			return
		}
		exclude = parsed
	}

	workspaces, err := h.workspaceService.ListLinkable(r.Context(), actor.ID, exclude)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// Create handles workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WorkspaceCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), actor.ID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, workspace)
}

// Get handles getting a workspace by ID
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	workspace, err := h.workspaceService.GetByID(r.Context(), actor.ID, workspaceID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Rename handles renaming a workspace
func (h *WorkspaceHandler) Rename(w http.ResponseWriter, r *http.Request) {
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

	var input domain.WorkspaceUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	workspace, err := h.workspaceService.Rename(r.Context(), actor.ID, workspaceID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Delete handles deleting a workspace with everything homed in it
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.workspaceService.Delete(r.Context(), actor, workspaceID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// ListShares handles listing a workspace's shares
func (h *WorkspaceHandler) ListShares(w http.ResponseWriter, r *http.Request) {
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

	shares, err := h.workspaceService.ListShares(r.Context(), actor.ID, workspaceID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, shares)
}

// Share handles granting another user access to a workspace
func (h *WorkspaceHandler) Share(w http.ResponseWriter, r *http.Request) {
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

	var input domain.ShareCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	share, err := h.workspaceService.Share(r.Context(), actor.ID, workspaceID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, share)
}

// UpdateShare handles changing a grant's permission level
func (h *WorkspaceHandler) UpdateShare(w http.ResponseWriter, r *http.Request) {
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

	shareID, err := urlUUID(r, "shareID")
	if err != nil {
		response.BadRequest(w, "invalid share ID")
		return
	}

	var input domain.ShareUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	share, err := h.workspaceService.UpdateShare(r.Context(), actor.ID, workspaceID, shareID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, share)
}

// RemoveShare handles revoking a grant
func (h *WorkspaceHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
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

	shareID, err := urlUUID(r, "shareID")
	if err != nil {
		response.BadRequest(w, "invalid share ID")
		return
	}

	if err := h.workspaceService.RemoveShare(r.Context(), actor.ID, workspaceID, shareID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// Leave handles a grantee removing their own access to a shared workspace
func (h *WorkspaceHandler) Leave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.workspaceService.Leave(r.Context(), actor.ID, workspaceID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// urlUUID parses a UUID route parameter
func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
