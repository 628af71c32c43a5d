package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kestrelhq/trackdeck/internal/api/middleware"
	"github.com/kestrelhq/trackdeck/internal/api/response"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/kestrelhq/trackdeck/internal/service"
)

// TemplateHandler handles project template endpoints
type TemplateHandler struct {
	templateService *service.TemplateService
	projectService  *service.ProjectService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService *service.TemplateService, projectService *service.ProjectService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		projectService:  projectService,
	}
}

// List handles listing the templates visible to the actor
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	templates, err := h.templateService.List(r.Context(), actor)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, templates)
}

// Create handles template creation
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.TemplateCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	template, err := h.templateService.Create(r.Context(), actor, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, template)
}

// CreateFromProject snapshots a project's task list into a new template. Task
// completion state is reset; a template starts from zero.
func (h *TemplateHandler) CreateFromProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.TemplateCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	project, err := h.projectService.Get(r.Context(), actor, chi.URLParam(r, "odid"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	if input.Name == "" {
		input.Name = project.Name
	}
	input.Tasks = make([]domain.Task, len(project.Tasks))
	for i, task := range project.Tasks {
		input.Tasks[i] = domain.Task{Name: task.Name}
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	template, err := h.templateService.Create(r.Context(), actor, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, template)
}

// Update handles a template save
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	templateID, err := urlUUID(r, "templateID")
	if err != nil {
		response.BadRequest(w, "invalid template ID")
		return
	}

	var input domain.TemplateUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	template, err := h.templateService.Update(r.Context(), actor, templateID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, template)
}

// Delete handles template deletion
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	templateID, err := urlUUID(r, "templateID")
	if err != nil {
		response.BadRequest(w, "invalid template ID")
		return
	}

	if err := h.templateService.Delete(r.Context(), actor, templateID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
