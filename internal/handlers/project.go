package handlers

import (
	"github.com/dimitrije/gigmarket-api/internal/middleware"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/dimitrije/gigmarket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProjectHandler struct {
	projectService ProjectServiceInterface
}

func NewProjectHandler(projectService ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, services.ProjectInput{
		Title:    req.Title,
		Budget:   req.Budget,
		Currency: req.Currency,
		Deadline: req.Deadline,
	})
	if err != nil {
		respondError(c, err, "failed to create project")
		return
	}

	_ = c.JSON(201, toProjectResponse(project))
}

func (h *ProjectHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "failed to get project")
		return
	}

	_ = c.JSON(200, toProjectResponse(project))
}

// Complete closes an in-progress project and rescores its freelancers.
func (h *ProjectHandler) Complete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	project, err := h.projectService.Complete(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err, "failed to complete project")
		return
	}

	_ = c.JSON(200, toProjectResponse(project))
}
