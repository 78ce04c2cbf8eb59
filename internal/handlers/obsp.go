package handlers

import (
	"github.com/dimitrije/gigmarket-api/internal/middleware"
	"github.com/dimitrije/gigmarket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type OBSPHandler struct {
	obspService OBSPServiceInterface
}

func NewOBSPHandler(obspService OBSPServiceInterface) *OBSPHandler {
	return &OBSPHandler{obspService: obspService}
}

func (h *OBSPHandler) CreateAssignment(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		c.BadRequest("invalid template id")
		return
	}

	var req dto.CreateOBSPAssignmentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.FreelancerID == uuid.Nil {
		c.BadRequest("freelancer_id is required")
		return
	}
	if req.FreelancerID == userID {
		c.BadRequest("cannot assign yourself")
		return
	}

	assignment, err := h.obspService.CreateAssignment(c.Request.Context(), templateID, userID, req.FreelancerID, req.Deadline)
	if err != nil {
		respondError(c, err, "failed to create assignment")
		return
	}

	_ = c.JSON(201, toOBSPAssignmentResponse(assignment))
}

func (h *OBSPHandler) CompleteAssignment(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	assignmentID, err := uuid.Parse(c.Param("assignmentId"))
	if err != nil {
		c.BadRequest("invalid assignment id")
		return
	}

	assignment, err := h.obspService.CompleteAssignment(c.Request.Context(), assignmentID, userID)
	if err != nil {
		respondError(c, err, "failed to complete assignment")
		return
	}

	_ = c.JSON(200, toOBSPAssignmentResponse(assignment))
}
