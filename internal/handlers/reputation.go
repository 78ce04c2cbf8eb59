package handlers

import (
	"github.com/dimitrije/gigmarket-api/internal/middleware"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ReputationHandler struct {
	reputationService ReputationServiceInterface
	userService       UserServiceInterface
}

func NewReputationHandler(reputationService ReputationServiceInterface, userService UserServiceInterface) *ReputationHandler {
	return &ReputationHandler{
		reputationService: reputationService,
		userService:       userService,
	}
}

func (h *ReputationHandler) Get(c *drift.Context) {
	if middleware.GetUserID(c) == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	freelancerID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	rep, err := h.reputationService.Get(c.Request.Context(), freelancerID)
	if err != nil {
		respondError(c, err, "failed to get reputation")
		return
	}

	_ = c.JSON(200, toReputationResponse(rep))
}

// Recalculate rebuilds a score on demand. Freelancers may rebuild their
// own; anyone else needs the super admin role.
func (h *ReputationHandler) Recalculate(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	freelancerID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if freelancerID != userID {
		isAdmin, err := h.userService.IsSuperAdmin(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "failed to check permissions")
			return
		}
		if !isAdmin {
			c.Forbidden("only the freelancer or a super admin can recalculate")
			return
		}
	}

	rep, err := h.reputationService.Recalculate(c.Request.Context(), freelancerID)
	if err != nil {
		respondError(c, err, "failed to recalculate reputation")
		return
	}

	_ = c.JSON(200, toReputationResponse(rep))
}
