package handlers

import (
	"time"

	"github.com/dimitrije/gigmarket-api/internal/middleware"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/dimitrije/gigmarket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type InvitationHandler struct {
	invitationService InvitationServiceInterface
	now               func() time.Time
}

func NewInvitationHandler(invitationService InvitationServiceInterface) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		now:               time.Now,
	}
}

func (h *InvitationHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.TargetID == uuid.Nil {
		c.BadRequest("target_id is required")
		return
	}
	if req.TargetType == "" {
		req.TargetType = models.TargetBid
	}
	if req.ExpiryHours < 0 {
		c.BadRequest("expiry_hours must not be negative")
		return
	}

	inv, created, err := h.invitationService.Create(c.Request.Context(), services.CreateInvitationInput{
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Type:        models.InvitationType(req.InvitationType),
		InviterID:   userID,
		Message:     req.Message,
		ExpiryHours: req.ExpiryHours,
	})
	if err != nil {
		respondError(c, err, "failed to create invitation")
		return
	}

	if !created {
		_ = c.JSON(409, map[string]any{
			"code":       "DUPLICATE_INVITATION",
			"message":    services.ErrDuplicatePendingInvitation.Error(),
			"invitation": toInvitationResponse(inv, h.now()),
		})
		return
	}

	_ = c.JSON(201, toInvitationResponse(inv, h.now()))
}

func (h *InvitationHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var status *models.InvitationStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := models.InvitationStatus(raw)
		status = &s
	}

	invitations, err := h.invitationService.ListForUser(c.Request.Context(), userID, status)
	if err != nil {
		respondError(c, err, "failed to list invitations")
		return
	}

	now := h.now()
	response := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = toInvitationResponse(&invitations[i], now)
	}

	_ = c.JSON(200, response)
}

func (h *InvitationHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	inv, err := h.invitationService.Get(c.Request.Context(), invitationID, userID)
	if err != nil {
		respondError(c, err, "failed to get invitation")
		return
	}

	_ = c.JSON(200, toInvitationResponse(inv, h.now()))
}

func (h *InvitationHandler) Respond(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	var req dto.RespondInvitationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	res, err := h.invitationService.Respond(c.Request.Context(), invitationID, userID, services.InvitationAction(req.Action), req.Message)
	if err != nil {
		respondError(c, err, "failed to respond to invitation")
		return
	}

	response := dto.RespondInvitationResponse{Invitation: toInvitationResponse(res.Invitation, h.now())}
	if res.Transition != nil {
		t := toTransitionResponse(res.Transition)
		response.Transition = &t
	}

	_ = c.JSON(200, response)
}
