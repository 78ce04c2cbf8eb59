package handlers

import (
	"github.com/dimitrije/gigmarket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// AdminHandler serves the verification endpoints. Routes are expected to
// sit behind middleware.RequireSuperAdmin.
type AdminHandler struct {
	profileService ProfileServiceInterface
}

func NewAdminHandler(profileService ProfileServiceInterface) *AdminHandler {
	return &AdminHandler{profileService: profileService}
}

func (h *AdminHandler) VerifyBankDetails(c *drift.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	var req dto.VerifyRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Verified == nil {
		c.BadRequest("verified is required")
		return
	}

	rep, err := h.profileService.SetBankDetailsVerified(c.Request.Context(), userID, *req.Verified)
	if err != nil {
		respondError(c, err, "failed to verify bank details")
		return
	}

	_ = c.JSON(200, toReputationResponse(rep))
}

func (h *AdminHandler) VerifyDocument(c *drift.Context) {
	documentID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	var req dto.VerifyRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Verified == nil {
		c.BadRequest("verified is required")
		return
	}

	doc, rep, err := h.profileService.SetDocumentVerified(c.Request.Context(), documentID, *req.Verified)
	if err != nil {
		respondError(c, err, "failed to verify document")
		return
	}

	response := toDocumentResponse(doc)
	r := toReputationResponse(rep)
	response.Reputation = &r

	_ = c.JSON(200, response)
}
