package handlers

import (
	"github.com/dimitrije/gigmarket-api/internal/middleware"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/dimitrije/gigmarket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProfileHandler struct {
	profileService ProfileServiceInterface
}

func NewProfileHandler(profileService ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) SaveBankDetails(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.SaveBankDetailsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	details, rep, err := h.profileService.SaveBankDetails(c.Request.Context(), userID, services.BankDetailsInput{
		AccountHolder: req.AccountHolder,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		respondError(c, err, "failed to save bank details")
		return
	}

	_ = c.JSON(200, dto.BankDetailsResponse{
		UserID:        details.UserID,
		AccountHolder: details.AccountHolder,
		BankName:      details.BankName,
		AccountLast4:  details.AccountLast4,
		Verified:      details.Verified,
		Reputation:    toReputationResponse(rep),
	})
}

func (h *ProfileHandler) AddDocument(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.AddDocumentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.DocumentType == "" || req.FileReference == "" {
		c.BadRequest("document_type and file_reference are required")
		return
	}

	doc, rep, err := h.profileService.AddVerificationDocument(c.Request.Context(), userID, req.DocumentType, req.FileReference)
	if err != nil {
		respondError(c, err, "failed to add document")
		return
	}

	response := toDocumentResponse(doc)
	r := toReputationResponse(rep)
	response.Reputation = &r

	_ = c.JSON(201, response)
}

func (h *ProfileHandler) UpdateCompletion(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateCompletionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Completion == nil {
		c.BadRequest("profile_completion is required")
		return
	}

	rep, err := h.profileService.UpdateCompletion(c.Request.Context(), userID, *req.Completion)
	if err != nil {
		respondError(c, err, "failed to update profile completion")
		return
	}

	_ = c.JSON(200, toReputationResponse(rep))
}
