package handlers

import (
	"github.com/dimitrije/gigmarket-api/internal/middleware"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/dimitrije/gigmarket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type FeedbackHandler struct {
	feedbackService FeedbackServiceInterface
}

func NewFeedbackHandler(feedbackService FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (h *FeedbackHandler) CreateFeedback(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateFeedbackRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.ToUserID == uuid.Nil {
		c.BadRequest("to_user_id is required")
		return
	}

	fb, err := h.feedbackService.CreateFeedback(c.Request.Context(), userID, services.FeedbackInput{
		ProjectID:      req.ProjectID,
		OBSPTemplateID: req.OBSPTemplateID,
		ToUserID:       req.ToUserID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		respondError(c, err, "failed to create feedback")
		return
	}

	_ = c.JSON(201, dto.FeedbackResponse{
		ID:             fb.ID,
		ProjectID:      fb.ProjectID,
		OBSPTemplateID: fb.OBSPTemplateID,
		FromUserID:     fb.FromUserID,
		ToUserID:       fb.ToUserID,
		Rating:         fb.Rating,
		Comment:        fb.Comment,
		CreatedAt:      fb.CreatedAt,
	})
}

func (h *FeedbackHandler) CreateReview(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateReviewRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.ProjectID == uuid.Nil || req.FreelancerID == uuid.Nil {
		c.BadRequest("project_id and freelancer_id are required")
		return
	}

	review, rep, err := h.feedbackService.CreateReview(c.Request.Context(), userID, services.ReviewInput{
		ProjectID:    req.ProjectID,
		FreelancerID: req.FreelancerID,
		Rating:       req.Rating,
		Text:         req.Text,
	})
	if err != nil {
		respondError(c, err, "failed to create review")
		return
	}

	_ = c.JSON(201, dto.ReviewResponse{
		ID:           review.ID,
		ProjectID:    review.ProjectID,
		ReviewerID:   review.ReviewerID,
		FreelancerID: review.FreelancerID,
		Rating:       review.Rating,
		Text:         review.Text,
		CreatedAt:    review.CreatedAt,
		Reputation:   toReputationResponse(rep),
	})
}
