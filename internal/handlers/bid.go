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

type BidHandler struct {
	bidService BidServiceInterface
}

func NewBidHandler(bidService BidServiceInterface) *BidHandler {
	return &BidHandler{bidService: bidService}
}

func bidStateFilter(c *drift.Context) *models.BidState {
	raw := c.QueryParam("state")
	if raw == "" {
		return nil
	}
	state := models.BidState(raw)
	return &state
}

func (h *BidHandler) Submit(c *drift.Context) {
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

	var req dto.SubmitBidRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	bid, err := h.bidService.Submit(c.Request.Context(), userID, projectID, services.BidInput{
		Price:         req.Price,
		Currency:      req.Currency,
		ProposedStart: req.ProposedStart,
		ProposedEnd:   req.ProposedEnd,
		CoverLetter:   req.CoverLetter,
	})
	if err != nil {
		respondError(c, err, "failed to submit bid")
		return
	}

	_ = c.JSON(201, toBidResponse(bid))
}

func (h *BidHandler) Edit(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	bidID, err := uuid.Parse(c.Param("bidId"))
	if err != nil {
		c.BadRequest("invalid bid id")
		return
	}

	var req dto.EditBidRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	bid, err := h.bidService.Edit(c.Request.Context(), userID, bidID, services.BidInput{
		Price:           req.Price,
		Currency:        req.Currency,
		ProposedStart:   req.ProposedStart,
		ProposedEnd:     req.ProposedEnd,
		CoverLetter:     req.CoverLetter,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		respondError(c, err, "failed to update bid")
		return
	}

	_ = c.JSON(200, toBidResponse(bid))
}

func (h *BidHandler) Transition(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	bidID, err := uuid.Parse(c.Param("bidId"))
	if err != nil {
		c.BadRequest("invalid bid id")
		return
	}

	var req dto.TransitionBidRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Event == "" {
		c.BadRequest("event is required")
		return
	}

	res, err := h.bidService.Transition(c.Request.Context(), bidID, userID, models.BidEvent(req.Event), services.TransitionOptions{
		Note:         req.Note,
		CounterOffer: req.CounterOffer,
	})
	if err != nil {
		respondError(c, err, "failed to transition bid")
		return
	}

	_ = c.JSON(200, toTransitionResponse(res))
}

func (h *BidHandler) Withdraw(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	bidID, err := uuid.Parse(c.Param("bidId"))
	if err != nil {
		c.BadRequest("invalid bid id")
		return
	}

	// The body is optional; it only carries a note.
	var req dto.WithdrawBidRequest
	_ = c.BindJSON(&req)

	res, err := h.bidService.Withdraw(c.Request.Context(), bidID, userID, req.Note)
	if err != nil {
		respondError(c, err, "failed to withdraw bid")
		return
	}

	_ = c.JSON(200, toTransitionResponse(res))
}

func (h *BidHandler) ListForProject(c *drift.Context) {
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

	bids, err := h.bidService.ListForProject(c.Request.Context(), projectID, userID, bidStateFilter(c))
	if err != nil {
		respondError(c, err, "failed to list bids")
		return
	}

	_ = c.JSON(200, toBidResponses(bids))
}

func (h *BidHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	bids, err := h.bidService.ListForFreelancer(c.Request.Context(), userID, bidStateFilter(c))
	if err != nil {
		respondError(c, err, "failed to list bids")
		return
	}

	_ = c.JSON(200, toBidResponses(bids))
}

func (h *BidHandler) History(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	bidID, err := uuid.Parse(c.Param("bidId"))
	if err != nil {
		c.BadRequest("invalid bid id")
		return
	}

	entries, err := h.bidService.History(c.Request.Context(), bidID, userID)
	if err != nil {
		respondError(c, err, "failed to load bid history")
		return
	}

	_ = c.JSON(200, toLogResponses(entries))
}

func (h *BidHandler) RequestInterviews(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.RequestInterviewsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.ExpiryHours < 0 {
		c.BadRequest("expiry_hours must not be negative")
		return
	}

	results, err := h.bidService.RequestInterviews(c.Request.Context(), userID, req.BidIDs, req.Message, time.Duration(req.ExpiryHours)*time.Hour)
	if err != nil {
		respondError(c, err, "failed to request interviews")
		return
	}

	response := dto.RequestInterviewsResponse{Results: make([]dto.InterviewResultResponse, len(results))}
	for i, r := range results {
		response.Results[i] = dto.InterviewResultResponse{
			BidID:             r.BidID,
			Outcome:           string(r.Outcome),
			InvitationID:      r.InvitationID,
			InvitationCreated: r.InvitationCreated,
		}
	}

	_ = c.JSON(200, response)
}
