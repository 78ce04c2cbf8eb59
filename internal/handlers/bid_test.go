package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/dimitrije/gigmarket-api/internal/testutil"
	"github.com/dimitrije/gigmarket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestBid(state models.BidState) *models.Bid {
	now := time.Now().UTC()
	return &models.Bid{
		ID:           uuid.New(),
		ProjectID:    uuid.New(),
		FreelancerID: uuid.New(),
		Price:        decimal.RequireFromString("1500.00"),
		Currency:     "USD",
		State:        state,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func bidRoutes(h *BidHandler) http.Handler {
	return newTestApp(
		route{http.MethodPost, "/projects/:projectId/bids", h.Submit},
		route{http.MethodGet, "/projects/:projectId/bids", h.ListForProject},
		route{http.MethodGet, "/bids", h.ListMine},
		route{http.MethodPatch, "/bids/:bidId", h.Edit},
		route{http.MethodPost, "/bids/:bidId/transitions", h.Transition},
		route{http.MethodPost, "/bids/:bidId/withdraw", h.Withdraw},
		route{http.MethodGet, "/bids/:bidId/history", h.History},
		route{http.MethodPost, "/interview-requests", h.RequestInterviews},
	)
}

func TestBidHandler_Submit_Success(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	bid := newTestBid(models.BidSubmitted)
	mockBids.On("Submit", mock.Anything, bid.FreelancerID, bid.ProjectID, mock.MatchedBy(func(in services.BidInput) bool {
		return in.Price.Equal(decimal.RequireFromString("1500")) && in.Currency == "usd" && in.CoverLetter == "hire me"
	})).Return(bid, nil)

	rec := doRequest(t, app, http.MethodPost, "/projects/"+bid.ProjectID.String()+"/bids", bid.FreelancerID, map[string]any{
		"price":        "1500",
		"currency":     "usd",
		"cover_letter": "hire me",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.BidResponse
	decode(t, rec, &response)
	assert.Equal(t, bid.ID, response.ID)
	assert.Equal(t, "submitted", response.State)
	assert.True(t, bid.Price.Equal(response.Price))

	mockBids.AssertExpectations(t)
}

func TestBidHandler_Submit_Errors(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate bid", services.ErrBidExists, http.StatusConflict},
		{"project closed", services.ErrProjectNotOpen, http.StatusConflict},
		{"own project", services.ErrOwnProject, http.StatusForbidden},
		{"bad price", services.ErrInvalidPrice, http.StatusBadRequest},
		{"unknown project", services.ErrProjectNotFound, http.StatusNotFound},
		{"database down", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBids := new(testutil.MockBidService)
			app := bidRoutes(NewBidHandler(mockBids))
			mockBids.On("Submit", mock.Anything, userID, projectID, mock.Anything).Return(nil, tt.err)

			rec := doRequest(t, app, http.MethodPost, "/projects/"+projectID.String()+"/bids", userID, map[string]any{"price": "10"})

			assert.Equal(t, tt.want, rec.Code)
			mockBids.AssertExpectations(t)
		})
	}
}

func TestBidHandler_Submit_InvalidProjectID(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	rec := doRequest(t, app, http.MethodPost, "/projects/not-a-uuid/bids", uuid.New(), map[string]any{"price": "10"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockBids.AssertNotCalled(t, "Submit")
}

func TestBidHandler_NotAuthenticated(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	rec := doRequest(t, app, http.MethodGet, "/bids", uuid.Nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBidHandler_Edit_VersionConflict(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	userID, bidID := uuid.New(), uuid.New()
	mockBids.On("Edit", mock.Anything, userID, bidID, mock.MatchedBy(func(in services.BidInput) bool {
		return in.ExpectedVersion != nil && *in.ExpectedVersion == 2
	})).Return(nil, services.ErrVersionConflict)

	rec := doRequest(t, app, http.MethodPatch, "/bids/"+bidID.String(), userID, map[string]any{"price": "900", "version": 2})

	assert.Equal(t, http.StatusConflict, rec.Code)

	var response map[string]any
	decode(t, rec, &response)
	assert.Equal(t, "VERSION_CONFLICT", response["code"])

	mockBids.AssertExpectations(t)
}

func TestBidHandler_Transition_Success(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	bid := newTestBid(models.BidAccepted)
	clientID := uuid.New()
	sibling := uuid.New()
	result := &services.TransitionResult{
		Bid: bid,
		Log: &models.BidNegotiationLog{
			ID: 7, BidID: bid.ID, ActorID: clientID, Event: models.EventAccept,
			PreviousState: models.BidNegotiation, NewState: models.BidAccepted,
		},
		Cascade: []models.BidNegotiationLog{{
			ID: 8, BidID: sibling, ActorID: clientID, Event: models.EventReject,
			PreviousState: models.BidSubmitted, NewState: models.BidRejected,
		}},
	}
	mockBids.On("Transition", mock.Anything, bid.ID, clientID, models.EventAccept, services.TransitionOptions{Note: "welcome"}).
		Return(result, nil)

	rec := doRequest(t, app, http.MethodPost, "/bids/"+bid.ID.String()+"/transitions", clientID, map[string]any{
		"event": "accept",
		"note":  "welcome",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TransitionBidResponse
	decode(t, rec, &response)
	assert.Equal(t, "accepted", response.Bid.State)
	require.NotNil(t, response.Log)
	assert.Equal(t, "negotiation", response.Log.PreviousState)
	require.Len(t, response.Cascade, 1)
	assert.Equal(t, sibling, response.Cascade[0].BidID)

	mockBids.AssertExpectations(t)
}

func TestBidHandler_Transition_CounterOffer(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	bid := newTestBid(models.BidNegotiation)
	clientID := uuid.New()
	mockBids.On("Transition", mock.Anything, bid.ID, clientID, models.EventNegotiation, mock.MatchedBy(func(opts services.TransitionOptions) bool {
		return opts.CounterOffer != nil && opts.CounterOffer.Equal(decimal.RequireFromString("1250"))
	})).Return(&services.TransitionResult{Bid: bid, Log: &models.BidNegotiationLog{BidID: bid.ID}}, nil)

	rec := doRequest(t, app, http.MethodPost, "/bids/"+bid.ID.String()+"/transitions", clientID, map[string]any{
		"event":         "negotiation",
		"counter_offer": "1250.00",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	mockBids.AssertExpectations(t)
}

func TestBidHandler_Transition_Errors(t *testing.T) {
	userID, bidID := uuid.New(), uuid.New()

	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"illegal move", services.ErrBidClosed, http.StatusConflict, "INVALID_TRANSITION"},
		{"wrong actor", services.ErrNotProjectClient, http.StatusForbidden, ""},
		{"unknown bid", services.ErrBidNotFound, http.StatusNotFound, ""},
		{"unknown event", services.ErrUnknownEvent, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBids := new(testutil.MockBidService)
			app := bidRoutes(NewBidHandler(mockBids))
			mockBids.On("Transition", mock.Anything, bidID, userID, models.BidEvent("mark_under_review"), mock.Anything).Return(nil, tt.err)

			rec := doRequest(t, app, http.MethodPost, "/bids/"+bidID.String()+"/transitions", userID, map[string]any{"event": "mark_under_review"})

			assert.Equal(t, tt.want, rec.Code)
			if tt.code != "" {
				var response map[string]any
				decode(t, rec, &response)
				assert.Equal(t, tt.code, response["code"])
			}
			mockBids.AssertExpectations(t)
		})
	}
}

func TestBidHandler_Transition_MissingEvent(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	rec := doRequest(t, app, http.MethodPost, "/bids/"+uuid.NewString()+"/transitions", uuid.New(), map[string]any{"note": "hi"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "event is required")
	mockBids.AssertNotCalled(t, "Transition")
}

func TestBidHandler_Withdraw(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	bid := newTestBid(models.BidWithdrawn)
	mockBids.On("Withdraw", mock.Anything, bid.ID, bid.FreelancerID, "found other work").
		Return(&services.TransitionResult{Bid: bid, Log: &models.BidNegotiationLog{BidID: bid.ID, Event: models.EventWithdraw}}, nil)

	rec := doRequest(t, app, http.MethodPost, "/bids/"+bid.ID.String()+"/withdraw", bid.FreelancerID, map[string]any{"note": "found other work"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TransitionBidResponse
	decode(t, rec, &response)
	assert.Equal(t, "withdrawn", response.Bid.State)

	mockBids.AssertExpectations(t)
}

func TestBidHandler_ListMine_StateFilter(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		mockBids := new(testutil.MockBidService)
		app := bidRoutes(NewBidHandler(mockBids))
		userID := uuid.New()

		mockBids.On("ListForFreelancer", mock.Anything, userID, (*models.BidState)(nil)).
			Return([]models.Bid{*newTestBid(models.BidSubmitted)}, nil)

		rec := doRequest(t, app, http.MethodGet, "/bids", userID, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response []dto.BidResponse
		decode(t, rec, &response)
		assert.Len(t, response, 1)
		mockBids.AssertExpectations(t)
	})

	t.Run("withdrawn", func(t *testing.T) {
		mockBids := new(testutil.MockBidService)
		app := bidRoutes(NewBidHandler(mockBids))
		userID := uuid.New()

		mockBids.On("ListForFreelancer", mock.Anything, userID, mock.MatchedBy(func(s *models.BidState) bool {
			return s != nil && *s == models.BidWithdrawn
		})).Return([]models.Bid{}, nil)

		rec := doRequest(t, app, http.MethodGet, "/bids?state=withdrawn", userID, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
		mockBids.AssertExpectations(t)
	})
}

func TestBidHandler_ListForProject_NotClient(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))
	userID, projectID := uuid.New(), uuid.New()

	mockBids.On("ListForProject", mock.Anything, projectID, userID, (*models.BidState)(nil)).Return(nil, services.ErrNotProjectClient)

	rec := doRequest(t, app, http.MethodGet, "/projects/"+projectID.String()+"/bids", userID, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	mockBids.AssertExpectations(t)
}

func TestBidHandler_History(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))
	userID, bidID := uuid.New(), uuid.New()

	mockBids.On("History", mock.Anything, bidID, userID).Return([]models.BidNegotiationLog{
		{ID: 1, BidID: bidID, Event: models.EventMarkUnderReview, PreviousState: models.BidSubmitted, NewState: models.BidUnderReview},
		{ID: 2, BidID: bidID, Event: models.EventRequestInterview, PreviousState: models.BidUnderReview, NewState: models.BidInterviewRequested},
	}, nil)

	rec := doRequest(t, app, http.MethodGet, "/bids/"+bidID.String()+"/history", userID, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.NegotiationLogResponse
	decode(t, rec, &response)
	require.Len(t, response, 2)
	assert.Equal(t, response[0].NewState, response[1].PreviousState)

	mockBids.AssertExpectations(t)
}

func TestBidHandler_RequestInterviews(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))

	clientID := uuid.New()
	fresh, stale := uuid.New(), uuid.New()
	invitationID := uuid.New()

	mockBids.On("RequestInterviews", mock.Anything, clientID, []uuid.UUID{fresh, stale}, "let's talk", 48*time.Hour).
		Return([]services.InterviewResult{
			{BidID: fresh, Outcome: services.InterviewRequested, InvitationID: &invitationID, InvitationCreated: true},
			{BidID: stale, Outcome: services.InterviewSkipped},
		}, nil)

	rec := doRequest(t, app, http.MethodPost, "/interview-requests", clientID, map[string]any{
		"bid_ids":      []uuid.UUID{fresh, stale},
		"message":      "let's talk",
		"expiry_hours": 48,
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.RequestInterviewsResponse
	decode(t, rec, &response)
	require.Len(t, response.Results, 2)
	assert.Equal(t, "requested", response.Results[0].Outcome)
	assert.Equal(t, &invitationID, response.Results[0].InvitationID)
	assert.Equal(t, "skipped", response.Results[1].Outcome)
	assert.Nil(t, response.Results[1].InvitationID)

	mockBids.AssertExpectations(t)
}

func TestBidHandler_RequestInterviews_NoBids(t *testing.T) {
	mockBids := new(testutil.MockBidService)
	app := bidRoutes(NewBidHandler(mockBids))
	clientID := uuid.New()

	mockBids.On("RequestInterviews", mock.Anything, clientID, []uuid.UUID(nil), "", time.Duration(0)).Return(nil, services.ErrNoBids)

	rec := doRequest(t, app, http.MethodPost, "/interview-requests", clientID, map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockBids.AssertExpectations(t)
}
