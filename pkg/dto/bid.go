package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubmitBidRequest struct {
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	ProposedStart *time.Time      `json:"proposed_start"`
	ProposedEnd   *time.Time      `json:"proposed_end"`
	CoverLetter   string          `json:"cover_letter"`
}

type EditBidRequest struct {
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	ProposedStart *time.Time      `json:"proposed_start"`
	ProposedEnd   *time.Time      `json:"proposed_end"`
	CoverLetter   string          `json:"cover_letter"`
	Version       *int            `json:"version"`
}

type TransitionBidRequest struct {
	Event        string           `json:"event"`
	Note         string           `json:"note"`
	CounterOffer *decimal.Decimal `json:"counter_offer"`
}

type WithdrawBidRequest struct {
	Note string `json:"note"`
}

type BidResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProjectID     uuid.UUID       `json:"project_id"`
	FreelancerID  uuid.UUID       `json:"freelancer_id"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	ProposedStart *time.Time      `json:"proposed_start,omitempty"`
	ProposedEnd   *time.Time      `json:"proposed_end,omitempty"`
	CoverLetter   string          `json:"cover_letter"`
	State         string          `json:"state"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type NegotiationLogResponse struct {
	ID            int64     `json:"id"`
	BidID         uuid.UUID `json:"bid_id"`
	ActorID       uuid.UUID `json:"actor_id"`
	Event         string    `json:"event"`
	PreviousState string    `json:"previous_state"`
	NewState      string    `json:"new_state"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type TransitionBidResponse struct {
	Bid     BidResponse              `json:"bid"`
	Log     *NegotiationLogResponse  `json:"log,omitempty"`
	Cascade []NegotiationLogResponse `json:"cascade,omitempty"`
}

type RequestInterviewsRequest struct {
	BidIDs      []uuid.UUID `json:"bid_ids"`
	Message     string      `json:"message"`
	ExpiryHours int         `json:"expiry_hours"`
}

type InterviewResultResponse struct {
	BidID             uuid.UUID  `json:"bid_id"`
	Outcome           string     `json:"outcome"`
	InvitationID      *uuid.UUID `json:"invitation_id,omitempty"`
	InvitationCreated bool       `json:"invitation_created"`
}

type RequestInterviewsResponse struct {
	Results []InterviewResultResponse `json:"results"`
}
