package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BidState string

const (
	BidSubmitted          BidState = "submitted"
	BidUnderReview        BidState = "under_review"
	BidInterviewRequested BidState = "interview_requested"
	BidInterviewAccepted  BidState = "interview_accepted"
	BidInterviewDeclined  BidState = "interview_declined"
	BidNegotiation        BidState = "negotiation"
	BidAccepted           BidState = "accepted"
	BidRejected           BidState = "rejected"
	BidWithdrawn          BidState = "withdrawn"
)

// IsTerminal reports whether no further transition may leave the state.
func (s BidState) IsTerminal() bool {
	return s == BidAccepted || s == BidRejected || s == BidWithdrawn
}

func (s BidState) IsValid() bool {
	switch s {
	case BidSubmitted, BidUnderReview, BidInterviewRequested, BidInterviewAccepted,
		BidInterviewDeclined, BidNegotiation, BidAccepted, BidRejected, BidWithdrawn:
		return true
	}
	return false
}

type BidEvent string

const (
	EventMarkUnderReview   BidEvent = "mark_under_review"
	EventRequestInterview  BidEvent = "request_interview"
	EventInterviewAccepted BidEvent = "interview_accepted"
	EventInterviewDeclined BidEvent = "interview_declined"
	EventNegotiation       BidEvent = "negotiation"
	EventAccept            BidEvent = "accept"
	EventReject            BidEvent = "reject"
	EventMarkSubmitted     BidEvent = "mark_submitted"
	EventWithdraw          BidEvent = "withdraw"
)

type Bid struct {
	ID            uuid.UUID       `json:"id"`
	ProjectID     uuid.UUID       `json:"project_id"`
	FreelancerID  uuid.UUID       `json:"freelancer_id"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	ProposedStart *time.Time      `json:"proposed_start,omitempty"`
	ProposedEnd   *time.Time      `json:"proposed_end,omitempty"`
	CoverLetter   string          `json:"cover_letter"`
	State         BidState        `json:"state"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BidNegotiationLog is append-only; one row per transition.
type BidNegotiationLog struct {
	ID            int64     `json:"id"`
	BidID         uuid.UUID `json:"bid_id"`
	ActorID       uuid.UUID `json:"actor_id"`
	Event         BidEvent  `json:"event"`
	PreviousState BidState  `json:"previous_state"`
	NewState      BidState  `json:"new_state"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}
