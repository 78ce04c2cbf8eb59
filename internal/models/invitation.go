package models

import (
	"time"

	"github.com/google/uuid"
)

type InvitationType string

const (
	InvitationProjectAssignment InvitationType = "project_assignment"
	InvitationInterviewRequest  InvitationType = "interview_request"
)

func (t InvitationType) IsValid() bool {
	return t == InvitationProjectAssignment || t == InvitationInterviewRequest
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation targets
const (
	TargetBid = "bid"
)

type Invitation struct {
	ID              uuid.UUID        `json:"id"`
	TargetType      string           `json:"target_type"`
	TargetID        uuid.UUID        `json:"target_id"`
	Type            InvitationType   `json:"invitation_type"`
	InviterID       uuid.UUID        `json:"inviter_id"`
	InviteeID       uuid.UUID        `json:"invitee_id"`
	Message         string           `json:"message"`
	Status          InvitationStatus `json:"status"`
	ResponseMessage string           `json:"response_message,omitempty"`
	ExpiresAt       time.Time        `json:"expires_at"`
	RespondedAt     *time.Time       `json:"responded_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// IsExpired reports whether expires_at has been reached. It matches the
// `expires_at <= now` sweep in SQL.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// IsActionable reports whether the invitee can still respond.
func (i *Invitation) IsActionable(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}

// EffectiveStatus reports expired for pending rows past their expiry.
func (i *Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && i.IsExpired(now) {
		return InvitationExpired
	}
	return i.Status
}
