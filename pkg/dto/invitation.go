package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInvitationRequest struct {
	TargetType     string    `json:"target_type"`
	TargetID       uuid.UUID `json:"target_id"`
	InvitationType string    `json:"invitation_type"`
	Message        string    `json:"message"`
	ExpiryHours    int       `json:"expiry_hours"`
}

type RespondInvitationRequest struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

type InvitationResponse struct {
	ID              uuid.UUID  `json:"id"`
	TargetType      string     `json:"target_type"`
	TargetID        uuid.UUID  `json:"target_id"`
	InvitationType  string     `json:"invitation_type"`
	InviterID       uuid.UUID  `json:"inviter_id"`
	InviteeID       uuid.UUID  `json:"invitee_id"`
	Message         string     `json:"message"`
	Status          string     `json:"status"`
	ResponseMessage string     `json:"response_message,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RespondInvitationResponse struct {
	Invitation InvitationResponse     `json:"invitation"`
	Transition *TransitionBidResponse `json:"transition,omitempty"`
}
