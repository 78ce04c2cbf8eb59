package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback targets exactly one of a project or an OBSP template.
type Feedback struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty"`
	OBSPTemplateID *uuid.UUID `json:"obsp_template_id,omitempty"`
	FromUserID     uuid.UUID  `json:"from_user_id"`
	ToUserID       uuid.UUID  `json:"to_user_id"`
	Rating         int        `json:"rating"`
	Comment        string     `json:"comment"`
	CreatedAt      time.Time  `json:"created_at"`
}

type FreelancerReview struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	Rating       int       `json:"rating"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}
