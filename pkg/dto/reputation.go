package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BreakdownResponse struct {
	Projects          int `json:"projects"`
	OBSPs             int `json:"obsps"`
	Bank              int `json:"bank"`
	Documents         int `json:"documents"`
	ProfileCompletion int `json:"profile_completion"`
	ActivityStreak    int `json:"activity_streak"`
	RecentActivity    int `json:"recent_activity"`
	ClientDiversity   int `json:"client_diversity"`
	Total             int `json:"total"`
}

type ReputationResponse struct {
	UserID        uuid.UUID          `json:"user_id"`
	Points        int                `json:"points"`
	Level         string             `json:"level"`
	SubLevel      int                `json:"sub_level"`
	AverageRating decimal.Decimal    `json:"average_rating"`
	ReviewCount   int                `json:"review_count"`
	Breakdown     *BreakdownResponse `json:"breakdown,omitempty"`
}

type CreateFeedbackRequest struct {
	ProjectID      *uuid.UUID `json:"project_id"`
	OBSPTemplateID *uuid.UUID `json:"obsp_template_id"`
	ToUserID       uuid.UUID  `json:"to_user_id"`
	Rating         int        `json:"rating"`
	Comment        string     `json:"comment"`
}

type FeedbackResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty"`
	OBSPTemplateID *uuid.UUID `json:"obsp_template_id,omitempty"`
	FromUserID     uuid.UUID  `json:"from_user_id"`
	ToUserID       uuid.UUID  `json:"to_user_id"`
	Rating         int        `json:"rating"`
	Comment        string     `json:"comment"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CreateReviewRequest struct {
	ProjectID    uuid.UUID `json:"project_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	Rating       int       `json:"rating"`
	Text         string    `json:"text"`
}

type ReviewResponse struct {
	ID           uuid.UUID          `json:"id"`
	ProjectID    uuid.UUID          `json:"project_id"`
	ReviewerID   uuid.UUID          `json:"reviewer_id"`
	FreelancerID uuid.UUID          `json:"freelancer_id"`
	Rating       int                `json:"rating"`
	Text         string             `json:"text"`
	CreatedAt    time.Time          `json:"created_at"`
	Reputation   ReputationResponse `json:"reputation"`
}
