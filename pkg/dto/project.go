package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProjectRequest struct {
	Title    string          `json:"title"`
	Budget   decimal.Decimal `json:"budget"`
	Currency string          `json:"currency"`
	Deadline *time.Time      `json:"deadline"`
}

type ProjectResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"client_id"`
	Title       string          `json:"title"`
	Budget      decimal.Decimal `json:"budget"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateOBSPAssignmentRequest struct {
	FreelancerID uuid.UUID  `json:"freelancer_id"`
	Deadline     *time.Time `json:"deadline"`
}

type OBSPAssignmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	TemplateID   uuid.UUID  `json:"template_id"`
	FreelancerID uuid.UUID  `json:"freelancer_id"`
	ClientID     uuid.UUID  `json:"client_id"`
	Status       string     `json:"status"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
