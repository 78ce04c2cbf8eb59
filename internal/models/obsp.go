package models

import (
	"time"

	"github.com/google/uuid"
)

type OBSPAssignmentStatus string

const (
	OBSPActive    OBSPAssignmentStatus = "active"
	OBSPCompleted OBSPAssignmentStatus = "completed"
	OBSPCancelled OBSPAssignmentStatus = "cancelled"
)

type OBSPTemplate struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type OBSPAssignment struct {
	ID           uuid.UUID            `json:"id"`
	TemplateID   uuid.UUID            `json:"template_id"`
	FreelancerID uuid.UUID            `json:"freelancer_id"`
	ClientID     uuid.UUID            `json:"client_id"`
	Status       OBSPAssignmentStatus `json:"status"`
	Deadline     *time.Time           `json:"deadline,omitempty"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}
