package scoring

import (
	"time"

	"github.com/google/uuid"
)

// History is everything the engine needs about one freelancer, loaded fresh
// from the store on every recalculation.
type History struct {
	Projects          []CompletedProject
	OBSPs             []CompletedOBSP
	Bank              *BankStatus
	Documents         []DocumentStatus
	ProfileCompletion int
}

type CompletedProject struct {
	ProjectID   uuid.UUID
	ClientID    uuid.UUID
	Deadline    *time.Time
	CompletedAt time.Time
	Ratings     []int
}

type CompletedOBSP struct {
	AssignmentID uuid.UUID
	TemplateID   uuid.UUID
	ClientID     uuid.UUID
	CompletedAt  time.Time
	Ratings      []int
}

type BankStatus struct {
	Verified bool
}

type DocumentStatus struct {
	ID       uuid.UUID
	Verified bool
}

// distinctProjects keeps the first row seen for every project id.
func distinctProjects(in []CompletedProject) []CompletedProject {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]CompletedProject, 0, len(in))
	for _, p := range in {
		if _, ok := seen[p.ProjectID]; ok {
			continue
		}
		seen[p.ProjectID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func distinctOBSPs(in []CompletedOBSP) []CompletedOBSP {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]CompletedOBSP, 0, len(in))
	for _, o := range in {
		if _, ok := seen[o.AssignmentID]; ok {
			continue
		}
		seen[o.AssignmentID] = struct{}{}
		out = append(out, o)
	}
	return out
}

func distinctDocuments(in []DocumentStatus) []DocumentStatus {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]DocumentStatus, 0, len(in))
	for _, d := range in {
		if d.ID != uuid.Nil {
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
		}
		out = append(out, d)
	}
	return out
}
