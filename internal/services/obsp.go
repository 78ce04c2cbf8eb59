package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const obspAssignmentColumns = `id, template_id, freelancer_id, client_id, status, deadline, completed_at, created_at`

func obspAssignmentScanTargets(a *models.OBSPAssignment) []any {
	return []any{
		&a.ID, &a.TemplateID, &a.FreelancerID, &a.ClientID, &a.Status, &a.Deadline, &a.CompletedAt, &a.CreatedAt,
	}
}

type OBSPService struct {
	db         *database.DB
	reputation *ReputationService
	log        *slog.Logger
}

func NewOBSPService(db *database.DB, reputation *ReputationService, logger *slog.Logger) *OBSPService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OBSPService{db: db, reputation: reputation, log: logger}
}

func (s *OBSPService) CreateAssignment(ctx context.Context, templateID, clientID, freelancerID uuid.UUID, deadline *time.Time) (*models.OBSPAssignment, error) {
	if clientID == freelancerID {
		return nil, fmt.Errorf("%w: client and freelancer must differ", ErrValidation)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM obsp_templates WHERE id = $1)
	`, templateID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	if !exists {
		return nil, ErrTemplateNotFound
	}

	if err := ensureFreelancerProfile(ctx, tx, freelancerID); err != nil {
		return nil, err
	}

	var a models.OBSPAssignment
	err = tx.QueryRow(ctx, `
		INSERT INTO obsp_assignments (template_id, freelancer_id, client_id, deadline)
		VALUES ($1, $2, $3, $4)
		RETURNING `+obspAssignmentColumns,
		templateID, freelancerID, clientID, deadline,
	).Scan(obspAssignmentScanTargets(&a)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &a, nil
}

// CompleteAssignment marks an active assignment completed and rebuilds the
// freelancer's score in the same transaction.
func (s *OBSPService) CompleteAssignment(ctx context.Context, assignmentID, clientID uuid.UUID) (*models.OBSPAssignment, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var a models.OBSPAssignment
	err = tx.QueryRow(ctx, `
		SELECT `+obspAssignmentColumns+` FROM obsp_assignments WHERE id = $1 FOR UPDATE
	`, assignmentID).Scan(obspAssignmentScanTargets(&a)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock assignment: %w", err)
	}
	if a.ClientID != clientID {
		return nil, ErrNotAssignmentParty
	}
	if a.Status != models.OBSPActive {
		return nil, fmt.Errorf("%w (status %s)", ErrAssignmentNotActive, a.Status)
	}

	err = tx.QueryRow(ctx, `
		UPDATE obsp_assignments SET status = $1, completed_at = NOW()
		WHERE id = $2
		RETURNING completed_at
	`, models.OBSPCompleted, assignmentID).Scan(&a.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to complete assignment: %w", err)
	}
	a.Status = models.OBSPCompleted

	rep, err := s.reputation.recalculateTx(ctx, tx, a.FreelancerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("obsp assignment completed", "assignment_id", a.ID, "freelancer_id", a.FreelancerID)
	s.reputation.logRecalculation(rep)
	return &a, nil
}
