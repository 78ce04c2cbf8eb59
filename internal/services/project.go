package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const projectColumns = `id, client_id, title, budget, currency, status, deadline, completed_at, created_at, updated_at`

func projectScanTargets(p *models.Project) []any {
	return []any{
		&p.ID, &p.ClientID, &p.Title, &p.Budget, &p.Currency, &p.Status,
		&p.Deadline, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
	}
}

type ProjectInput struct {
	Title    string
	Budget   decimal.Decimal
	Currency string
	Deadline *time.Time
}

type ProjectService struct {
	db         *database.DB
	reputation *ReputationService
	log        *slog.Logger
}

func NewProjectService(db *database.DB, reputation *ReputationService, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{db: db, reputation: reputation, log: logger}
}

func (s *ProjectService) Create(ctx context.Context, clientID uuid.UUID, in ProjectInput) (*models.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	if in.Budget.IsNegative() {
		return nil, fmt.Errorf("%w: budget cannot be negative", ErrValidation)
	}
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if len(in.Currency) != 3 {
		return nil, ErrInvalidCurrency
	}

	var project models.Project
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (client_id, title, budget, currency, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		clientID, in.Title, in.Budget, in.Currency, in.Deadline,
	).Scan(projectScanTargets(&project)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = $1
	`, projectID).Scan(projectScanTargets(&project)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

// Complete closes an in-progress project and rebuilds the score of every
// assigned freelancer in the same transaction.
func (s *ProjectService) Complete(ctx context.Context, projectID, clientID uuid.UUID) (*models.Project, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner uuid.UUID
	var status models.ProjectStatus
	err = tx.QueryRow(ctx, `
		SELECT client_id, status FROM projects WHERE id = $1 FOR UPDATE
	`, projectID).Scan(&owner, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}
	if owner != clientID {
		return nil, ErrNotProjectClient
	}
	if status != models.ProjectInProgress {
		return nil, fmt.Errorf("%w (status %s)", ErrProjectNotInProgress, status)
	}

	var project models.Project
	err = tx.QueryRow(ctx, `
		UPDATE projects SET status = $1, completed_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING `+projectColumns,
		models.ProjectCompleted, projectID,
	).Scan(projectScanTargets(&project)...)
	if err != nil {
		return nil, fmt.Errorf("failed to complete project: %w", err)
	}

	freelancers, err := assignedFreelancers(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	var reps []*Reputation
	for _, freelancerID := range freelancers {
		rep, err := s.reputation.recalculateIfFreelancerTx(ctx, tx, freelancerID)
		if err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("project completed", "project_id", projectID, "freelancers", len(freelancers))
	for _, rep := range reps {
		s.reputation.logRecalculation(rep)
	}
	return &project, nil
}

// assignedFreelancers is ordered by id so profile locks are always taken
// in the same order.
func assignedFreelancers(ctx context.Context, q database.Querier, projectID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT DISTINCT freelancer_id FROM project_assignments
		WHERE project_id = $1
		ORDER BY freelancer_id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
