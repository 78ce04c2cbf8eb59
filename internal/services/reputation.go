package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Reputation struct {
	UserID        uuid.UUID          `json:"user_id"`
	Points        int                `json:"points"`
	Level         models.Level       `json:"level"`
	SubLevel      int                `json:"sub_level"`
	AverageRating decimal.Decimal    `json:"average_rating"`
	ReviewCount   int                `json:"review_count"`
	Breakdown     *scoring.Breakdown `json:"breakdown,omitempty"`
}

type ReputationService struct {
	db      *database.DB
	weights scoring.Weights
	log     *slog.Logger
	now     func() time.Time
}

func NewReputationService(db *database.DB, weights scoring.Weights, logger *slog.Logger) *ReputationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReputationService{
		db:      db,
		weights: weights,
		log:     logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReputationService) Get(ctx context.Context, userID uuid.UUID) (*Reputation, error) {
	var rep Reputation
	err := s.db.Pool.QueryRow(ctx, `
		SELECT user_id, points, current_level, current_sub_level, average_rating, review_count
		FROM freelancer_profiles WHERE user_id = $1
	`, userID).Scan(&rep.UserID, &rep.Points, &rep.Level, &rep.SubLevel, &rep.AverageRating, &rep.ReviewCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &rep, nil
}

// Recalculate rebuilds the user's points from their full history in its
// own transaction.
func (s *ReputationService) Recalculate(ctx context.Context, userID uuid.UUID) (*Reputation, error) {
	var rep *Reputation
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		var err error
		rep, err = s.recalculateTx(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logRecalculation(rep)
	return rep, nil
}

// recalculateTx locks the profile row, reloads every scoring input and
// overwrites points and tier. Callers commit.
func (s *ReputationService) recalculateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*Reputation, error) {
	rep := Reputation{UserID: userID}
	var completion int
	err := tx.QueryRow(ctx, `
		SELECT profile_completion, average_rating, review_count
		FROM freelancer_profiles WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&completion, &rep.AverageRating, &rep.ReviewCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	history, err := s.loadHistory(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	history.ProfileCompletion = completion

	result := scoring.Evaluate(*history, s.weights, s.now())

	if _, err := tx.Exec(ctx, `
		UPDATE freelancer_profiles
		SET points = $1, current_level = $2, current_sub_level = $3, updated_at = NOW()
		WHERE user_id = $4
	`, result.Breakdown.Total, result.Tier.Level, result.Tier.SubLevel, userID); err != nil {
		return nil, fmt.Errorf("failed to save points: %w", err)
	}

	rep.Points = result.Breakdown.Total
	rep.Level = result.Tier.Level
	rep.SubLevel = result.Tier.SubLevel
	rep.Breakdown = &result.Breakdown
	return &rep, nil
}

// recalculateIfFreelancerTx is recalculateTx for triggers whose subject may
// not have a freelancer profile, such as feedback left for a client.
func (s *ReputationService) recalculateIfFreelancerTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*Reputation, error) {
	rep, err := s.recalculateTx(ctx, tx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	return rep, err
}

func (s *ReputationService) loadHistory(ctx context.Context, q database.Querier, userID uuid.UUID) (*scoring.History, error) {
	projectRatings, obspRatings, err := loadRatings(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	h := &scoring.History{}

	rows, err := q.Query(ctx, `
		SELECT DISTINCT p.id, p.client_id, p.deadline, p.completed_at
		FROM projects p
		JOIN project_assignments pa ON pa.project_id = p.id
		WHERE pa.freelancer_id = $1 AND p.status = $2 AND p.completed_at IS NOT NULL
	`, userID, models.ProjectCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed projects: %w", err)
	}
	for rows.Next() {
		var p scoring.CompletedProject
		if err := rows.Scan(&p.ProjectID, &p.ClientID, &p.Deadline, &p.CompletedAt); err != nil {
			rows.Close()
			return nil, err
		}
		p.Ratings = projectRatings[p.ProjectID]
		h.Projects = append(h.Projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(ctx, `
		SELECT DISTINCT id, template_id, client_id, completed_at
		FROM obsp_assignments
		WHERE freelancer_id = $1 AND status = $2 AND completed_at IS NOT NULL
	`, userID, models.OBSPCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed obsp assignments: %w", err)
	}
	for rows.Next() {
		var o scoring.CompletedOBSP
		if err := rows.Scan(&o.AssignmentID, &o.TemplateID, &o.ClientID, &o.CompletedAt); err != nil {
			rows.Close()
			return nil, err
		}
		o.Ratings = obspRatings[o.TemplateID]
		h.OBSPs = append(h.OBSPs, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var verified bool
	err = q.QueryRow(ctx, `SELECT verified FROM bank_details WHERE user_id = $1`, userID).Scan(&verified)
	switch {
	case err == nil:
		h.Bank = &scoring.BankStatus{Verified: verified}
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to load bank details: %w", err)
	}

	rows, err = q.Query(ctx, `SELECT id, verified FROM verification_documents WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d scoring.DocumentStatus
		if err := rows.Scan(&d.ID, &d.Verified); err != nil {
			return nil, err
		}
		h.Documents = append(h.Documents, d)
	}
	return h, rows.Err()
}

// loadRatings groups the feedback a user received by project and by OBSP template.
func loadRatings(ctx context.Context, q database.Querier, userID uuid.UUID) (map[uuid.UUID][]int, map[uuid.UUID][]int, error) {
	rows, err := q.Query(ctx, `
		SELECT project_id, obsp_template_id, rating
		FROM feedback
		WHERE to_user_id = $1
	`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	defer rows.Close()

	byProject := make(map[uuid.UUID][]int)
	byTemplate := make(map[uuid.UUID][]int)
	for rows.Next() {
		var projectID, templateID *uuid.UUID
		var rating int
		if err := rows.Scan(&projectID, &templateID, &rating); err != nil {
			return nil, nil, err
		}
		switch {
		case projectID != nil:
			byProject[*projectID] = append(byProject[*projectID], rating)
		case templateID != nil:
			byTemplate[*templateID] = append(byTemplate[*templateID], rating)
		}
	}
	return byProject, byTemplate, rows.Err()
}

func (s *ReputationService) logRecalculation(rep *Reputation) {
	if rep == nil {
		return
	}
	s.log.Info("reputation recalculated",
		"user_id", rep.UserID,
		"points", rep.Points,
		"level", rep.Level,
		"sub_level", rep.SubLevel,
	)
}

// ProfileIDs lists every freelancer with a profile, for batch rebuilds.
func (s *ReputationService) ProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT user_id FROM freelancer_profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
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
