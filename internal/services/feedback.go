package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type FeedbackInput struct {
	ProjectID      *uuid.UUID
	OBSPTemplateID *uuid.UUID
	ToUserID       uuid.UUID
	Rating         int
	Comment        string
}

type ReviewInput struct {
	ProjectID    uuid.UUID
	FreelancerID uuid.UUID
	Rating       int
	Text         string
}

func validRating(r int) bool {
	return r >= models.MinRating && r <= models.MaxRating
}

type FeedbackService struct {
	db         *database.DB
	reputation *ReputationService
	log        *slog.Logger
}

func NewFeedbackService(db *database.DB, reputation *ReputationService, logger *slog.Logger) *FeedbackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackService{db: db, reputation: reputation, log: logger}
}

// CreateFeedback stores a rating for one engagement and, when the recipient
// is a freelancer, rebuilds their score in the same transaction.
func (s *FeedbackService) CreateFeedback(ctx context.Context, fromUserID uuid.UUID, in FeedbackInput) (*models.Feedback, error) {
	if (in.ProjectID == nil) == (in.OBSPTemplateID == nil) {
		return nil, ErrInvalidFeedbackTarget
	}
	if !validRating(in.Rating) {
		return nil, ErrInvalidRating
	}
	if fromUserID == in.ToUserID {
		return nil, ErrSelfFeedback
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var participants bool
	if in.ProjectID != nil {
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM projects p
				WHERE p.id = $1
				  AND (p.client_id = $2 OR EXISTS(SELECT 1 FROM project_assignments pa WHERE pa.project_id = p.id AND pa.freelancer_id = $2))
				  AND (p.client_id = $3 OR EXISTS(SELECT 1 FROM project_assignments pa WHERE pa.project_id = p.id AND pa.freelancer_id = $3))
			)
		`, *in.ProjectID, fromUserID, in.ToUserID).Scan(&participants)
	} else {
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM obsp_assignments
				WHERE template_id = $1
				  AND ((client_id = $2 AND freelancer_id = $3) OR (client_id = $3 AND freelancer_id = $2))
			)
		`, *in.OBSPTemplateID, fromUserID, in.ToUserID).Scan(&participants)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check participants: %w", err)
	}
	if !participants {
		return nil, ErrNotParticipant
	}

	var fb models.Feedback
	err = tx.QueryRow(ctx, `
		INSERT INTO feedback (project_id, obsp_template_id, from_user_id, to_user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, project_id, obsp_template_id, from_user_id, to_user_id, rating, comment, created_at
	`, in.ProjectID, in.OBSPTemplateID, fromUserID, in.ToUserID, in.Rating, in.Comment).Scan(
		&fb.ID, &fb.ProjectID, &fb.OBSPTemplateID, &fb.FromUserID, &fb.ToUserID, &fb.Rating, &fb.Comment, &fb.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	rep, err := s.reputation.recalculateIfFreelancerTx(ctx, tx, in.ToUserID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.reputation.logRecalculation(rep)
	return &fb, nil
}

// CreateReview stores a client's review of a freelancer assigned to the
// project, then refreshes the freelancer's average rating and points under
// one profile lock.
func (s *FeedbackService) CreateReview(ctx context.Context, reviewerID uuid.UUID, in ReviewInput) (*models.FreelancerReview, *Reputation, error) {
	if !validRating(in.Rating) {
		return nil, nil, ErrInvalidRating
	}
	if reviewerID == in.FreelancerID {
		return nil, nil, ErrSelfFeedback
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var clientID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT client_id FROM projects WHERE id = $1`, in.ProjectID).Scan(&clientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}
	if clientID != reviewerID {
		return nil, nil, ErrNotProjectClient
	}

	var assigned bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM project_assignments WHERE project_id = $1 AND freelancer_id = $2)
	`, in.ProjectID, in.FreelancerID).Scan(&assigned); err != nil {
		return nil, nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		return nil, nil, ErrNotParticipant
	}

	var review models.FreelancerReview
	err = tx.QueryRow(ctx, `
		INSERT INTO freelancer_reviews (project_id, reviewer_id, freelancer_id, rating, text)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id, reviewer_id, freelancer_id) DO NOTHING
		RETURNING id, project_id, reviewer_id, freelancer_id, rating, text, created_at
	`, in.ProjectID, reviewerID, in.FreelancerID, in.Rating, in.Text).Scan(
		&review.ID, &review.ProjectID, &review.ReviewerID, &review.FreelancerID, &review.Rating, &review.Text, &review.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create review: %w", err)
	}

	// recalculateTx takes the profile row lock that the rating refresh relies on.
	rep, err := s.reputation.recalculateTx(ctx, tx, in.FreelancerID)
	if err != nil {
		return nil, nil, err
	}

	var avg decimal.Decimal
	var count int
	err = tx.QueryRow(ctx, `
		UPDATE freelancer_profiles
		SET average_rating = sub.avg, review_count = sub.cnt, updated_at = NOW()
		FROM (
			SELECT COALESCE(ROUND(AVG(rating), 2), 0) AS avg, COUNT(*) AS cnt
			FROM freelancer_reviews WHERE freelancer_id = $1
		) sub
		WHERE user_id = $1
		RETURNING average_rating, review_count
	`, in.FreelancerID).Scan(&avg, &count)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to refresh average rating: %w", err)
	}
	rep.AverageRating = avg
	rep.ReviewCount = count

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("review created", "review_id", review.ID, "freelancer_id", in.FreelancerID, "average_rating", avg.String())
	s.reputation.logRecalculation(rep)
	return &review, rep, nil
}
