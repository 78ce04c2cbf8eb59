package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/config"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedbackRowColumns = []string{
	"id", "project_id", "obsp_template_id", "from_user_id", "to_user_id", "rating", "comment", "created_at",
}

func TestFeedbackService_CreateFeedback_Validation(t *testing.T) {
	projectID := uuid.New()
	templateID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name string
		from uuid.UUID
		in   FeedbackInput
		want error
	}{
		{"no target", uuid.New(), FeedbackInput{ToUserID: userID, Rating: 4}, ErrInvalidFeedbackTarget},
		{"two targets", uuid.New(), FeedbackInput{ProjectID: &projectID, OBSPTemplateID: &templateID, ToUserID: userID, Rating: 4}, ErrInvalidFeedbackTarget},
		{"rating too low", uuid.New(), FeedbackInput{ProjectID: &projectID, ToUserID: userID, Rating: 0}, ErrInvalidRating},
		{"rating too high", uuid.New(), FeedbackInput{ProjectID: &projectID, ToUserID: userID, Rating: 6}, ErrInvalidRating},
		{"self", userID, FeedbackInput{ProjectID: &projectID, ToUserID: userID, Rating: 5}, ErrSelfFeedback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := setupServices(t, config.BidConfig{})

			_, err := svc.feedback.CreateFeedback(context.Background(), tt.from, tt.in)

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFeedbackService_CreateFeedback_RecalculatesFreelancer(t *testing.T) {
	svc, mock := setupServices(t, config.BidConfig{})
	projectID := uuid.New()
	clientID := uuid.New()
	freelancerID := uuid.New()
	feedbackID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS.+FROM projects p`).
		WithArgs(projectID, clientID, freelancerID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs(&projectID, (*uuid.UUID)(nil), clientID, freelancerID, 5, "great").
		WillReturnRows(pgxmock.NewRows(feedbackRowColumns).
			AddRow(feedbackID, &projectID, nil, clientID, freelancerID, 5, "great", time.Now()))
	expectEmptyRecalculation(mock, freelancerID)
	mock.ExpectCommit()

	fb, err := svc.feedback.CreateFeedback(context.Background(), clientID, FeedbackInput{
		ProjectID: &projectID,
		ToUserID:  freelancerID,
		Rating:    5,
		Comment:   "great",
	})

	require.NoError(t, err)
	assert.Equal(t, feedbackID, fb.ID)
	require.NotNil(t, fb.ProjectID)
	assert.Equal(t, projectID, *fb.ProjectID)
	assert.Nil(t, fb.OBSPTemplateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_CreateFeedback_ClientRecipientSkipsScoring(t *testing.T) {
	svc, mock := setupServices(t, config.BidConfig{})
	templateID := uuid.New()
	clientID := uuid.New()
	freelancerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS.+FROM obsp_assignments`).
		WithArgs(templateID, freelancerID, clientID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs((*uuid.UUID)(nil), &templateID, freelancerID, clientID, 4, "").
		WillReturnRows(pgxmock.NewRows(feedbackRowColumns).
			AddRow(uuid.New(), nil, &templateID, freelancerID, clientID, 4, "", time.Now()))
	expectNoProfile(mock, clientID)
	mock.ExpectCommit()

	_, err := svc.feedback.CreateFeedback(context.Background(), freelancerID, FeedbackInput{
		OBSPTemplateID: &templateID,
		ToUserID:       clientID,
		Rating:         4,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_CreateFeedback_NotParticipant(t *testing.T) {
	svc, mock := setupServices(t, config.BidConfig{})
	projectID := uuid.New()
	from, to := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS.+FROM projects p`).
		WithArgs(projectID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := svc.feedback.CreateFeedback(context.Background(), from, FeedbackInput{
		ProjectID: &projectID, ToUserID: to, Rating: 3,
	})

	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackService_CreateReview(t *testing.T) {
	projectID := uuid.New()
	clientID := uuid.New()
	freelancerID := uuid.New()

	expectProjectClient := func(mock pgxmock.PgxPoolIface) {
		mock.ExpectQuery(`SELECT client_id FROM projects WHERE id`).
			WithArgs(projectID).
			WillReturnRows(pgxmock.NewRows([]string{"client_id"}).AddRow(clientID))
	}
	expectAssigned := func(mock pgxmock.PgxPoolIface, freelancer uuid.UUID, assigned bool) {
		mock.ExpectQuery(`SELECT EXISTS.+FROM project_assignments WHERE project_id = .+ AND freelancer_id`).
			WithArgs(projectID, freelancer).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(assigned))
	}

	t.Run("refreshes rating and points", func(t *testing.T) {
		svc, mock := setupServices(t, config.BidConfig{})
		reviewID := uuid.New()

		mock.ExpectBegin()
		expectProjectClient(mock)
		expectAssigned(mock, freelancerID, true)
		mock.ExpectQuery(`INSERT INTO freelancer_reviews`).
			WithArgs(projectID, clientID, freelancerID, 4, "solid work").
			WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "reviewer_id", "freelancer_id", "rating", "text", "created_at"}).
				AddRow(reviewID, projectID, clientID, freelancerID, 4, "solid work", time.Now()))
		expectEmptyRecalculation(mock, freelancerID)
		mock.ExpectQuery(`UPDATE freelancer_profiles SET average_rating`).
			WithArgs(freelancerID).
			WillReturnRows(pgxmock.NewRows([]string{"average_rating", "review_count"}).
				AddRow(decimal.RequireFromString("4.50"), 2))
		mock.ExpectCommit()

		review, rep, err := svc.feedback.CreateReview(context.Background(), clientID, ReviewInput{
			ProjectID: projectID, FreelancerID: freelancerID, Rating: 4, Text: "solid work",
		})

		require.NoError(t, err)
		assert.Equal(t, reviewID, review.ID)
		assert.Equal(t, 2, rep.ReviewCount)
		assert.True(t, decimal.RequireFromString("4.5").Equal(rep.AverageRating))
		assert.Equal(t, models.LevelBronze, rep.Level)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second review of the same pair", func(t *testing.T) {
		svc, mock := setupServices(t, config.BidConfig{})

		mock.ExpectBegin()
		expectProjectClient(mock)
		expectAssigned(mock, freelancerID, true)
		mock.ExpectQuery(`INSERT INTO freelancer_reviews`).
			WithArgs(projectID, clientID, freelancerID, 5, "").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		_, _, err := svc.feedback.CreateReview(context.Background(), clientID, ReviewInput{
			ProjectID: projectID, FreelancerID: freelancerID, Rating: 5,
		})

		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("only the project client reviews", func(t *testing.T) {
		svc, mock := setupServices(t, config.BidConfig{})

		mock.ExpectBegin()
		expectProjectClient(mock)
		mock.ExpectRollback()

		_, _, err := svc.feedback.CreateReview(context.Background(), uuid.New(), ReviewInput{
			ProjectID: projectID, FreelancerID: freelancerID, Rating: 5,
		})

		assert.ErrorIs(t, err, ErrNotProjectClient)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("freelancer not assigned to the project", func(t *testing.T) {
		svc, mock := setupServices(t, config.BidConfig{})
		stranger := uuid.New()

		mock.ExpectBegin()
		expectProjectClient(mock)
		expectAssigned(mock, stranger, false)
		mock.ExpectRollback()

		_, _, err := svc.feedback.CreateReview(context.Background(), clientID, ReviewInput{
			ProjectID: projectID, FreelancerID: stranger, Rating: 1, Text: "never worked with them",
		})

		assert.ErrorIs(t, err, ErrNotParticipant)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
