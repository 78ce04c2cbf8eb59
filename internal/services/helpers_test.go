package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/config"
	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &database.DB{Pool: mock}, mock
}

type serviceSet struct {
	bids        *BidService
	invitations *InvitationService
	reputation  *ReputationService
	projects    *ProjectService
	obsp        *OBSPService
	feedback    *FeedbackService
	profiles    *ProfileService
}

func setupServices(t *testing.T, bidCfg config.BidConfig) (*serviceSet, pgxmock.PgxPoolIface) {
	t.Helper()
	db, mock := newMockDB(t)
	logger := discardLogger()

	invCfg := config.InvitationConfig{DefaultTTL: 72 * time.Hour}
	bids := NewBidService(db, bidCfg, invCfg, logger)
	reputation := NewReputationService(db, scoring.DefaultWeights(), logger)
	return &serviceSet{
		bids:        bids,
		invitations: NewInvitationService(db, bids, invCfg, logger),
		reputation:  reputation,
		projects:    NewProjectService(db, reputation, logger),
		obsp:        NewOBSPService(db, reputation, logger),
		feedback:    NewFeedbackService(db, reputation, logger),
		profiles:    NewProfileService(db, reputation, logger),
	}, mock
}

var bidRowColumns = []string{
	"id", "project_id", "freelancer_id", "price", "currency", "proposed_start", "proposed_end",
	"cover_letter", "state", "version", "created_at", "updated_at",
}

var lockedBidRowColumns = []string{
	"id", "project_id", "freelancer_id", "price", "currency", "proposed_start", "proposed_end",
	"cover_letter", "state", "version", "created_at", "updated_at", "client_id",
}

type bidFixture struct {
	models.Bid
	ClientID uuid.UUID
}

func newBidFixture(state models.BidState) bidFixture {
	now := time.Now()
	return bidFixture{
		Bid: models.Bid{
			ID:           uuid.New(),
			ProjectID:    uuid.New(),
			FreelancerID: uuid.New(),
			Price:        decimal.RequireFromString("1500.00"),
			Currency:     "USD",
			CoverLetter:  "I have done this before.",
			State:        state,
			Version:      3,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		ClientID: uuid.New(),
	}
}

// sibling returns a bid on the same project by another freelancer.
func (f bidFixture) sibling(state models.BidState) bidFixture {
	s := newBidFixture(state)
	s.ProjectID = f.ProjectID
	s.ClientID = f.ClientID
	return s
}

func (f bidFixture) lockedRows() *pgxmock.Rows {
	return pgxmock.NewRows(lockedBidRowColumns).AddRow(
		f.ID, f.ProjectID, f.FreelancerID, f.Price, f.Currency, nil, nil,
		f.CoverLetter, f.State, f.Version, f.CreatedAt, f.UpdatedAt, f.ClientID,
	)
}

func (f bidFixture) rows() *pgxmock.Rows {
	return pgxmock.NewRows(bidRowColumns).AddRow(
		f.ID, f.ProjectID, f.FreelancerID, f.Price, f.Currency, nil, nil,
		f.CoverLetter, f.State, f.Version, f.CreatedAt, f.UpdatedAt,
	)
}

func expectBidLock(mock pgxmock.PgxPoolIface, f bidFixture) {
	mock.ExpectQuery(`SELECT .+ FROM bids b JOIN projects p .+ FOR UPDATE OF b`).
		WithArgs(f.ID).
		WillReturnRows(f.lockedRows())
}

// expectTransition covers the state update and its log row.
func expectTransition(mock pgxmock.PgxPoolIface, f bidFixture, actorID uuid.UUID, event models.BidEvent, to models.BidState, note string) {
	mock.ExpectQuery(`UPDATE bids SET state`).
		WithArgs(to, f.ID).
		WillReturnRows(pgxmock.NewRows([]string{"version", "updated_at"}).AddRow(f.Version+1, time.Now()))
	mock.ExpectQuery(`INSERT INTO bid_negotiation_logs`).
		WithArgs(f.ID, actorID, event, f.State, to, note).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(41), time.Now()))
}

func expectBidInvitationsExpired(mock pgxmock.PgxPoolIface, bidID uuid.UUID) {
	mock.ExpectExec(`UPDATE invitations SET status`).
		WithArgs(models.InvitationExpired, models.TargetBid, bidID, models.InvitationPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
}

func expectAcceptReactions(mock pgxmock.PgxPoolIface, f bidFixture) {
	mock.ExpectExec(`INSERT INTO project_assignments`).
		WithArgs(f.ProjectID, f.FreelancerID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE projects SET status`).
		WithArgs(models.ProjectInProgress, f.ProjectID, models.ProjectOpen).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
}

var invitationRowColumns = []string{
	"id", "target_type", "target_id", "invitation_type", "inviter_id", "invitee_id", "message",
	"status", "response_message", "expires_at", "responded_at", "created_at", "updated_at",
}

func newInvitationFixture(kind models.InvitationType, bid bidFixture) models.Invitation {
	now := time.Now().UTC()
	return models.Invitation{
		ID:         uuid.New(),
		TargetType: models.TargetBid,
		TargetID:   bid.ID,
		Type:       kind,
		InviterID:  bid.ClientID,
		InviteeID:  bid.FreelancerID,
		Message:    "let's talk",
		Status:     models.InvitationPending,
		ExpiresAt:  now.Add(24 * time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func invitationRows(invs ...models.Invitation) *pgxmock.Rows {
	rows := pgxmock.NewRows(invitationRowColumns)
	for _, inv := range invs {
		rows.AddRow(
			inv.ID, inv.TargetType, inv.TargetID, inv.Type, inv.InviterID, inv.InviteeID, inv.Message,
			inv.Status, inv.ResponseMessage, inv.ExpiresAt, inv.RespondedAt, inv.CreatedAt, inv.UpdatedAt,
		)
	}
	return rows
}

// expectEnsureInvitation covers the locked lookup; existing nil means an insert follows.
func expectEnsureInvitation(mock pgxmock.PgxPoolIface, kind models.InvitationType, bid bidFixture, existing *models.Invitation) {
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(invitationLockKey(kind, models.TargetBid, bid.ID)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`UPDATE invitations SET status`).
		WithArgs(models.InvitationExpired, kind, models.TargetBid, bid.ID, models.InvitationPending, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	lookup := mock.ExpectQuery(`SELECT .+ FROM invitations WHERE invitation_type`).
		WithArgs(kind, models.TargetBid, bid.ID, models.InvitationPending)
	if existing != nil {
		lookup.WillReturnRows(invitationRows(*existing))
		return
	}
	lookup.WillReturnError(pgx.ErrNoRows)
}

func expectInvitationInsert(mock pgxmock.PgxPoolIface, inv models.Invitation) {
	mock.ExpectQuery(`INSERT INTO invitations`).
		WithArgs(inv.TargetType, inv.TargetID, inv.Type, inv.InviterID, inv.InviteeID, inv.Message, pgxmock.AnyArg()).
		WillReturnRows(invitationRows(inv))
}

// expectProfileLock opens a recalculation for a profile with the given completion.
func expectProfileLock(mock pgxmock.PgxPoolIface, userID uuid.UUID, completion int) {
	mock.ExpectQuery(`SELECT profile_completion.+FROM freelancer_profiles.+FOR UPDATE`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"profile_completion", "average_rating", "review_count"}).
			AddRow(completion, decimal.Zero, 0))
}

func expectProfileEnsured(mock pgxmock.PgxPoolIface, userID uuid.UUID) {
	mock.ExpectExec(`INSERT INTO freelancer_profiles \(user_id\) VALUES .+ ON CONFLICT \(user_id\) DO NOTHING`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func expectNoProfile(mock pgxmock.PgxPoolIface, userID uuid.UUID) {
	mock.ExpectQuery(`SELECT profile_completion.+FROM freelancer_profiles.+FOR UPDATE`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)
}

type historyRows struct {
	feedback  *pgxmock.Rows
	projects  *pgxmock.Rows
	obsps     *pgxmock.Rows
	bank      *pgxmock.Rows
	documents *pgxmock.Rows
}

func emptyHistory() historyRows {
	return historyRows{
		feedback:  pgxmock.NewRows([]string{"project_id", "obsp_template_id", "rating"}),
		projects:  pgxmock.NewRows([]string{"id", "client_id", "deadline", "completed_at"}),
		obsps:     pgxmock.NewRows([]string{"id", "template_id", "client_id", "completed_at"}),
		documents: pgxmock.NewRows([]string{"id", "verified"}),
	}
}

func expectHistory(mock pgxmock.PgxPoolIface, userID uuid.UUID, h historyRows) {
	mock.ExpectQuery(`SELECT project_id, obsp_template_id, rating FROM feedback`).
		WithArgs(userID).
		WillReturnRows(h.feedback)
	mock.ExpectQuery(`SELECT DISTINCT p.id.+FROM projects p JOIN project_assignments`).
		WithArgs(userID, models.ProjectCompleted).
		WillReturnRows(h.projects)
	mock.ExpectQuery(`SELECT DISTINCT id, template_id.+FROM obsp_assignments`).
		WithArgs(userID, models.OBSPCompleted).
		WillReturnRows(h.obsps)

	bank := mock.ExpectQuery(`SELECT verified FROM bank_details`).WithArgs(userID)
	if h.bank != nil {
		bank.WillReturnRows(h.bank)
	} else {
		bank.WillReturnError(pgx.ErrNoRows)
	}

	mock.ExpectQuery(`SELECT id, verified FROM verification_documents`).
		WithArgs(userID).
		WillReturnRows(h.documents)
}

func expectPointsSaved(mock pgxmock.PgxPoolIface, userID uuid.UUID, points int, level models.Level, subLevel int) {
	mock.ExpectExec(`UPDATE freelancer_profiles SET points`).
		WithArgs(points, level, subLevel, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
}

// expectEmptyRecalculation is a full rebuild for a freelancer with no history.
func expectEmptyRecalculation(mock pgxmock.PgxPoolIface, userID uuid.UUID) {
	expectProfileLock(mock, userID, 0)
	expectHistory(mock, userID, emptyHistory())
	expectPointsSaved(mock, userID, 0, models.LevelBronze, 1)
}
