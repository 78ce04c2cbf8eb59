package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/config"
	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const invitationColumns = `id, target_type, target_id, invitation_type, inviter_id, invitee_id, message,
	status, response_message, expires_at, responded_at, created_at, updated_at`

func invitationScanTargets(inv *models.Invitation) []any {
	return []any{
		&inv.ID, &inv.TargetType, &inv.TargetID, &inv.Type, &inv.InviterID, &inv.InviteeID, &inv.Message,
		&inv.Status, &inv.ResponseMessage, &inv.ExpiresAt, &inv.RespondedAt, &inv.CreatedAt, &inv.UpdatedAt,
	}
}

type pendingInvitation struct {
	kind       models.InvitationType
	targetType string
	targetID   uuid.UUID
	inviterID  uuid.UUID
	inviteeID  uuid.UUID
	message    string
	ttl        time.Duration
}

func invitationLockKey(kind models.InvitationType, targetType string, targetID uuid.UUID) string {
	return fmt.Sprintf("invitation:%s:%s:%s", kind, targetType, targetID)
}

// ensurePendingInvitation returns the pending invitation for the
// (type, target) tuple, creating one if none exists. The advisory lock
// serializes concurrent callers until the transaction ends, so the lookup
// and the insert act as one step.
func ensurePendingInvitation(ctx context.Context, tx pgx.Tx, p pendingInvitation, now time.Time) (*models.Invitation, bool, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		invitationLockKey(p.kind, p.targetType, p.targetID)); err != nil {
		return nil, false, fmt.Errorf("failed to lock invitation target: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE invitations SET status = $1, updated_at = NOW()
		WHERE invitation_type = $2 AND target_type = $3 AND target_id = $4
		  AND status = $5 AND expires_at <= $6
	`, models.InvitationExpired, p.kind, p.targetType, p.targetID, models.InvitationPending, now); err != nil {
		return nil, false, fmt.Errorf("failed to expire stale invitations: %w", err)
	}

	existing, err := findPendingInvitation(ctx, tx, p.kind, p.targetType, p.targetID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrInvitationNotFound) {
		return nil, false, err
	}

	var inv models.Invitation
	err = tx.QueryRow(ctx, `
		INSERT INTO invitations (target_type, target_id, invitation_type, inviter_id, invitee_id, message, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+invitationColumns,
		p.targetType, p.targetID, p.kind, p.inviterID, p.inviteeID, p.message, now.Add(p.ttl),
	).Scan(invitationScanTargets(&inv)...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create invitation: %w", err)
	}
	return &inv, true, nil
}

func findPendingInvitation(ctx context.Context, q database.Querier, kind models.InvitationType, targetType string, targetID uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	err := q.QueryRow(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE invitation_type = $1 AND target_type = $2 AND target_id = $3 AND status = $4
		ORDER BY created_at DESC
		LIMIT 1
	`, kind, targetType, targetID, models.InvitationPending).Scan(invitationScanTargets(&inv)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending invitation: %w", err)
	}
	return &inv, nil
}

// expireBidInvitations closes every pending invitation aimed at a bid that
// just reached a closed state.
func expireBidInvitations(ctx context.Context, q database.Querier, bidID uuid.UUID) error {
	if _, err := q.Exec(ctx, `
		UPDATE invitations SET status = $1, updated_at = NOW()
		WHERE target_type = $2 AND target_id = $3 AND status = $4
	`, models.InvitationExpired, models.TargetBid, bidID, models.InvitationPending); err != nil {
		return fmt.Errorf("failed to expire bid invitations: %w", err)
	}
	return nil
}

type InvitationAction string

const (
	ActionAccept  InvitationAction = "accept"
	ActionDecline InvitationAction = "decline"
)

type CreateInvitationInput struct {
	TargetType  string
	TargetID    uuid.UUID
	Type        models.InvitationType
	InviterID   uuid.UUID
	Message     string
	ExpiryHours int
}

type InvitationResponse struct {
	Invitation *models.Invitation
	// Transition is set when the response moved the target bid.
	Transition *TransitionResult
}

type InvitationService struct {
	db         *database.DB
	bids       *BidService
	defaultTTL time.Duration
	log        *slog.Logger
	now        func() time.Time
}

func NewInvitationService(db *database.DB, bids *BidService, cfg config.InvitationConfig, logger *slog.Logger) *InvitationService {
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &InvitationService{
		db:         db,
		bids:       bids,
		defaultTTL: ttl,
		log:        logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create issues an invitation on a bid. When a pending one already exists
// for the same type and target it is returned with created=false.
func (s *InvitationService) Create(ctx context.Context, in CreateInvitationInput) (*models.Invitation, bool, error) {
	if !in.Type.IsValid() {
		return nil, false, ErrUnknownInvitationType
	}
	if in.TargetType != models.TargetBid {
		return nil, false, ErrUnknownTargetType
	}
	ttl := s.defaultTTL
	if in.ExpiryHours > 0 {
		ttl = time.Duration(in.ExpiryHours) * time.Hour
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var freelancerID, clientID uuid.UUID
	var state models.BidState
	err = tx.QueryRow(ctx, `
		SELECT b.freelancer_id, b.state, p.client_id
		FROM bids b
		JOIN projects p ON p.id = b.project_id
		WHERE b.id = $1
	`, in.TargetID).Scan(&freelancerID, &state, &clientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrBidNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load bid: %w", err)
	}
	if clientID != in.InviterID {
		return nil, false, ErrNotProjectClient
	}
	if state.IsTerminal() {
		return nil, false, fmt.Errorf("%w: %s", ErrBidClosed, state)
	}
	// Interview responses only move a bid out of interview_requested.
	if in.Type == models.InvitationInterviewRequest && state != models.BidInterviewRequested {
		return nil, false, fmt.Errorf("%w, got %s", ErrInterviewNotRequested, state)
	}

	inv, created, err := ensurePendingInvitation(ctx, tx, pendingInvitation{
		kind:       in.Type,
		targetType: in.TargetType,
		targetID:   in.TargetID,
		inviterID:  in.InviterID,
		inviteeID:  freelancerID,
		message:    in.Message,
		ttl:        ttl,
	}, s.now())
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if created {
		s.log.Info("invitation created", "invitation_id", inv.ID, "type", inv.Type, "target_id", inv.TargetID)
	}
	return inv, created, nil
}

// Respond resolves a pending invitation for its invitee and applies the
// bid reaction the invitation type calls for, all in one transaction.
// A pending invitation found past its expiry is marked expired instead.
func (s *InvitationService) Respond(ctx context.Context, invitationID, actorID uuid.UUID, action InvitationAction, message string) (*InvitationResponse, error) {
	var status models.InvitationStatus
	switch action {
	case ActionAccept:
		status = models.InvitationAccepted
	case ActionDecline:
		status = models.InvitationDeclined
	default:
		return nil, ErrUnknownAction
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var inv models.Invitation
	err = tx.QueryRow(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations WHERE id = $1
		FOR UPDATE
	`, invitationID).Scan(invitationScanTargets(&inv)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock invitation: %w", err)
	}
	if inv.InviteeID != actorID {
		return nil, ErrNotInvitee
	}
	if inv.Status != models.InvitationPending {
		return nil, ErrInvitationResolved
	}

	now := s.now()
	if inv.IsExpired(now) {
		if _, err := tx.Exec(ctx, `
			UPDATE invitations SET status = $1, updated_at = NOW() WHERE id = $2
		`, models.InvitationExpired, inv.ID); err != nil {
			return nil, fmt.Errorf("failed to expire invitation: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, ErrInvitationExpired
	}

	err = tx.QueryRow(ctx, `
		UPDATE invitations
		SET status = $1, response_message = $2, responded_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING responded_at, updated_at
	`, status, message, now, inv.ID).Scan(&inv.RespondedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	inv.Status = status
	inv.ResponseMessage = message

	resp := &InvitationResponse{Invitation: &inv}
	if cmd, ok := invitationReaction(&inv, action, message); ok {
		res, err := s.bids.applyTx(ctx, tx, cmd)
		if errors.Is(err, ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: %v", ErrInvitationTargetMoved, err)
		}
		if err != nil {
			return nil, err
		}
		resp.Transition = res
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("invitation resolved", "invitation_id", inv.ID, "status", inv.Status, "actor_id", actorID)
	if resp.Transition != nil {
		s.bids.logResult(resp.Transition)
	}
	return resp, nil
}

// invitationReaction maps a response onto the bid event it drives.
func invitationReaction(inv *models.Invitation, action InvitationAction, message string) (transitionCmd, bool) {
	if inv.TargetType != models.TargetBid {
		return transitionCmd{}, false
	}
	cmd := transitionCmd{
		bidID:          inv.TargetID,
		actorID:        inv.InviteeID,
		note:           message,
		as:             partyFreelancer,
		fromInvitation: true,
	}
	switch {
	case inv.Type == models.InvitationProjectAssignment && action == ActionAccept:
		cmd.event = models.EventAccept
	case inv.Type == models.InvitationInterviewRequest && action == ActionAccept:
		cmd.event = models.EventInterviewAccepted
	case inv.Type == models.InvitationInterviewRequest && action == ActionDecline:
		cmd.event = models.EventInterviewDeclined
	default:
		return transitionCmd{}, false
	}
	return cmd, true
}

func (s *InvitationService) Get(ctx context.Context, invitationID, actorID uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+invitationColumns+` FROM invitations WHERE id = $1
	`, invitationID).Scan(invitationScanTargets(&inv)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if inv.InviteeID != actorID && inv.InviterID != actorID {
		return nil, ErrNotInvitationParty
	}
	inv.Status = inv.EffectiveStatus(s.now())
	return &inv, nil
}

// ListForUser returns invitations the user sent or received, newest first.
// A status filter matches the reported status, so stale pending rows only
// show up under expired.
func (s *InvitationService) ListForUser(ctx context.Context, userID uuid.UUID, status *models.InvitationStatus) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE invitee_id = $1 OR inviter_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	now := s.now()
	invitations := make([]models.Invitation, 0)
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(invitationScanTargets(&inv)...); err != nil {
			return nil, err
		}
		inv.Status = inv.EffectiveStatus(now)
		if status != nil && inv.Status != *status {
			continue
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}
