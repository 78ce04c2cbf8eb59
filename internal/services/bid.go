package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/config"
	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type party int

const (
	partyClient party = iota + 1
	partyFreelancer
)

type bidTransition struct {
	// from lists the states the event may leave; empty means every open state.
	from          []models.BidState
	to            models.BidState
	actor         party
	viaInvitation bool
}

func (t bidTransition) allows(from models.BidState) bool {
	if from.IsTerminal() {
		return false
	}
	return len(t.from) == 0 || slices.Contains(t.from, from)
}

var bidTransitions = map[models.BidEvent]bidTransition{
	models.EventMarkUnderReview: {
		from: []models.BidState{models.BidSubmitted}, to: models.BidUnderReview, actor: partyClient,
	},
	models.EventRequestInterview: {
		from: []models.BidState{models.BidUnderReview}, to: models.BidInterviewRequested, actor: partyClient,
	},
	models.EventInterviewAccepted: {
		from: []models.BidState{models.BidInterviewRequested}, to: models.BidInterviewAccepted,
		actor: partyFreelancer, viaInvitation: true,
	},
	models.EventInterviewDeclined: {
		from: []models.BidState{models.BidInterviewRequested}, to: models.BidInterviewDeclined,
		actor: partyFreelancer, viaInvitation: true,
	},
	models.EventNegotiation:   {to: models.BidNegotiation, actor: partyClient},
	models.EventAccept:        {to: models.BidAccepted, actor: partyClient},
	models.EventReject:        {to: models.BidRejected, actor: partyClient},
	models.EventMarkSubmitted: {to: models.BidSubmitted, actor: partyClient},
	models.EventWithdraw:      {to: models.BidWithdrawn, actor: partyFreelancer},
}

const bidColumns = `id, project_id, freelancer_id, price, currency, proposed_start, proposed_end,
	cover_letter, state, version, created_at, updated_at`

const joinedBidColumns = `b.id, b.project_id, b.freelancer_id, b.price, b.currency, b.proposed_start, b.proposed_end,
	b.cover_letter, b.state, b.version, b.created_at, b.updated_at`

func bidScanTargets(b *models.Bid) []any {
	return []any{
		&b.ID, &b.ProjectID, &b.FreelancerID, &b.Price, &b.Currency, &b.ProposedStart, &b.ProposedEnd,
		&b.CoverLetter, &b.State, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	}
}

// lockedBid is a bid row held FOR UPDATE together with its project's client.
type lockedBid struct {
	models.Bid
	ClientID uuid.UUID
}

func lockBid(ctx context.Context, q database.Querier, bidID uuid.UUID) (*lockedBid, error) {
	var lb lockedBid
	err := q.QueryRow(ctx, `
		SELECT `+joinedBidColumns+`, p.client_id
		FROM bids b
		JOIN projects p ON p.id = b.project_id
		WHERE b.id = $1
		FOR UPDATE OF b
	`, bidID).Scan(append(bidScanTargets(&lb.Bid), &lb.ClientID)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock bid: %w", err)
	}
	return &lb, nil
}

func authorizeBidActor(bid *lockedBid, p party, actorID uuid.UUID) error {
	switch p {
	case partyClient:
		if bid.ClientID != actorID {
			return ErrNotProjectClient
		}
	case partyFreelancer:
		if bid.FreelancerID != actorID {
			return ErrNotBidOwner
		}
	}
	return nil
}

type BidInput struct {
	Price         decimal.Decimal
	Currency      string
	ProposedStart *time.Time
	ProposedEnd   *time.Time
	CoverLetter   string
	// ExpectedVersion, when set on an edit, must match the stored version.
	ExpectedVersion *int
}

func (in *BidInput) normalize() error {
	if !in.Price.IsPositive() {
		return ErrInvalidPrice
	}
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if len(in.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if in.ProposedStart != nil && in.ProposedEnd != nil && in.ProposedEnd.Before(*in.ProposedStart) {
		return ErrInvalidDates
	}
	return nil
}

type TransitionOptions struct {
	Note         string
	CounterOffer *decimal.Decimal
}

type TransitionResult struct {
	Bid *models.Bid
	Log *models.BidNegotiationLog
	// Cascade holds the log rows of competing bids rejected by an accept.
	Cascade []models.BidNegotiationLog
}

type transitionCmd struct {
	bidID   uuid.UUID
	actorID uuid.UUID
	event   models.BidEvent
	note    string
	// as replaces the table's actor party when an invitation response drives the move.
	as             party
	fromInvitation bool
}

type BidService struct {
	db             *database.DB
	rejectSiblings bool
	interviewTTL   time.Duration
	log            *slog.Logger
}

func NewBidService(db *database.DB, bids config.BidConfig, invitations config.InvitationConfig, logger *slog.Logger) *BidService {
	if logger == nil {
		logger = slog.Default()
	}
	ttl := invitations.DefaultTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &BidService{
		db:             db,
		rejectSiblings: bids.RejectSiblingsOnAccept,
		interviewTTL:   ttl,
		log:            logger,
	}
}

func (s *BidService) Submit(ctx context.Context, freelancerID, projectID uuid.UUID, in BidInput) (*models.Bid, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var clientID uuid.UUID
	var status models.ProjectStatus
	err = tx.QueryRow(ctx, `
		SELECT client_id, status FROM projects WHERE id = $1 FOR SHARE
	`, projectID).Scan(&clientID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if clientID == freelancerID {
		return nil, ErrOwnProject
	}
	if status != models.ProjectOpen {
		return nil, ErrProjectNotOpen
	}

	if err := ensureFreelancerProfile(ctx, tx, freelancerID); err != nil {
		return nil, err
	}

	var bid models.Bid
	err = tx.QueryRow(ctx, `
		INSERT INTO bids (project_id, freelancer_id, price, currency, proposed_start, proposed_end, cover_letter)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (project_id, freelancer_id) DO NOTHING
		RETURNING `+bidColumns,
		projectID, freelancerID, in.Price, in.Currency, in.ProposedStart, in.ProposedEnd, in.CoverLetter,
	).Scan(bidScanTargets(&bid)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBidExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create bid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("bid submitted", "bid_id", bid.ID, "project_id", projectID, "freelancer_id", freelancerID)
	return &bid, nil
}

// Edit changes the commercial terms of an open bid. It is not a state
// transition and writes no negotiation log row.
func (s *BidService) Edit(ctx context.Context, freelancerID, bidID uuid.UUID, in BidInput) (*models.Bid, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := lockBid(ctx, tx, bidID)
	if err != nil {
		return nil, err
	}
	if current.FreelancerID != freelancerID {
		return nil, ErrNotBidOwner
	}
	if current.State.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrBidClosed, current.State)
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion != current.Version {
		return nil, ErrVersionConflict
	}

	var bid models.Bid
	err = tx.QueryRow(ctx, `
		UPDATE bids
		SET price = $1, currency = $2, proposed_start = $3, proposed_end = $4, cover_letter = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $6
		RETURNING `+bidColumns,
		in.Price, in.Currency, in.ProposedStart, in.ProposedEnd, in.CoverLetter, bidID,
	).Scan(bidScanTargets(&bid)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update bid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("bid edited", "bid_id", bid.ID, "version", bid.Version)
	return &bid, nil
}

// Transition applies event to the bid on behalf of actorID. The state
// change, its log row and every reaction commit together or not at all.
func (s *BidService) Transition(ctx context.Context, bidID, actorID uuid.UUID, event models.BidEvent, opts TransitionOptions) (*TransitionResult, error) {
	rule, ok := bidTransitions[event]
	if !ok {
		return nil, ErrUnknownEvent
	}
	if rule.viaInvitation {
		return nil, ErrInvitationOnlyEvent
	}
	note, err := transitionNote(event, opts)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := s.applyTx(ctx, tx, transitionCmd{bidID: bidID, actorID: actorID, event: event, note: note})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logResult(res)
	return res, nil
}

func (s *BidService) Withdraw(ctx context.Context, bidID, freelancerID uuid.UUID, note string) (*TransitionResult, error) {
	return s.Transition(ctx, bidID, freelancerID, models.EventWithdraw, TransitionOptions{Note: note})
}

// transitionNote validates event-specific input before anything is locked.
func transitionNote(event models.BidEvent, opts TransitionOptions) (string, error) {
	if event != models.EventNegotiation {
		return opts.Note, nil
	}
	if opts.CounterOffer == nil || !opts.CounterOffer.IsPositive() {
		return "", ErrCounterOfferRequired
	}
	note := "counter offer " + opts.CounterOffer.StringFixed(2)
	if opts.Note != "" {
		note += ": " + opts.Note
	}
	return note, nil
}

func (s *BidService) applyTx(ctx context.Context, tx pgx.Tx, cmd transitionCmd) (*TransitionResult, error) {
	rule, ok := bidTransitions[cmd.event]
	if !ok {
		return nil, ErrUnknownEvent
	}
	if rule.viaInvitation && !cmd.fromInvitation {
		return nil, ErrInvitationOnlyEvent
	}

	bid, err := lockBid(ctx, tx, cmd.bidID)
	if err != nil {
		return nil, err
	}

	actor := rule.actor
	if cmd.as != 0 {
		actor = cmd.as
	}
	if err := authorizeBidActor(bid, actor, cmd.actorID); err != nil {
		return nil, err
	}

	from := bid.State
	if from.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrBidClosed, from)
	}
	if !rule.allows(from) {
		return nil, transitionError(cmd.event, from, rule.to)
	}

	err = tx.QueryRow(ctx, `
		UPDATE bids SET state = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
		RETURNING version, updated_at
	`, rule.to, bid.ID).Scan(&bid.Version, &bid.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update bid state: %w", err)
	}
	bid.State = rule.to

	entry := models.BidNegotiationLog{
		BidID:         bid.ID,
		ActorID:       cmd.actorID,
		Event:         cmd.event,
		PreviousState: from,
		NewState:      rule.to,
		Note:          cmd.note,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO bid_negotiation_logs (bid_id, actor_id, event, previous_state, new_state, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, entry.BidID, entry.ActorID, entry.Event, entry.PreviousState, entry.NewState, entry.Note).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to write negotiation log: %w", err)
	}

	result := &TransitionResult{Bid: &bid.Bid, Log: &entry}

	if rule.to.IsTerminal() {
		if err := expireBidInvitations(ctx, tx, bid.ID); err != nil {
			return nil, err
		}
	}
	if cmd.event == models.EventAccept {
		cascade, err := s.onAcceptTx(ctx, tx, bid)
		if err != nil {
			return nil, err
		}
		result.Cascade = cascade
	}

	return result, nil
}

// onAcceptTx assigns the freelancer, starts the project and, when enabled,
// rejects every competing open bid.
func (s *BidService) onAcceptTx(ctx context.Context, tx pgx.Tx, bid *lockedBid) ([]models.BidNegotiationLog, error) {
	if _, err := tx.Exec(ctx, `
		INSERT INTO project_assignments (project_id, freelancer_id) VALUES ($1, $2)
		ON CONFLICT (project_id, freelancer_id) DO NOTHING
	`, bid.ProjectID, bid.FreelancerID); err != nil {
		return nil, fmt.Errorf("failed to assign freelancer: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE projects SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.ProjectInProgress, bid.ProjectID, models.ProjectOpen); err != nil {
		return nil, fmt.Errorf("failed to start project: %w", err)
	}

	if !s.rejectSiblings {
		return nil, nil
	}

	siblings, err := openSiblingBids(ctx, tx, bid.ProjectID, bid.ID)
	if err != nil {
		return nil, err
	}

	var cascade []models.BidNegotiationLog
	for _, siblingID := range siblings {
		res, err := s.applyTx(ctx, tx, transitionCmd{
			bidID:   siblingID,
			actorID: bid.ClientID,
			event:   models.EventReject,
			note:    "another bid on this project was accepted",
		})
		if errors.Is(err, ErrInvalidTransition) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cascade = append(cascade, *res.Log)
	}
	return cascade, nil
}

func closedBidStates() []string {
	return []string{string(models.BidAccepted), string(models.BidRejected), string(models.BidWithdrawn)}
}

func openSiblingBids(ctx context.Context, q database.Querier, projectID, bidID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM bids
		WHERE project_id = $1 AND id <> $2 AND state <> ALL($3)
		ORDER BY created_at, id
	`, projectID, bidID, closedBidStates())
	if err != nil {
		return nil, fmt.Errorf("failed to list competing bids: %w", err)
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

func (s *BidService) logResult(res *TransitionResult) {
	s.logTransition(*res.Log)
	for _, entry := range res.Cascade {
		s.logTransition(entry)
	}
}

func (s *BidService) logTransition(entry models.BidNegotiationLog) {
	s.log.Info("bid transitioned",
		"bid_id", entry.BidID,
		"event", entry.Event,
		"from", entry.PreviousState,
		"to", entry.NewState,
		"actor_id", entry.ActorID,
	)
}

func (s *BidService) ListForProject(ctx context.Context, projectID, clientID uuid.UUID, state *models.BidState) ([]models.Bid, error) {
	var owner uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT client_id FROM projects WHERE id = $1`, projectID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if owner != clientID {
		return nil, ErrNotProjectClient
	}
	return s.listBids(ctx, "project_id", projectID, state)
}

func (s *BidService) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, state *models.BidState) ([]models.Bid, error) {
	return s.listBids(ctx, "freelancer_id", freelancerID, state)
}

// listBids hides withdrawn bids unless they are asked for by state.
func (s *BidService) listBids(ctx context.Context, column string, id uuid.UUID, state *models.BidState) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE ` + column + ` = $1`
	args := []any{id}
	if state != nil {
		if !state.IsValid() {
			return nil, fmt.Errorf("%w: unknown bid state %q", ErrValidation, *state)
		}
		query += ` AND state = $2`
		args = append(args, *state)
	} else {
		query += ` AND state <> $2`
		args = append(args, models.BidWithdrawn)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	bids := make([]models.Bid, 0)
	for rows.Next() {
		var bid models.Bid
		if err := rows.Scan(bidScanTargets(&bid)...); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

// History returns the negotiation log in write order. Only the project's
// client and the bidding freelancer may read it.
func (s *BidService) History(ctx context.Context, bidID, actorID uuid.UUID) ([]models.BidNegotiationLog, error) {
	var freelancerID, clientID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT b.freelancer_id, p.client_id
		FROM bids b
		JOIN projects p ON p.id = b.project_id
		WHERE b.id = $1
	`, bidID).Scan(&freelancerID, &clientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bid: %w", err)
	}
	if actorID != freelancerID && actorID != clientID {
		return nil, ErrNotBidParty
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, bid_id, actor_id, event, previous_state, new_state, note, created_at
		FROM bid_negotiation_logs
		WHERE bid_id = $1
		ORDER BY id
	`, bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load negotiation log: %w", err)
	}
	defer rows.Close()

	entries := make([]models.BidNegotiationLog, 0)
	for rows.Next() {
		var e models.BidNegotiationLog
		if err := rows.Scan(&e.ID, &e.BidID, &e.ActorID, &e.Event, &e.PreviousState, &e.NewState, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type InterviewOutcome string

const (
	InterviewRequested InterviewOutcome = "requested"
	InterviewSkipped   InterviewOutcome = "skipped"
	InterviewForbidden InterviewOutcome = "forbidden"
	InterviewNotFound  InterviewOutcome = "not_found"
	InterviewFailed    InterviewOutcome = "failed"
)

type InterviewResult struct {
	BidID             uuid.UUID        `json:"bid_id"`
	Outcome           InterviewOutcome `json:"outcome"`
	InvitationID      *uuid.UUID       `json:"invitation_id,omitempty"`
	InvitationCreated bool             `json:"invitation_created"`
}

// RequestInterviews moves every listed bid from under_review to
// interview_requested and issues one pending interview invitation per bid.
// Each bid commits on its own; a bid in any other state is skipped.
func (s *BidService) RequestInterviews(ctx context.Context, clientID uuid.UUID, bidIDs []uuid.UUID, message string, ttl time.Duration) ([]InterviewResult, error) {
	if len(bidIDs) == 0 {
		return nil, ErrNoBids
	}
	if ttl <= 0 {
		ttl = s.interviewTTL
	}

	seen := make(map[uuid.UUID]struct{}, len(bidIDs))
	results := make([]InterviewResult, 0, len(bidIDs))
	for _, id := range bidIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		results = append(results, s.requestInterview(ctx, clientID, id, message, ttl))
	}
	return results, nil
}

func (s *BidService) requestInterview(ctx context.Context, clientID, bidID uuid.UUID, message string, ttl time.Duration) InterviewResult {
	result := InterviewResult{BidID: bidID}

	var res *TransitionResult
	var inv *models.Invitation
	var created bool
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		var err error
		res, err = s.applyTx(ctx, tx, transitionCmd{
			bidID:   bidID,
			actorID: clientID,
			event:   models.EventRequestInterview,
			note:    message,
		})
		if err != nil {
			return err
		}
		inv, created, err = ensurePendingInvitation(ctx, tx, pendingInvitation{
			kind:       models.InvitationInterviewRequest,
			targetType: models.TargetBid,
			targetID:   bidID,
			inviterID:  clientID,
			inviteeID:  res.Bid.FreelancerID,
			message:    message,
			ttl:        ttl,
		}, time.Now().UTC())
		return err
	})

	switch {
	case err == nil:
		result.Outcome = InterviewRequested
		result.InvitationID = &inv.ID
		result.InvitationCreated = created
		s.logResult(res)
	case errors.Is(err, ErrNotFound):
		result.Outcome = InterviewNotFound
	case errors.Is(err, ErrPermissionDenied):
		result.Outcome = InterviewForbidden
	case errors.Is(err, ErrInvalidTransition):
		result.Outcome = InterviewSkipped
		pending, lookupErr := findPendingInvitation(ctx, s.db.Pool, models.InvitationInterviewRequest, models.TargetBid, bidID)
		if lookupErr == nil && pending.IsActionable(time.Now()) {
			result.InvitationID = &pending.ID
		}
	default:
		result.Outcome = InterviewFailed
		s.log.Error("failed to request interview", "bid_id", bidID, "error", err)
	}
	return result
}
