package services

import (
	"errors"
	"fmt"

	"github.com/dimitrije/gigmarket-api/internal/models"
)

// Error kinds. Every concrete error below wraps exactly one of them so the
// HTTP layer can map with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
)

var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrProjectNotFound     = fmt.Errorf("project %w", ErrNotFound)
	ErrBidNotFound         = fmt.Errorf("bid %w", ErrNotFound)
	ErrInvitationNotFound  = fmt.Errorf("invitation %w", ErrNotFound)
	ErrProfileNotFound     = fmt.Errorf("freelancer profile %w", ErrNotFound)
	ErrAssignmentNotFound  = fmt.Errorf("assignment %w", ErrNotFound)
	ErrTemplateNotFound    = fmt.Errorf("obsp template %w", ErrNotFound)
	ErrBankDetailsNotFound = fmt.Errorf("bank details %w", ErrNotFound)
	ErrDocumentNotFound    = fmt.Errorf("verification document %w", ErrNotFound)
)

var (
	ErrNotProjectClient   = fmt.Errorf("%w: not the project's client", ErrPermissionDenied)
	ErrNotBidOwner        = fmt.Errorf("%w: not the bid's freelancer", ErrPermissionDenied)
	ErrNotBidParty        = fmt.Errorf("%w: not a party to this bid", ErrPermissionDenied)
	ErrNotInvitee         = fmt.Errorf("%w: not the invited user", ErrPermissionDenied)
	ErrNotInvitationParty = fmt.Errorf("%w: not a party to this invitation", ErrPermissionDenied)
	ErrNotAssignmentParty = fmt.Errorf("%w: not the assignment's client", ErrPermissionDenied)
	ErrNotParticipant     = fmt.Errorf("%w: not a participant of this engagement", ErrPermissionDenied)
	ErrOwnProject         = fmt.Errorf("%w: cannot bid on your own project", ErrPermissionDenied)
	ErrNotSuperAdmin      = fmt.Errorf("%w: super admin required", ErrPermissionDenied)
)

var (
	ErrBidClosed             = fmt.Errorf("%w: bid is closed", ErrInvalidTransition)
	ErrProjectNotInProgress  = fmt.Errorf("%w: project is not in progress", ErrInvalidTransition)
	ErrAssignmentNotActive   = fmt.Errorf("%w: assignment is not active", ErrInvalidTransition)
	ErrInvitationOnlyEvent   = fmt.Errorf("%w: event is only reachable by responding to an invitation", ErrInvalidTransition)
	ErrInvitationTargetMoved = fmt.Errorf("%w: invitation target no longer accepts this response", ErrInvalidTransition)
	ErrInterviewNotRequested = fmt.Errorf("%w: interview invitations need a bid in %s", ErrInvalidTransition, models.BidInterviewRequested)
)

var (
	ErrDuplicatePendingInvitation = fmt.Errorf("%w: a pending invitation already exists for this target", ErrConflict)
	ErrInvitationResolved         = fmt.Errorf("%w: invitation already resolved", ErrConflict)
	ErrInvitationExpired          = fmt.Errorf("%w: invitation expired", ErrConflict)
	ErrBidExists                  = fmt.Errorf("%w: freelancer already bid on this project", ErrConflict)
	ErrProjectNotOpen             = fmt.Errorf("%w: project is not open for bids", ErrConflict)
	ErrVersionConflict            = fmt.Errorf("%w: bid has been modified", ErrConflict)
	ErrAlreadyReviewed            = fmt.Errorf("%w: review already submitted", ErrConflict)
	ErrEmailTaken                 = fmt.Errorf("%w: email belongs to another user", ErrConflict)
)

var (
	ErrCounterOfferRequired  = fmt.Errorf("%w: counter_offer is required", ErrValidation)
	ErrInvalidPrice          = fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	ErrInvalidCurrency       = fmt.Errorf("%w: currency must be a three letter code", ErrValidation)
	ErrInvalidDates          = fmt.Errorf("%w: proposed end precedes proposed start", ErrValidation)
	ErrUnknownEvent          = fmt.Errorf("%w: unknown bid event", ErrValidation)
	ErrUnknownInvitationType = fmt.Errorf("%w: unknown invitation type", ErrValidation)
	ErrUnknownTargetType     = fmt.Errorf("%w: unsupported invitation target", ErrValidation)
	ErrUnknownAction         = fmt.Errorf("%w: action must be accept or decline", ErrValidation)
	ErrInvalidRating         = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidFeedbackTarget = fmt.Errorf("%w: feedback needs exactly one of project_id or obsp_template_id", ErrValidation)
	ErrSelfFeedback          = fmt.Errorf("%w: cannot rate yourself", ErrValidation)
	ErrInvalidCompletion     = fmt.Errorf("%w: profile completion must be between 0 and 100", ErrValidation)
	ErrNoBids                = fmt.Errorf("%w: at least one bid id is required", ErrValidation)
	ErrMissingField          = fmt.Errorf("%w: missing required field", ErrValidation)
)

// transitionError reports an illegal move with both ends spelled out.
func transitionError(event models.BidEvent, from, to models.BidState) error {
	return fmt.Errorf("%w: %s cannot move a bid from %s to %s", ErrInvalidTransition, event, from, to)
}
