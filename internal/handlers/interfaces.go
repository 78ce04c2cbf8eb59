package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	IsSuperAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, clientID uuid.UUID, in services.ProjectInput) (*models.Project, error)
	GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	Complete(ctx context.Context, projectID, clientID uuid.UUID) (*models.Project, error)
}

// BidServiceInterface defines the methods used by handlers from BidService
type BidServiceInterface interface {
	Submit(ctx context.Context, freelancerID, projectID uuid.UUID, in services.BidInput) (*models.Bid, error)
	Edit(ctx context.Context, freelancerID, bidID uuid.UUID, in services.BidInput) (*models.Bid, error)
	Transition(ctx context.Context, bidID, actorID uuid.UUID, event models.BidEvent, opts services.TransitionOptions) (*services.TransitionResult, error)
	Withdraw(ctx context.Context, bidID, freelancerID uuid.UUID, note string) (*services.TransitionResult, error)
	ListForProject(ctx context.Context, projectID, clientID uuid.UUID, state *models.BidState) ([]models.Bid, error)
	ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, state *models.BidState) ([]models.Bid, error)
	History(ctx context.Context, bidID, actorID uuid.UUID) ([]models.BidNegotiationLog, error)
	RequestInterviews(ctx context.Context, clientID uuid.UUID, bidIDs []uuid.UUID, message string, ttl time.Duration) ([]services.InterviewResult, error)
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	Create(ctx context.Context, in services.CreateInvitationInput) (*models.Invitation, bool, error)
	Respond(ctx context.Context, invitationID, actorID uuid.UUID, action services.InvitationAction, message string) (*services.InvitationResponse, error)
	Get(ctx context.Context, invitationID, actorID uuid.UUID) (*models.Invitation, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status *models.InvitationStatus) ([]models.Invitation, error)
}

// ReputationServiceInterface defines the methods used by handlers from ReputationService
type ReputationServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*services.Reputation, error)
	Recalculate(ctx context.Context, userID uuid.UUID) (*services.Reputation, error)
}

// OBSPServiceInterface defines the methods used by handlers from OBSPService
type OBSPServiceInterface interface {
	CreateAssignment(ctx context.Context, templateID, clientID, freelancerID uuid.UUID, deadline *time.Time) (*models.OBSPAssignment, error)
	CompleteAssignment(ctx context.Context, assignmentID, clientID uuid.UUID) (*models.OBSPAssignment, error)
}

// FeedbackServiceInterface defines the methods used by handlers from FeedbackService
type FeedbackServiceInterface interface {
	CreateFeedback(ctx context.Context, fromUserID uuid.UUID, in services.FeedbackInput) (*models.Feedback, error)
	CreateReview(ctx context.Context, reviewerID uuid.UUID, in services.ReviewInput) (*models.FreelancerReview, *services.Reputation, error)
}

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	UpdateCompletion(ctx context.Context, userID uuid.UUID, completion int) (*services.Reputation, error)
	SaveBankDetails(ctx context.Context, userID uuid.UUID, in services.BankDetailsInput) (*models.BankDetails, *services.Reputation, error)
	SetBankDetailsVerified(ctx context.Context, userID uuid.UUID, verified bool) (*services.Reputation, error)
	AddVerificationDocument(ctx context.Context, userID uuid.UUID, documentType, fileReference string) (*models.VerificationDocument, *services.Reputation, error)
	SetDocumentVerified(ctx context.Context, documentID uuid.UUID, verified bool) (*models.VerificationDocument, *services.Reputation, error)
}
