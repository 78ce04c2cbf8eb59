package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) IsSuperAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, clientID uuid.UUID, in services.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, clientID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Complete(ctx context.Context, projectID, clientID uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, projectID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

// MockBidService mocks the BidService
type MockBidService struct {
	mock.Mock
}

func (m *MockBidService) Submit(ctx context.Context, freelancerID, projectID uuid.UUID, in services.BidInput) (*models.Bid, error) {
	args := m.Called(ctx, freelancerID, projectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bid), args.Error(1)
}

func (m *MockBidService) Edit(ctx context.Context, freelancerID, bidID uuid.UUID, in services.BidInput) (*models.Bid, error) {
	args := m.Called(ctx, freelancerID, bidID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bid), args.Error(1)
}

func (m *MockBidService) Transition(ctx context.Context, bidID, actorID uuid.UUID, event models.BidEvent, opts services.TransitionOptions) (*services.TransitionResult, error) {
	args := m.Called(ctx, bidID, actorID, event, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TransitionResult), args.Error(1)
}

func (m *MockBidService) Withdraw(ctx context.Context, bidID, freelancerID uuid.UUID, note string) (*services.TransitionResult, error) {
	args := m.Called(ctx, bidID, freelancerID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TransitionResult), args.Error(1)
}

func (m *MockBidService) ListForProject(ctx context.Context, projectID, clientID uuid.UUID, state *models.BidState) ([]models.Bid, error) {
	args := m.Called(ctx, projectID, clientID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bid), args.Error(1)
}

func (m *MockBidService) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, state *models.BidState) ([]models.Bid, error) {
	args := m.Called(ctx, freelancerID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bid), args.Error(1)
}

func (m *MockBidService) History(ctx context.Context, bidID, actorID uuid.UUID) ([]models.BidNegotiationLog, error) {
	args := m.Called(ctx, bidID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BidNegotiationLog), args.Error(1)
}

func (m *MockBidService) RequestInterviews(ctx context.Context, clientID uuid.UUID, bidIDs []uuid.UUID, message string, ttl time.Duration) ([]services.InterviewResult, error) {
	args := m.Called(ctx, clientID, bidIDs, message, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.InterviewResult), args.Error(1)
}

// MockInvitationService mocks the InvitationService
type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) Create(ctx context.Context, in services.CreateInvitationInput) (*models.Invitation, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Invitation), args.Bool(1), args.Error(2)
}

func (m *MockInvitationService) Respond(ctx context.Context, invitationID, actorID uuid.UUID, action services.InvitationAction, message string) (*services.InvitationResponse, error) {
	args := m.Called(ctx, invitationID, actorID, action, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InvitationResponse), args.Error(1)
}

func (m *MockInvitationService) Get(ctx context.Context, invitationID, actorID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) ListForUser(ctx context.Context, userID uuid.UUID, status *models.InvitationStatus) ([]models.Invitation, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

// MockReputationService mocks the ReputationService
type MockReputationService struct {
	mock.Mock
}

func (m *MockReputationService) Get(ctx context.Context, userID uuid.UUID) (*services.Reputation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Reputation), args.Error(1)
}

func (m *MockReputationService) Recalculate(ctx context.Context, userID uuid.UUID) (*services.Reputation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Reputation), args.Error(1)
}

// MockOBSPService mocks the OBSPService
type MockOBSPService struct {
	mock.Mock
}

func (m *MockOBSPService) CreateAssignment(ctx context.Context, templateID, clientID, freelancerID uuid.UUID, deadline *time.Time) (*models.OBSPAssignment, error) {
	args := m.Called(ctx, templateID, clientID, freelancerID, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OBSPAssignment), args.Error(1)
}

func (m *MockOBSPService) CompleteAssignment(ctx context.Context, assignmentID, clientID uuid.UUID) (*models.OBSPAssignment, error) {
	args := m.Called(ctx, assignmentID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OBSPAssignment), args.Error(1)
}

// MockFeedbackService mocks the FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) CreateFeedback(ctx context.Context, fromUserID uuid.UUID, in services.FeedbackInput) (*models.Feedback, error) {
	args := m.Called(ctx, fromUserID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockFeedbackService) CreateReview(ctx context.Context, reviewerID uuid.UUID, in services.ReviewInput) (*models.FreelancerReview, *services.Reputation, error) {
	args := m.Called(ctx, reviewerID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.FreelancerReview), args.Get(1).(*services.Reputation), args.Error(2)
}

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) UpdateCompletion(ctx context.Context, userID uuid.UUID, completion int) (*services.Reputation, error) {
	args := m.Called(ctx, userID, completion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Reputation), args.Error(1)
}

func (m *MockProfileService) SaveBankDetails(ctx context.Context, userID uuid.UUID, in services.BankDetailsInput) (*models.BankDetails, *services.Reputation, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.BankDetails), args.Get(1).(*services.Reputation), args.Error(2)
}

func (m *MockProfileService) SetBankDetailsVerified(ctx context.Context, userID uuid.UUID, verified bool) (*services.Reputation, error) {
	args := m.Called(ctx, userID, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Reputation), args.Error(1)
}

func (m *MockProfileService) AddVerificationDocument(ctx context.Context, userID uuid.UUID, documentType, fileReference string) (*models.VerificationDocument, *services.Reputation, error) {
	args := m.Called(ctx, userID, documentType, fileReference)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.VerificationDocument), args.Get(1).(*services.Reputation), args.Error(2)
}

func (m *MockProfileService) SetDocumentVerified(ctx context.Context, documentID uuid.UUID, verified bool) (*models.VerificationDocument, *services.Reputation, error) {
	args := m.Called(ctx, documentID, verified)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.VerificationDocument), args.Get(1).(*services.Reputation), args.Error(2)
}
