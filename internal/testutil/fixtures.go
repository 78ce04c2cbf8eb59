package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("user%d@example.com", f.counter),
		Name:       fmt.Sprintf("Test User %d", f.counter),
		GlobalRole: models.GlobalRoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (email, name, global_role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.GlobalRole).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithSuperAdmin grants the platform-wide admin role
func WithSuperAdmin() UserOption {
	return func(u *models.User) {
		u.GlobalRole = models.GlobalRoleSuperAdmin
	}
}

// CreateProject creates an open project owned by clientID
func (f *Fixtures) CreateProject(t *testing.T, clientID uuid.UUID, opts ...ProjectOption) *models.Project {
	t.Helper()
	f.counter++

	project := &models.Project{
		ClientID: clientID,
		Title:    fmt.Sprintf("Project %d", f.counter),
		Budget:   decimal.NewFromInt(1000),
		Currency: "USD",
		Status:   models.ProjectOpen,
	}

	for _, opt := range opts {
		opt(project)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO projects (client_id, title, budget, currency, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, project.ClientID, project.Title, project.Budget, project.Currency, project.Status, project.Deadline).
		Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return project
}

// ProjectOption configures a test project
type ProjectOption func(*models.Project)

// WithProjectStatus sets the project's status
func WithProjectStatus(status models.ProjectStatus) ProjectOption {
	return func(p *models.Project) {
		p.Status = status
	}
}

// WithDeadline sets the project's deadline
func WithDeadline(deadline time.Time) ProjectOption {
	return func(p *models.Project) {
		p.Deadline = &deadline
	}
}

// CreateBid inserts a bid directly in the given state, bypassing the
// transition log.
func (f *Fixtures) CreateBid(t *testing.T, projectID, freelancerID uuid.UUID, state models.BidState) *models.Bid {
	t.Helper()

	bid := &models.Bid{
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		Price:        decimal.NewFromInt(500),
		Currency:     "USD",
		State:        state,
		Version:      1,
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO bids (project_id, freelancer_id, price, currency, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, bid.ProjectID, bid.FreelancerID, bid.Price, bid.Currency, bid.State).
		Scan(&bid.ID, &bid.CreatedAt, &bid.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create bid: %v", err)
	}

	return bid
}

// CreateProfile creates an empty freelancer profile
func (f *Fixtures) CreateProfile(t *testing.T, userID uuid.UUID) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO freelancer_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
}

// CreateOBSPTemplate creates a productized service template
func (f *Fixtures) CreateOBSPTemplate(t *testing.T) *models.OBSPTemplate {
	t.Helper()
	f.counter++

	template := &models.OBSPTemplate{Title: fmt.Sprintf("Package %d", f.counter)}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO obsp_templates (title) VALUES ($1)
		RETURNING id, created_at
	`, template.Title).Scan(&template.ID, &template.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create obsp template: %v", err)
	}

	return template
}

// CountLogs returns the number of negotiation log rows for a bid
func (f *Fixtures) CountLogs(t *testing.T, bidID uuid.UUID) int {
	t.Helper()

	var n int
	err := f.db.Pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM bid_negotiation_logs WHERE bid_id = $1
	`, bidID).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	return n
}
