package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, name, global_role, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Name, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureFromClaims returns the user a validated token speaks for, creating
// the row on first sight and following email changes. The name of a new
// user defaults to the local part of the email.
func (s *UserService) EnsureFromClaims(ctx context.Context, claims *Claims) (*models.User, error) {
	email := strings.TrimSpace(claims.Email)
	if claims.UserID == uuid.Nil || email == "" {
		return nil, fmt.Errorf("%w: token subject and email", ErrMissingField)
	}

	user, err := s.GetByID(ctx, claims.UserID)
	if err == nil && user.Email == email {
		return user, nil
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	name, _, _ := strings.Cut(email, "@")
	user = &models.User{}
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING id, email, name, global_role, created_at, updated_at
	`, claims.UserID, email, name).Scan(&user.ID, &user.Email, &user.Name, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, name, global_role, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Name, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) SetGlobalRole(ctx context.Context, id uuid.UUID, role string) error {
	if role != models.GlobalRoleSuperAdmin && role != models.GlobalRoleUser {
		return fmt.Errorf("%w: unknown global role %q", ErrValidation, role)
	}
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET global_role = $1, updated_at = NOW() WHERE id = $2
	`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update global role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) IsSuperAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	var role string
	err := s.db.Pool.QueryRow(ctx, `SELECT global_role FROM users WHERE id = $1`, id).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role == models.GlobalRoleSuperAdmin, nil
}
