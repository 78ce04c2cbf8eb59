package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewUserService(db), mock
}

func TestUserService_GetByID(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "email", "name", "global_role", "created_at", "updated_at"}).
		AddRow(userID, "ana@example.com", "Ana", models.GlobalRoleUser, now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(userID).
		WillReturnRows(rows)

	user, err := svc.GetByID(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.False(t, user.IsSuperAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), userID)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByEmail(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "email", "name", "global_role", "created_at", "updated_at"}).
		AddRow(userID, "root@example.com", "Root", models.GlobalRoleSuperAdmin, now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("root@example.com").
		WillReturnRows(rows)

	user, err := svc.GetByEmail(context.Background(), "root@example.com")

	require.NoError(t, err)
	assert.True(t, user.IsSuperAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetGlobalRole(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectExec(`UPDATE users SET global_role`).
		WithArgs(models.GlobalRoleSuperAdmin, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.SetGlobalRole(context.Background(), userID, models.GlobalRoleSuperAdmin)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetGlobalRole_UnknownUser(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectExec(`UPDATE users SET global_role`).
		WithArgs(models.GlobalRoleSuperAdmin, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := svc.SetGlobalRole(context.Background(), userID, models.GlobalRoleSuperAdmin)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetGlobalRole_RejectsUnknownRole(t *testing.T) {
	svc, mock := setupUserService(t)

	err := svc.SetGlobalRole(context.Background(), uuid.New(), "owner")

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_IsSuperAdmin(t *testing.T) {
	svc, mock := setupUserService(t)
	adminID := uuid.New()
	missingID := uuid.New()

	mock.ExpectQuery(`SELECT global_role FROM users`).
		WithArgs(adminID).
		WillReturnRows(pgxmock.NewRows([]string{"global_role"}).AddRow(models.GlobalRoleSuperAdmin))
	mock.ExpectQuery(`SELECT global_role FROM users`).
		WithArgs(missingID).
		WillReturnError(pgx.ErrNoRows)

	ok, err := svc.IsSuperAdmin(context.Background(), adminID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsSuperAdmin(context.Background(), missingID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

var userRowColumns = []string{"id", "email", "name", "global_role", "created_at", "updated_at"}

func TestUserService_EnsureFromClaims(t *testing.T) {
	t.Run("known user with the same email", func(t *testing.T) {
		svc, mock := setupUserService(t)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows(userRowColumns).
				AddRow(userID, "ana@example.com", "Ana", models.GlobalRoleUser, now, now))

		user, err := svc.EnsureFromClaims(context.Background(), &Claims{UserID: userID, Email: "ana@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "Ana", user.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first sight creates the row", func(t *testing.T) {
		svc, mock := setupUserService(t)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO users \(id, email, name\) .+ ON CONFLICT \(id\) DO UPDATE`).
			WithArgs(userID, "marko@example.com", "marko").
			WillReturnRows(pgxmock.NewRows(userRowColumns).
				AddRow(userID, "marko@example.com", "marko", models.GlobalRoleUser, now, now))

		user, err := svc.EnsureFromClaims(context.Background(), &Claims{UserID: userID, Email: " marko@example.com "})

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, models.GlobalRoleUser, user.GlobalRole)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("changed email is updated", func(t *testing.T) {
		svc, mock := setupUserService(t)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows(userRowColumns).
				AddRow(userID, "old@example.com", "Ana", models.GlobalRoleSuperAdmin, now, now))
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(userID, "ana@example.com", "ana").
			WillReturnRows(pgxmock.NewRows(userRowColumns).
				AddRow(userID, "ana@example.com", "Ana", models.GlobalRoleSuperAdmin, now, now))

		user, err := svc.EnsureFromClaims(context.Background(), &Claims{UserID: userID, Email: "ana@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, "Ana", user.Name)
		assert.True(t, user.IsSuperAdmin())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email owned by another user", func(t *testing.T) {
		svc, mock := setupUserService(t)
		userID := uuid.New()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(userID, "taken@example.com", "taken").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := svc.EnsureFromClaims(context.Background(), &Claims{UserID: userID, Email: "taken@example.com"})

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("token without email", func(t *testing.T) {
		svc, mock := setupUserService(t)

		_, err := svc.EnsureFromClaims(context.Background(), &Claims{UserID: uuid.New()})

		assert.ErrorIs(t, err, ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
