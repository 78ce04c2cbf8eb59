package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BankDetailsInput struct {
	AccountHolder string
	BankName      string
	AccountNumber string
}

// ProfileService owns the verification inputs of a freelancer's score.
// Every mutation rebuilds the score before it commits.
type ProfileService struct {
	db         *database.DB
	reputation *ReputationService
	log        *slog.Logger
}

func NewProfileService(db *database.DB, reputation *ReputationService, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{db: db, reputation: reputation, log: logger}
}

// ensureFreelancerProfile creates an empty profile for userID if none exists.
func ensureFreelancerProfile(ctx context.Context, q database.Querier, userID uuid.UUID) error {
	if _, err := q.Exec(ctx, `
		INSERT INTO freelancer_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return fmt.Errorf("failed to ensure freelancer profile: %w", err)
	}
	return nil
}

// withRecalculation runs fn and the score rebuild for userID in one transaction.
func (s *ProfileService) withRecalculation(ctx context.Context, userID uuid.UUID, fn func(tx pgx.Tx) error) (*Reputation, error) {
	var rep *Reputation
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		var err error
		rep, err = s.reputation.recalculateTx(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.reputation.logRecalculation(rep)
	return rep, nil
}

// UpdateCompletion creates the freelancer profile on first use.
func (s *ProfileService) UpdateCompletion(ctx context.Context, userID uuid.UUID, completion int) (*Reputation, error) {
	if completion < 0 || completion > 100 {
		return nil, ErrInvalidCompletion
	}
	return s.withRecalculation(ctx, userID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO freelancer_profiles (user_id, profile_completion) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET profile_completion = EXCLUDED.profile_completion, updated_at = NOW()
		`, userID, completion)
		if err != nil {
			return fmt.Errorf("failed to update profile completion: %w", err)
		}
		return nil
	})
}

// SaveBankDetails stores or replaces the user's bank details. A change
// resets verification. The freelancer profile is created on first use.
func (s *ProfileService) SaveBankDetails(ctx context.Context, userID uuid.UUID, in BankDetailsInput) (*models.BankDetails, *Reputation, error) {
	in.AccountHolder = strings.TrimSpace(in.AccountHolder)
	in.BankName = strings.TrimSpace(in.BankName)
	account := strings.ReplaceAll(in.AccountNumber, " ", "")
	if in.AccountHolder == "" || in.BankName == "" || len(account) < 4 {
		return nil, nil, fmt.Errorf("%w: account_holder, bank_name and account_number", ErrMissingField)
	}

	var details models.BankDetails
	rep, err := s.withRecalculation(ctx, userID, func(tx pgx.Tx) error {
		if err := ensureFreelancerProfile(ctx, tx, userID); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO bank_details (user_id, account_holder, bank_name, account_last4)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET account_holder = EXCLUDED.account_holder,
			    bank_name = EXCLUDED.bank_name,
			    account_last4 = EXCLUDED.account_last4,
			    verified = FALSE,
			    updated_at = NOW()
			RETURNING user_id, account_holder, bank_name, account_last4, verified, created_at, updated_at
		`, userID, in.AccountHolder, in.BankName, account[len(account)-4:]).Scan(
			&details.UserID, &details.AccountHolder, &details.BankName, &details.AccountLast4,
			&details.Verified, &details.CreatedAt, &details.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save bank details: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &details, rep, nil
}

func (s *ProfileService) SetBankDetailsVerified(ctx context.Context, userID uuid.UUID, verified bool) (*Reputation, error) {
	return s.withRecalculation(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE bank_details SET verified = $1, updated_at = NOW() WHERE user_id = $2
		`, verified, userID)
		if err != nil {
			return fmt.Errorf("failed to verify bank details: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrBankDetailsNotFound
		}
		return nil
	})
}

func (s *ProfileService) AddVerificationDocument(ctx context.Context, userID uuid.UUID, documentType, fileReference string) (*models.VerificationDocument, *Reputation, error) {
	documentType = strings.TrimSpace(documentType)
	fileReference = strings.TrimSpace(fileReference)
	if documentType == "" || fileReference == "" {
		return nil, nil, fmt.Errorf("%w: document_type and file_reference", ErrMissingField)
	}

	var doc models.VerificationDocument
	rep, err := s.withRecalculation(ctx, userID, func(tx pgx.Tx) error {
		if err := ensureFreelancerProfile(ctx, tx, userID); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO verification_documents (user_id, document_type, file_reference)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, document_type, file_reference, verified, verified_at, created_at
		`, userID, documentType, fileReference).Scan(
			&doc.ID, &doc.UserID, &doc.DocumentType, &doc.FileReference, &doc.Verified, &doc.VerifiedAt, &doc.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to add verification document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &doc, rep, nil
}

// SetDocumentVerified flips a document's verification and rebuilds its
// owner's score.
func (s *ProfileService) SetDocumentVerified(ctx context.Context, documentID uuid.UUID, verified bool) (*models.VerificationDocument, *Reputation, error) {
	var doc models.VerificationDocument
	var rep *Reputation
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE verification_documents
			SET verified = $1, verified_at = CASE WHEN $1 THEN NOW() ELSE NULL END
			WHERE id = $2
			RETURNING id, user_id, document_type, file_reference, verified, verified_at, created_at
		`, verified, documentID).Scan(
			&doc.ID, &doc.UserID, &doc.DocumentType, &doc.FileReference, &doc.Verified, &doc.VerifiedAt, &doc.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDocumentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to verify document: %w", err)
		}
		rep, err = s.reputation.recalculateTx(ctx, tx, doc.UserID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.reputation.logRecalculation(rep)
	return &doc, rep, nil
}
