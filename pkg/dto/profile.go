package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveBankDetailsRequest struct {
	AccountHolder string `json:"account_holder"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

type BankDetailsResponse struct {
	UserID        uuid.UUID          `json:"user_id"`
	AccountHolder string             `json:"account_holder"`
	BankName      string             `json:"bank_name"`
	AccountLast4  string             `json:"account_last4"`
	Verified      bool               `json:"verified"`
	Reputation    ReputationResponse `json:"reputation"`
}

type AddDocumentRequest struct {
	DocumentType  string `json:"document_type"`
	FileReference string `json:"file_reference"`
}

type DocumentResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	DocumentType  string              `json:"document_type"`
	FileReference string              `json:"file_reference"`
	Verified      bool                `json:"verified"`
	VerifiedAt    *time.Time          `json:"verified_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Reputation    *ReputationResponse `json:"reputation,omitempty"`
}

type UpdateCompletionRequest struct {
	Completion *int `json:"profile_completion"`
}

type VerifyRequest struct {
	Verified *bool `json:"verified"`
}
