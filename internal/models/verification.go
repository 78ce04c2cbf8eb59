package models

import (
	"time"

	"github.com/google/uuid"
)

type BankDetails struct {
	UserID        uuid.UUID `json:"user_id"`
	AccountHolder string    `json:"account_holder"`
	BankName      string    `json:"bank_name"`
	AccountLast4  string    `json:"account_last4"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type VerificationDocument struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	DocumentType  string     `json:"document_type"`
	FileReference string     `json:"file_reference"`
	Verified      bool       `json:"verified"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
