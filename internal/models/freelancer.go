package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Level string

const (
	LevelBronze Level = "Bronze"
	LevelSilver Level = "Silver"
	LevelGold   Level = "Gold"
)

type FreelancerProfile struct {
	UserID            uuid.UUID       `json:"user_id"`
	Points            int             `json:"points"`
	CurrentLevel      Level           `json:"current_level"`
	CurrentSubLevel   int             `json:"current_sub_level"`
	ProfileCompletion int             `json:"profile_completion"`
	AverageRating     decimal.Decimal `json:"average_rating"`
	ReviewCount       int             `json:"review_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
