package scoring

import "time"

// Weights holds the point value of every scoring signal.
type Weights struct {
	ProjectCompletion    int
	ProjectRatingFactor  int
	OnTimeBonus          int
	EarlyDeliveryBonus   int
	EarlyDeliveryMinRate float64
	RepeatClientStep     int
	RepeatClientCap      int

	OBSPCompletion   int
	OBSPRatingFactor int

	BankPresent  int
	BankVerified int

	DocumentUploaded int
	DocumentVerified int

	ProfileComplete int

	StreakPerWeek int
	StreakCap     int

	RecentWindow  time.Duration
	RecentPerItem int
	RecentCap     int

	DiversityPerClient int
	DiversityCap       int
}

func DefaultWeights() Weights {
	return Weights{
		ProjectCompletion:    50,
		ProjectRatingFactor:  10,
		OnTimeBonus:          15,
		EarlyDeliveryBonus:   10,
		EarlyDeliveryMinRate: 4,
		RepeatClientStep:     5,
		RepeatClientCap:      25,

		OBSPCompletion:   60,
		OBSPRatingFactor: 10,

		BankPresent:  10,
		BankVerified: 15,

		DocumentUploaded: 5,
		DocumentVerified: 10,

		ProfileComplete: 20,

		StreakPerWeek: 2,
		StreakCap:     20,

		RecentWindow:  30 * 24 * time.Hour,
		RecentPerItem: 5,
		RecentCap:     25,

		DiversityPerClient: 3,
		DiversityCap:       30,
	}
}
