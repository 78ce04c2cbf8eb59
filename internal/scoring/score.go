// Package scoring derives a freelancer's reputation points from their full
// history. Every call is a rebuild from scratch; nothing is accumulated
// between calls, so repeated runs over the same history agree.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Breakdown struct {
	Projects          int `json:"projects"`
	OBSPs             int `json:"obsps"`
	Bank              int `json:"bank"`
	Documents         int `json:"documents"`
	ProfileCompletion int `json:"profile_completion"`
	ActivityStreak    int `json:"activity_streak"`
	RecentActivity    int `json:"recent_activity"`
	ClientDiversity   int `json:"client_diversity"`
	Total             int `json:"total"`
}

// Result pairs a breakdown with the tier its total maps to.
type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Tier      Tier      `json:"tier"`
}

func Evaluate(h History, w Weights, now time.Time) Result {
	b := Compute(h, w, now)
	return Result{Breakdown: b, Tier: LookupTier(b.Total)}
}

func Compute(h History, w Weights, now time.Time) Breakdown {
	projects := distinctProjects(h.Projects)
	obsps := distinctOBSPs(h.OBSPs)

	var b Breakdown
	b.Projects = projectPoints(projects, w)
	b.OBSPs = obspPoints(obsps, w)
	b.Bank = bankPoints(h.Bank, w)
	b.Documents = documentPoints(distinctDocuments(h.Documents), w)
	if h.ProfileCompletion >= 100 {
		b.ProfileCompletion = w.ProfileComplete
	}

	activity := activityTimes(projects, obsps)
	b.ActivityStreak = capped(weekStreak(activity, now)*w.StreakPerWeek, w.StreakCap)
	b.RecentActivity = capped(countSince(activity, now, w.RecentWindow)*w.RecentPerItem, w.RecentCap)
	b.ClientDiversity = capped(distinctClients(projects, obsps)*w.DiversityPerClient, w.DiversityCap)

	b.Total = b.Projects + b.OBSPs + b.Bank + b.Documents + b.ProfileCompletion +
		b.ActivityStreak + b.RecentActivity + b.ClientDiversity
	if b.Total < 0 {
		b.Total = 0
	}
	return b
}

func projectPoints(projects []CompletedProject, w Weights) int {
	ordered := make([]CompletedProject, len(projects))
	copy(ordered, projects)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CompletedAt.Equal(ordered[j].CompletedAt) {
			return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
		}
		return ordered[i].ProjectID.String() < ordered[j].ProjectID.String()
	})

	perClient := make(map[uuid.UUID]int)
	total := 0
	for _, p := range ordered {
		mean := MeanRating(p.Ratings)
		total += w.ProjectCompletion + ratingPoints(mean, w.ProjectRatingFactor)

		if p.Deadline != nil {
			if !p.CompletedAt.After(*p.Deadline) {
				total += w.OnTimeBonus
			}
			if p.CompletedAt.Before(*p.Deadline) && mean >= w.EarlyDeliveryMinRate {
				total += w.EarlyDeliveryBonus
			}
		}

		prior := perClient[p.ClientID]
		total += capped(prior*w.RepeatClientStep, w.RepeatClientCap)
		perClient[p.ClientID] = prior + 1
	}
	return total
}

func obspPoints(obsps []CompletedOBSP, w Weights) int {
	total := 0
	for _, o := range obsps {
		total += w.OBSPCompletion + ratingPoints(MeanRating(o.Ratings), w.OBSPRatingFactor)
	}
	return total
}

func bankPoints(bank *BankStatus, w Weights) int {
	if bank == nil {
		return 0
	}
	if bank.Verified {
		return w.BankPresent + w.BankVerified
	}
	return w.BankPresent
}

func documentPoints(docs []DocumentStatus, w Weights) int {
	total := 0
	for _, d := range docs {
		total += w.DocumentUploaded
		if d.Verified {
			total += w.DocumentVerified
		}
	}
	return total
}

// MeanRating is 0 for an empty slice.
func MeanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

func ratingPoints(mean float64, factor int) int {
	return int(math.Round(mean * float64(factor)))
}

func activityTimes(projects []CompletedProject, obsps []CompletedOBSP) []time.Time {
	out := make([]time.Time, 0, len(projects)+len(obsps))
	for _, p := range projects {
		out = append(out, p.CompletedAt)
	}
	for _, o := range obsps {
		out = append(out, o.CompletedAt)
	}
	return out
}

// weekStart truncates t to Monday 00:00 UTC of its ISO week.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// weekStreak counts consecutive active weeks ending at the current week.
// A quiet current week does not break a streak that ran through last week.
func weekStreak(activity []time.Time, now time.Time) int {
	weeks := make(map[time.Time]struct{}, len(activity))
	for _, t := range activity {
		if t.After(now) {
			continue
		}
		weeks[weekStart(t)] = struct{}{}
	}

	cursor := weekStart(now)
	if _, ok := weeks[cursor]; !ok {
		cursor = cursor.AddDate(0, 0, -7)
	}
	streak := 0
	for {
		if _, ok := weeks[cursor]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -7)
	}
}

func countSince(activity []time.Time, now time.Time, window time.Duration) int {
	from := now.Add(-window)
	n := 0
	for _, t := range activity {
		if t.After(from) && !t.After(now) {
			n++
		}
	}
	return n
}

func distinctClients(projects []CompletedProject, obsps []CompletedOBSP) int {
	clients := make(map[uuid.UUID]struct{})
	for _, p := range projects {
		clients[p.ClientID] = struct{}{}
	}
	for _, o := range obsps {
		if o.ClientID != uuid.Nil {
			clients[o.ClientID] = struct{}{}
		}
	}
	return len(clients)
}

func capped(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}
