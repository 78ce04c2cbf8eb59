package handlers

import (
	"time"

	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/dimitrije/gigmarket-api/pkg/dto"
)

func toBidResponse(b *models.Bid) dto.BidResponse {
	return dto.BidResponse{
		ID:            b.ID,
		ProjectID:     b.ProjectID,
		FreelancerID:  b.FreelancerID,
		Price:         b.Price,
		Currency:      b.Currency,
		ProposedStart: b.ProposedStart,
		ProposedEnd:   b.ProposedEnd,
		CoverLetter:   b.CoverLetter,
		State:         string(b.State),
		Version:       b.Version,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBidResponses(bids []models.Bid) []dto.BidResponse {
	response := make([]dto.BidResponse, len(bids))
	for i := range bids {
		response[i] = toBidResponse(&bids[i])
	}
	return response
}

func toLogResponse(l *models.BidNegotiationLog) dto.NegotiationLogResponse {
	return dto.NegotiationLogResponse{
		ID:            l.ID,
		BidID:         l.BidID,
		ActorID:       l.ActorID,
		Event:         string(l.Event),
		PreviousState: string(l.PreviousState),
		NewState:      string(l.NewState),
		Note:          l.Note,
		CreatedAt:     l.CreatedAt,
	}
}

func toLogResponses(entries []models.BidNegotiationLog) []dto.NegotiationLogResponse {
	response := make([]dto.NegotiationLogResponse, len(entries))
	for i := range entries {
		response[i] = toLogResponse(&entries[i])
	}
	return response
}

func toTransitionResponse(res *services.TransitionResult) dto.TransitionBidResponse {
	response := dto.TransitionBidResponse{Bid: toBidResponse(res.Bid)}
	if res.Log != nil {
		l := toLogResponse(res.Log)
		response.Log = &l
	}
	if len(res.Cascade) > 0 {
		response.Cascade = toLogResponses(res.Cascade)
	}
	return response
}

// toInvitationResponse reports the status a caller would observe at now, so
// a pending row past its expiry reads as expired.
func toInvitationResponse(inv *models.Invitation, now time.Time) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:              inv.ID,
		TargetType:      inv.TargetType,
		TargetID:        inv.TargetID,
		InvitationType:  string(inv.Type),
		InviterID:       inv.InviterID,
		InviteeID:       inv.InviteeID,
		Message:         inv.Message,
		Status:          string(inv.EffectiveStatus(now)),
		ResponseMessage: inv.ResponseMessage,
		ExpiresAt:       inv.ExpiresAt,
		RespondedAt:     inv.RespondedAt,
		CreatedAt:       inv.CreatedAt,
	}
}

func toProjectResponse(p *models.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Title:       p.Title,
		Budget:      p.Budget,
		Currency:    p.Currency,
		Status:      string(p.Status),
		Deadline:    p.Deadline,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func toOBSPAssignmentResponse(a *models.OBSPAssignment) dto.OBSPAssignmentResponse {
	return dto.OBSPAssignmentResponse{
		ID:           a.ID,
		TemplateID:   a.TemplateID,
		FreelancerID: a.FreelancerID,
		ClientID:     a.ClientID,
		Status:       string(a.Status),
		Deadline:     a.Deadline,
		CompletedAt:  a.CompletedAt,
		CreatedAt:    a.CreatedAt,
	}
}

func toReputationResponse(rep *services.Reputation) dto.ReputationResponse {
	response := dto.ReputationResponse{
		UserID:        rep.UserID,
		Points:        rep.Points,
		Level:         string(rep.Level),
		SubLevel:      rep.SubLevel,
		AverageRating: rep.AverageRating,
		ReviewCount:   rep.ReviewCount,
	}
	if b := rep.Breakdown; b != nil {
		response.Breakdown = &dto.BreakdownResponse{
			Projects:          b.Projects,
			OBSPs:             b.OBSPs,
			Bank:              b.Bank,
			Documents:         b.Documents,
			ProfileCompletion: b.ProfileCompletion,
			ActivityStreak:    b.ActivityStreak,
			RecentActivity:    b.RecentActivity,
			ClientDiversity:   b.ClientDiversity,
			Total:             b.Total,
		}
	}
	return response
}

func toDocumentResponse(d *models.VerificationDocument) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		DocumentType:  d.DocumentType,
		FileReference: d.FileReference,
		Verified:      d.Verified,
		VerifiedAt:    d.VerifiedAt,
		CreatedAt:     d.CreatedAt,
	}
}
