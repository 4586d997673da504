package httpapi

import (
	"fmt"
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

type memberFixRequest struct {
	TeamID     string `json:"team_id" validate:"required"`
	MemberID   string `json:"member_id" validate:"required"`
	FullName   string `json:"full_name" validate:"required,max=200"`
	NationalID string `json:"national_id"`
	Role       string `json:"role" validate:"required"`
	BirthDate  string `json:"birth_date"`
	CityID     string `json:"city_id"`
}

type leagueFixRequest struct {
	TeamID      string `json:"team_id" validate:"required"`
	LeagueOneID string `json:"league_one_id" validate:"required"`
	LeagueTwoID string `json:"league_two_id"`
}

type submitFixesRequest struct {
	Members []memberFixRequest `json:"members" validate:"dive"`
	Leagues []leagueFixRequest `json:"leagues" validate:"dive"`
}

func (h *Handler) GetProblems(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProblems")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	report, err := h.auditService.AuditClient(ctx, principal.ClientID)
	if err != nil {
		h.logger.WarnContext(ctx, "audit client failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auditReportToDTO(report))
}

// SubmitFixes applies the supplied corrections and re-runs the audit.
// A clean audit swaps the restricted session for a full one.
func (h *Handler) SubmitFixes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitFixes")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitFixesRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	for _, fix := range req.Leagues {
		if _, err := h.rosterService.SelectLeagues(ctx, usecase.SelectLeaguesInput{
			ClientID:    principal.ClientID,
			TeamID:      fix.TeamID,
			LeagueOneID: fix.LeagueOneID,
			LeagueTwoID: fix.LeagueTwoID,
		}); err != nil {
			h.logger.WarnContext(ctx, "league fix failed", "team_id", fix.TeamID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}
	for _, fix := range req.Members {
		birthDate, err := parseDate(fix.BirthDate)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		if _, err := h.rosterService.UpdateMember(ctx, usecase.UpsertMemberInput{
			ClientID:   principal.ClientID,
			TeamID:     fix.TeamID,
			MemberID:   fix.MemberID,
			FullName:   fix.FullName,
			NationalID: fix.NationalID,
			Role:       fix.Role,
			BirthDate:  birthDate,
			CityID:     fix.CityID,
		}); err != nil {
			h.logger.WarnContext(ctx, "member fix failed", "team_id", fix.TeamID, "member_id", fix.MemberID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	result, err := h.resolutionService.Resolve(ctx, principal.ClientID, tokenFromContext(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "resolve failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loginResultToDTO(result))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Logout")
	defer span.End()

	if err := h.resolutionService.Logout(ctx, tokenFromContext(ctx)); err != nil {
		h.logger.WarnContext(ctx, "logout failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "logged_out"})
}
