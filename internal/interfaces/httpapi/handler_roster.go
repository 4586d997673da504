package httpapi

import (
	"fmt"
	"net/http"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

type createTeamRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	LeagueOneID    string `json:"league_one_id" validate:"required"`
	LeagueTwoID    string `json:"league_two_id"`
	EducationLevel string `json:"education_level" validate:"required"`
}

type selectLeaguesRequest struct {
	LeagueOneID string `json:"league_one_id" validate:"required"`
	LeagueTwoID string `json:"league_two_id"`
}

type memberRequest struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	NationalID string `json:"national_id"`
	Role       string `json:"role" validate:"required"`
	BirthDate  string `json:"birth_date"`
	CityID     string `json:"city_id"`
}

type teamDetailDTO struct {
	Team    teamDTO     `json:"team"`
	Members []memberDTO `json:"members"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createTeamRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	t, err := h.rosterService.CreateTeam(ctx, usecase.CreateTeamInput{
		ClientID:       principal.ClientID,
		Name:           req.Name,
		LeagueOneID:    req.LeagueOneID,
		LeagueTwoID:    req.LeagueTwoID,
		EducationLevel: req.EducationLevel,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(t))
}

func (h *Handler) ListMyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTeams")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teams, err := h.rosterService.ListTeams(ctx, principal.ClientID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "client_id", principal.ClientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	t, members, err := h.rosterService.GetTeam(ctx, principal.ClientID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	memberItems := make([]memberDTO, 0, len(members))
	for _, m := range members {
		memberItems = append(memberItems, memberToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, teamDetailDTO{
		Team:    teamToDTO(t),
		Members: memberItems,
	})
}

func (h *Handler) SelectLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectLeagues")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req selectLeaguesRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	t, err := h.rosterService.SelectLeagues(ctx, usecase.SelectLeaguesInput{
		ClientID:    principal.ClientID,
		TeamID:      teamID,
		LeagueOneID: req.LeagueOneID,
		LeagueTwoID: req.LeagueTwoID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "select leagues failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(t))
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req memberRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	m, err := h.rosterService.AddMember(ctx, usecase.UpsertMemberInput{
		ClientID:   principal.ClientID,
		TeamID:     teamID,
		FullName:   req.FullName,
		NationalID: req.NationalID,
		Role:       req.Role,
		BirthDate:  birthDate,
		CityID:     req.CityID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add member failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, memberToDTO(m))
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req memberRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	memberID := r.PathValue("memberID")
	m, err := h.rosterService.UpdateMember(ctx, usecase.UpsertMemberInput{
		ClientID:   principal.ClientID,
		TeamID:     teamID,
		MemberID:   memberID,
		FullName:   req.FullName,
		NationalID: req.NationalID,
		Role:       req.Role,
		BirthDate:  birthDate,
		CityID:     req.CityID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update member failed", "team_id", teamID, "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberToDTO(m))
}

func (h *Handler) WithdrawMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WithdrawMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	memberID := r.PathValue("memberID")
	if err := h.rosterService.WithdrawMember(ctx, principal.ClientID, teamID, memberID); err != nil {
		h.logger.WarnContext(ctx, "withdraw member failed", "team_id", teamID, "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (h *Handler) WithdrawTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WithdrawTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	if err := h.rosterService.WithdrawTeam(ctx, principal.ClientID, teamID); err != nil {
		h.logger.WarnContext(ctx, "withdraw team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "withdrawn"})
}
