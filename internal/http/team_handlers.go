package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AhWirayudha/timesheet/internal/models"
)

type TeamService interface {
	CreateTeam(ctx context.Context, founderID int64, name string) (*models.Team, error)
	UpdateTeam(ctx context.Context, requesterID, teamID int64, name string) (*models.Team, error)
	RemoveMember(ctx context.Context, requesterID, teamID, memberID int64) error
	GetTeam(ctx context.Context, requesterID int64) (*models.TeamResponse, error)
	GetMembership(ctx context.Context, userID int64) (*models.Membership, error)
}

func (rtr *router) createTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	var req models.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rtr.handleError(w, newResponseError(ErrCodeBadRequest, "bad json request"))
		return
	}

	team, err := rtr.teamService.CreateTeam(r.Context(), userID, req.Name)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusCreated, team)
}

func (rtr *router) getTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	team, err := rtr.teamService.GetTeam(r.Context(), userID)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusOK, team)
}

func (rtr *router) updateTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	membership, err := rtr.teamService.GetMembership(r.Context(), userID)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	if membership == nil {
		rtr.handleError(w, newResponseError(ErrCodeNotFound, "resource not found"))
		return
	}

	var req models.UpdateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rtr.handleError(w, newResponseError(ErrCodeBadRequest, "bad json request"))
		return
	}

	team, err := rtr.teamService.UpdateTeam(r.Context(), userID, membership.TeamID, req.Name)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusOK, team)
}

func (rtr *router) removeMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	membership, err := rtr.teamService.GetMembership(r.Context(), userID)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	if membership == nil {
		rtr.handleError(w, newResponseError(ErrCodePermissionDenied, "requester is not a team owner"))
		return
	}

	var req models.RemoveMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rtr.handleError(w, newResponseError(ErrCodeBadRequest, "bad json request"))
		return
	}

	if err := rtr.teamService.RemoveMember(r.Context(), userID, membership.TeamID, req.MemberID); err != nil {
		rtr.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rtr *router) getMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	membership, err := rtr.teamService.GetMembership(r.Context(), userID)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusOK, &models.MembershipResponse{Team: membership})
}
