package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AhWirayudha/timesheet/internal/models"
)

type InvitationService interface {
	Invite(ctx context.Context, requesterID, teamID int64, email string, role models.Role) (*models.Invitation, error)
	Accept(ctx context.Context, invitationID, userID int64) (*models.TeamMember, error)
	Decline(ctx context.Context, invitationID, userID int64) error
	ListPendingForTeam(ctx context.Context, requesterID, teamID int64) ([]*models.Invitation, error)
	ListPendingForUser(ctx context.Context, userID int64) ([]*models.Invitation, error)
}

func (rtr *router) invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	var req models.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rtr.handleError(w, newResponseError(ErrCodeBadRequest, "bad json request"))
		return
	}

	invitation, err := rtr.invitationService.Invite(r.Context(), userID, req.TeamID, req.Email, req.Role)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusCreated, &models.InvitationResponse{Invitation: *invitation})
}

func (rtr *router) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	var req models.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rtr.handleError(w, newResponseError(ErrCodeBadRequest, "bad json request"))
		return
	}
	if req.InvitationID == 0 {
		rtr.handleError(w, newResponseError(ErrCodeValidation, "invitationId is required"))
		return
	}

	member, err := rtr.invitationService.Accept(r.Context(), req.InvitationID, userID)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusOK, member)
}

func (rtr *router) declineInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	invitationID, err := strconv.ParseInt(r.URL.Query().Get("invitationId"), 10, 64)
	if err != nil || invitationID <= 0 {
		rtr.handleError(w, newResponseError(ErrCodeValidation, "invitationId is required"))
		return
	}

	if err := rtr.invitationService.Decline(r.Context(), invitationID, userID); err != nil {
		rtr.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rtr *router) listMyInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromCtx(r.Context())
	if !ok {
		rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
		return
	}

	invitations, err := rtr.invitationService.ListPendingForUser(r.Context(), userID)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusOK, invitations)
}

func (rtr *router) listTeamInvitations(w http.ResponseWriter, r *http.Request) {
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

	invitations, err := rtr.invitationService.ListPendingForTeam(r.Context(), userID, membership.TeamID)
	if err != nil {
		rtr.handleError(w, err)
		return
	}
	rtr.responseJSON(w, http.StatusOK, invitations)
}
