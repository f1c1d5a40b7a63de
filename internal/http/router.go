package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type router struct {
	teamService       TeamService
	invitationService InvitationService
	log               *slog.Logger
}

func SetupRouter(
	mux *http.ServeMux,
	teamService TeamService,
	invitationService InvitationService,
	log *slog.Logger,
) error {
	if mux == nil {
		return errors.New("mux cannot be nil")
	}
	if teamService == nil {
		return errors.New("team service cannot be nil")
	}
	if invitationService == nil {
		return errors.New("invitation service cannot be nil")
	}
	if log == nil {
		return errors.New("logger cannot be nil")
	}
	r := router{
		teamService:       teamService,
		invitationService: invitationService,
		log:               log,
	}
	mux.HandleFunc("GET /ping", r.panicMiddleware(r.loggingMiddleware(r.ping)))
	mux.HandleFunc("POST /team", r.authenticated(r.createTeam))
	mux.HandleFunc("GET /team", r.authenticated(r.getTeam))
	mux.HandleFunc("PUT /team/settings", r.authenticated(r.updateTeam))
	mux.HandleFunc("DELETE /team/members", r.authenticated(r.removeMember))
	mux.HandleFunc("GET /team/invitations", r.authenticated(r.listTeamInvitations))
	mux.HandleFunc("POST /invitations", r.authenticated(r.invite))
	mux.HandleFunc("GET /invitations", r.authenticated(r.listMyInvitations))
	mux.HandleFunc("POST /invitations/accept", r.authenticated(r.acceptInvitation))
	mux.HandleFunc("DELETE /invitations", r.authenticated(r.declineInvitation))
	mux.HandleFunc("GET /user/membership", r.authenticated(r.getMembership))
	return nil
}

func (rtr *router) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return rtr.panicMiddleware(rtr.loggingMiddleware(rtr.identityMiddleware(next)))
}

func (rtr *router) responseJSON(w http.ResponseWriter, statusCode int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		rtr.log.Error("failed to encode response", slog.Any("error", err))
	}
}
