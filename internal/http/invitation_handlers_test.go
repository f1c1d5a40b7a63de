package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AhWirayudha/timesheet/internal/models"
	"github.com/AhWirayudha/timesheet/internal/service"
)

type fakeInvitationService struct {
	inviteFn             func(ctx context.Context, requesterID, teamID int64, email string, role models.Role) (*models.Invitation, error)
	acceptFn             func(ctx context.Context, invitationID, userID int64) (*models.TeamMember, error)
	declineFn            func(ctx context.Context, invitationID, userID int64) error
	listPendingForTeamFn func(ctx context.Context, requesterID, teamID int64) ([]*models.Invitation, error)
	listPendingForUserFn func(ctx context.Context, userID int64) ([]*models.Invitation, error)
}

func (f *fakeInvitationService) Invite(ctx context.Context, requesterID, teamID int64, email string, role models.Role) (*models.Invitation, error) {
	if f.inviteFn == nil {
		return nil, errors.New("not implemented")
	}
	return f.inviteFn(ctx, requesterID, teamID, email, role)
}

func (f *fakeInvitationService) Accept(ctx context.Context, invitationID, userID int64) (*models.TeamMember, error) {
	if f.acceptFn == nil {
		return nil, errors.New("not implemented")
	}
	return f.acceptFn(ctx, invitationID, userID)
}

func (f *fakeInvitationService) Decline(ctx context.Context, invitationID, userID int64) error {
	if f.declineFn == nil {
		return errors.New("not implemented")
	}
	return f.declineFn(ctx, invitationID, userID)
}

func (f *fakeInvitationService) ListPendingForTeam(ctx context.Context, requesterID, teamID int64) ([]*models.Invitation, error) {
	if f.listPendingForTeamFn == nil {
		return nil, errors.New("not implemented")
	}
	return f.listPendingForTeamFn(ctx, requesterID, teamID)
}

func (f *fakeInvitationService) ListPendingForUser(ctx context.Context, userID int64) ([]*models.Invitation, error) {
	if f.listPendingForUserFn == nil {
		return nil, errors.New("not implemented")
	}
	return f.listPendingForUserFn(ctx, userID)
}

func TestInvite_Success(t *testing.T) {
	svc := &fakeInvitationService{
		inviteFn: func(_ context.Context, requesterID, teamID int64, email string, role models.Role) (*models.Invitation, error) {
			if requesterID != 10 || email != "bob@x.com" || role != models.RoleMember {
				t.Fatalf("unexpected invite args: %d %s %s", requesterID, email, role)
			}
			return &models.Invitation{ID: 5, TeamID: teamID, Email: email, Role: role, Status: models.InvitationPending}, nil
		},
	}
	rtr := newTestRouter(nil, svc)

	body := `{"teamId":1,"email":"bob@x.com","role":"member"}`
	req := httptest.NewRequest(http.MethodPost, "/invitations", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	rtr.invite(rec, asUser(req, 10))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var resp models.InvitationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Invitation.ID != 5 || resp.Invitation.Status != models.InvitationPending {
		t.Fatalf("unexpected invitation: %+v", resp.Invitation)
	}
}

func TestInvite_NonOwner(t *testing.T) {
	svc := &fakeInvitationService{
		inviteFn: func(context.Context, int64, int64, string, models.Role) (*models.Invitation, error) {
			return nil, service.ErrPermissionDenied
		},
	}
	rtr := newTestRouter(nil, svc)

	body := `{"teamId":1,"email":"bob@x.com","role":"member"}`
	req := httptest.NewRequest(http.MethodPost, "/invitations", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	rtr.invite(rec, asUser(req, 11))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != ErrCodePermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %s", code)
	}
}

func TestInvite_InvalidEmail(t *testing.T) {
	svc := &fakeInvitationService{
		inviteFn: func(context.Context, int64, int64, string, models.Role) (*models.Invitation, error) {
			return nil, service.ErrInviteValidation
		},
	}
	rtr := newTestRouter(nil, svc)

	body := `{"teamId":1,"email":"nope","role":"member"}`
	req := httptest.NewRequest(http.MethodPost, "/invitations", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	rtr.invite(rec, asUser(req, 10))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != ErrCodeValidation {
		t.Fatalf("expected VALIDATION, got %s", code)
	}
}

func TestAcceptInvitation_Success(t *testing.T) {
	svc := &fakeInvitationService{
		acceptFn: func(_ context.Context, invitationID, userID int64) (*models.TeamMember, error) {
			if invitationID != 5 || userID != 20 {
				t.Fatalf("unexpected accept args: %d %d", invitationID, userID)
			}
			return &models.TeamMember{ID: 2, TeamID: 1, UserID: userID, Role: models.RoleMember}, nil
		},
	}
	rtr := newTestRouter(nil, svc)

	req := httptest.NewRequest(http.MethodPost, "/invitations/accept", bytes.NewBufferString(`{"invitationId":5}`))
	rec := httptest.NewRecorder()

	rtr.acceptInvitation(rec, asUser(req, 20))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var member models.TeamMember
	if err := json.NewDecoder(rec.Body).Decode(&member); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if member.TeamID != 1 || member.UserID != 20 {
		t.Fatalf("unexpected member: %+v", member)
	}
}

func TestAcceptInvitation_AlreadyConsumed(t *testing.T) {
	svc := &fakeInvitationService{
		acceptFn: func(context.Context, int64, int64) (*models.TeamMember, error) {
			return nil, service.ErrInvitationNotPending
		},
	}
	rtr := newTestRouter(nil, svc)

	req := httptest.NewRequest(http.MethodPost, "/invitations/accept", bytes.NewBufferString(`{"invitationId":5}`))
	rec := httptest.NewRecorder()

	rtr.acceptInvitation(rec, asUser(req, 20))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != ErrCodeInvalidState {
		t.Fatalf("expected INVALID_STATE, got %s", code)
	}
}

func TestAcceptInvitation_EmailMismatch(t *testing.T) {
	svc := &fakeInvitationService{
		acceptFn: func(context.Context, int64, int64) (*models.TeamMember, error) {
			return nil, service.ErrEmailMismatch
		},
	}
	rtr := newTestRouter(nil, svc)

	req := httptest.NewRequest(http.MethodPost, "/invitations/accept", bytes.NewBufferString(`{"invitationId":5}`))
	rec := httptest.NewRecorder()

	rtr.acceptInvitation(rec, asUser(req, 21))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != ErrCodeEmailMismatch {
		t.Fatalf("expected EMAIL_MISMATCH, got %s", code)
	}
}

func TestAcceptInvitation_MissingID(t *testing.T) {
	svc := &fakeInvitationService{
		acceptFn: func(context.Context, int64, int64) (*models.TeamMember, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	rtr := newTestRouter(nil, svc)

	req := httptest.NewRequest(http.MethodPost, "/invitations/accept", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	rtr.acceptInvitation(rec, asUser(req, 20))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestDeclineInvitation_Success(t *testing.T) {
	var declinedID int64
	svc := &fakeInvitationService{
		declineFn: func(_ context.Context, invitationID, _ int64) error {
			declinedID = invitationID
			return nil
		},
	}
	rtr := newTestRouter(nil, svc)

	req := httptest.NewRequest(http.MethodDelete, "/invitations?invitationId=5", nil)
	rec := httptest.NewRecorder()

	rtr.declineInvitation(rec, asUser(req, 20))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if declinedID != 5 {
		t.Fatalf("expected invitation 5 declined, got %d", declinedID)
	}
}

func TestDeclineInvitation_MissingID(t *testing.T) {
	svc := &fakeInvitationService{
		declineFn: func(context.Context, int64, int64) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}
	rtr := newTestRouter(nil, svc)

	req := httptest.NewRequest(http.MethodDelete, "/invitations", nil)
	rec := httptest.NewRecorder()

	rtr.declineInvitation(rec, asUser(req, 20))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestListMyInvitations_Success(t *testing.T) {
	svc := &fakeInvitationService{
		listPendingForUserFn: func(context.Context, int64) ([]*models.Invitation, error) {
			return []*models.Invitation{
				{ID: 5, TeamID: 1, Email: "bob@x.com", Role: models.RoleMember, Status: models.InvitationPending},
			}, nil
		},
	}
	rtr := newTestRouter(nil, svc)

	req := httptest.NewRequest(http.MethodGet, "/invitations", nil)
	rec := httptest.NewRecorder()

	rtr.listMyInvitations(rec, asUser(req, 20))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var list []*models.Invitation
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].ID != 5 {
		t.Fatalf("unexpected list: %+v", list)
	}
}
