package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

type Invitation struct {
	ID        int64            `json:"id"`
	TeamID    int64            `json:"teamId"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	InvitedAt time.Time        `json:"invitedAt"`
	Status    InvitationStatus `json:"status"`
	InvitedBy *UserInfo        `json:"invitedBy,omitempty"`
}

type InviteRequest struct {
	TeamID int64  `json:"teamId,omitempty"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

type AcceptInvitationRequest struct {
	InvitationID int64 `json:"invitationId"`
}

type InvitationResponse struct {
	Invitation Invitation `json:"invitation"`
}

type InvitationListResponse struct {
	Invitations []*Invitation `json:"invitations"`
}
