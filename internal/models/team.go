package models

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

func ValidRole(r Role) bool {
	return r == RoleOwner || r == RoleMember
}

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TeamMember struct {
	ID       int64     `json:"id"`
	TeamID   int64     `json:"teamId"`
	UserID   int64     `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
	User     *UserInfo `json:"user,omitempty"`
}

// Membership is the (team, role) pair a user currently holds. A user has
// at most one.
type Membership struct {
	TeamID int64 `json:"teamId"`
	Role   Role  `json:"role"`
}

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type UpdateTeamRequest struct {
	Name string `json:"name"`
}

type RemoveMemberRequest struct {
	MemberID int64 `json:"memberId"`
}

type TeamResponse struct {
	Team
	TeamMembers []*TeamMember `json:"teamMembers"`
}

type MembershipResponse struct {
	Team *Membership `json:"team"`
}
