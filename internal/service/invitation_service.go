package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/AhWirayudha/timesheet/internal/models"
	"github.com/AhWirayudha/timesheet/internal/storage"
)

var (
	ErrInviteValidation     = errors.New("validation error")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrInvitationNotPending = errors.New("invitation is no longer pending")
	ErrEmailMismatch        = errors.New("invitation is addressed to a different email")
)

type InvitationRepository interface {
	CreateInvitation(ctx context.Context, teamID int64, email string, role models.Role, invitedBy int64) (*models.Invitation, error)
	GetInvitationForUpdate(ctx context.Context, invitationID int64) (*models.Invitation, error)
	UpdateInvitationStatus(ctx context.Context, invitationID int64, from, to models.InvitationStatus) error
	ListPendingByTeam(ctx context.Context, teamID int64) ([]*models.Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]*models.Invitation, error)
}

type InvitationMemberRepository interface {
	AddMember(ctx context.Context, teamID, userID int64, role models.Role) (*models.TeamMember, error)
	GetMembership(ctx context.Context, userID int64) (*models.Membership, error)
	GetUserEmail(ctx context.Context, userID int64) (string, error)
}

type InvitationTeamRepository interface {
	GetTeam(ctx context.Context, teamID int64) (*models.Team, error)
}

type InvitationService struct {
	tx          txManager
	invitations InvitationRepository
	members     InvitationMemberRepository
	teams       InvitationTeamRepository
	notifier    Notifier
	log         *slog.Logger
}

func NewInvitationService(
	tx txManager,
	invitations InvitationRepository,
	members InvitationMemberRepository,
	teams InvitationTeamRepository,
	notifier Notifier,
	log *slog.Logger,
) (*InvitationService, error) {
	if tx == nil {
		return nil, errors.New("tx manager cannot be nil")
	}
	if invitations == nil {
		return nil, errors.New("invitations repository cannot be nil")
	}
	if members == nil {
		return nil, errors.New("members repository cannot be nil")
	}
	if teams == nil {
		return nil, errors.New("teams repository cannot be nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &InvitationService{
		tx:          tx,
		invitations: invitations,
		members:     members,
		teams:       teams,
		notifier:    notifier,
		log:         log,
	}, nil
}

// Invite creates a pending invitation on behalf of a team owner. A zero
// teamID means "the requester's own team". The notification event is
// emitted after the transaction commits; a failed send never revokes the
// invitation.
func (s *InvitationService) Invite(ctx context.Context, requesterID, teamID int64, email string, role models.Role) (*models.Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInviteValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is not valid", ErrInviteValidation)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be owner or member", ErrInviteValidation)
	}

	var (
		createdInvitation *models.Invitation
		teamName          string
	)
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		if teamID == 0 {
			membership, err := s.members.GetMembership(ctx, requesterID)
			if err != nil {
				if errors.Is(err, storage.ErrNoMembership) {
					return ErrPermissionDenied
				}
				return fmt.Errorf("resolve requester team: %w", err)
			}
			teamID = membership.TeamID
		}

		team, err := s.teams.GetTeam(ctx, teamID)
		if err != nil {
			if errors.Is(err, storage.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("get team: %w", err)
		}

		requesterRole, err := roleOf(ctx, s.members, requesterID, teamID)
		if err != nil {
			return err
		}
		if requesterRole != models.RoleOwner {
			return ErrPermissionDenied
		}

		inv, err := s.invitations.CreateInvitation(ctx, teamID, email, role, requesterID)
		if err != nil {
			return fmt.Errorf("create invitation: %w", err)
		}
		createdInvitation = inv
		teamName = team.Name
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrTeamNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("invite transaction: %w", err)
		}
	}

	if err := s.notifier.NotifyInvitationIssued(ctx, InvitationIssued{
		InvitationID: createdInvitation.ID,
		Email:        createdInvitation.Email,
		TeamName:     teamName,
		Role:         createdInvitation.Role,
	}); err != nil {
		s.log.Warn("failed to notify invitation",
			slog.Any("error", err),
			slog.Int64("invitation_id", createdInvitation.ID))
	}

	return createdInvitation, nil
}

// Accept consumes a pending invitation and joins the accepting user to
// its team. Status flip and membership insert share one transaction: if
// the user cannot join (already on a team), the invitation stays pending.
func (s *InvitationService) Accept(ctx context.Context, invitationID, userID int64) (*models.TeamMember, error) {
	var joined *models.TeamMember
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		inv, err := s.invitations.GetInvitationForUpdate(ctx, invitationID)
		if err != nil {
			if errors.Is(err, storage.ErrInvitationNotFound) {
				return ErrInvitationNotFound
			}
			return fmt.Errorf("get invitation: %w", err)
		}
		if inv.Status != models.InvitationPending {
			return ErrInvitationNotPending
		}

		email, err := s.members.GetUserEmail(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("get user email: %w", err)
		}
		if !strings.EqualFold(email, inv.Email) {
			return ErrEmailMismatch
		}

		if err := s.invitations.UpdateInvitationStatus(ctx, invitationID, models.InvitationPending, models.InvitationAccepted); err != nil {
			if errors.Is(err, storage.ErrInvitationNotPending) {
				return ErrInvitationNotPending
			}
			return fmt.Errorf("accept invitation: %w", err)
		}

		member, err := s.members.AddMember(ctx, inv.TeamID, userID, inv.Role)
		if err != nil {
			if errors.Is(err, storage.ErrAlreadyMember) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("join team: %w", err)
		}
		joined = member
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvitationNotFound),
			errors.Is(err, ErrInvitationNotPending),
			errors.Is(err, ErrUserNotFound),
			errors.Is(err, ErrEmailMismatch),
			errors.Is(err, ErrAlreadyMember):
			return nil, err
		default:
			return nil, fmt.Errorf("accept transaction: %w", err)
		}
	}
	return joined, nil
}

// Decline marks a pending invitation declined. Same lookup and email
// rules as Accept, no membership side effect.
func (s *InvitationService) Decline(ctx context.Context, invitationID, userID int64) error {
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		inv, err := s.invitations.GetInvitationForUpdate(ctx, invitationID)
		if err != nil {
			if errors.Is(err, storage.ErrInvitationNotFound) {
				return ErrInvitationNotFound
			}
			return fmt.Errorf("get invitation: %w", err)
		}
		if inv.Status != models.InvitationPending {
			return ErrInvitationNotPending
		}

		email, err := s.members.GetUserEmail(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("get user email: %w", err)
		}
		if !strings.EqualFold(email, inv.Email) {
			return ErrEmailMismatch
		}

		if err := s.invitations.UpdateInvitationStatus(ctx, invitationID, models.InvitationPending, models.InvitationDeclined); err != nil {
			if errors.Is(err, storage.ErrInvitationNotPending) {
				return ErrInvitationNotPending
			}
			return fmt.Errorf("decline invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvitationNotFound),
			errors.Is(err, ErrInvitationNotPending),
			errors.Is(err, ErrUserNotFound),
			errors.Is(err, ErrEmailMismatch):
			return err
		default:
			return fmt.Errorf("decline transaction: %w", err)
		}
	}
	return nil
}

// ListPendingForTeam returns the open invitations of a team, owner only.
func (s *InvitationService) ListPendingForTeam(ctx context.Context, requesterID, teamID int64) ([]*models.Invitation, error) {
	role, err := roleOf(ctx, s.members, requesterID, teamID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleOwner {
		return nil, ErrPermissionDenied
	}

	invitations, err := s.invitations.ListPendingByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list pending by team: %w", err)
	}
	if invitations == nil {
		invitations = make([]*models.Invitation, 0)
	}
	return invitations, nil
}

// ListPendingForUser returns invitations addressed to the user's email.
func (s *InvitationService) ListPendingForUser(ctx context.Context, userID int64) ([]*models.Invitation, error) {
	email, err := s.members.GetUserEmail(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user email: %w", err)
	}

	invitations, err := s.invitations.ListPendingByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list pending by email: %w", err)
	}
	if invitations == nil {
		invitations = make([]*models.Invitation, 0)
	}
	return invitations, nil
}
