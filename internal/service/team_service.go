package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AhWirayudha/timesheet/internal/models"
	"github.com/AhWirayudha/timesheet/internal/storage"
)

var (
	ErrTeamValidation   = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyMember    = errors.New("user already belongs to a team")
	ErrTeamNotFound     = errors.New("team not found")
	ErrMemberNotFound   = errors.New("team member not found")
	ErrLastOwner        = errors.New("cannot remove a team owner")
	ErrUserNotFound     = errors.New("user not found")
)

type TeamRepository interface {
	CreateTeam(ctx context.Context, name string) (*models.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*models.Team, error)
	UpdateTeamName(ctx context.Context, teamID int64, name string) (*models.Team, error)
}

type MemberRepository interface {
	AddMember(ctx context.Context, teamID, userID int64, role models.Role) (*models.TeamMember, error)
	GetMembership(ctx context.Context, userID int64) (*models.Membership, error)
	GetMember(ctx context.Context, teamID, memberID int64) (*models.TeamMember, error)
	DeleteMember(ctx context.Context, teamID, memberID int64) error
	ListMembers(ctx context.Context, teamID int64) ([]*models.TeamMember, error)
}

type TeamService struct {
	tx      txManager
	teams   TeamRepository
	members MemberRepository
	log     *slog.Logger
}

func NewTeamService(tx txManager, teams TeamRepository, members MemberRepository, log *slog.Logger) (*TeamService, error) {
	if tx == nil {
		return nil, errors.New("tx manager cannot be nil")
	}
	if teams == nil {
		return nil, errors.New("teams repository cannot be nil")
	}
	if members == nil {
		return nil, errors.New("members repository cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &TeamService{
		tx:      tx,
		teams:   teams,
		members: members,
		log:     log,
	}, nil
}

// CreateTeam founds a team. The founder becomes its first owner in the
// same transaction, so a team never exists without one.
func (s *TeamService) CreateTeam(ctx context.Context, founderID int64, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrTeamValidation)
	}

	var createdTeam *models.Team
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		_, err := s.members.GetMembership(ctx, founderID)
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, storage.ErrNoMembership) {
			return fmt.Errorf("check founder membership: %w", err)
		}

		team, err := s.teams.CreateTeam(ctx, name)
		if err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		if _, err := s.members.AddMember(ctx, team.ID, founderID, models.RoleOwner); err != nil {
			if errors.Is(err, storage.ErrAlreadyMember) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("add founder: %w", err)
		}
		createdTeam = team
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyMember):
			return nil, err
		default:
			return nil, fmt.Errorf("create team transaction: %w", err)
		}
	}
	return createdTeam, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, requesterID, teamID int64, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrTeamValidation)
	}

	var updatedTeam *models.Team
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		role, err := roleOf(ctx, s.members, requesterID, teamID)
		if err != nil {
			return err
		}
		if role != models.RoleOwner {
			return ErrPermissionDenied
		}

		team, err := s.teams.UpdateTeamName(ctx, teamID, name)
		if err != nil {
			if errors.Is(err, storage.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("update team: %w", err)
		}
		updatedTeam = team
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrTeamNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("update team transaction: %w", err)
		}
	}
	return updatedTeam, nil
}

// RemoveMember removes a member from the requester's team. Owners cannot
// be removed at all: that keeps every team at one owner or more, and
// covers the sole owner trying to remove their own row.
func (s *TeamService) RemoveMember(ctx context.Context, requesterID, teamID, memberID int64) error {
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		role, err := roleOf(ctx, s.members, requesterID, teamID)
		if err != nil {
			return err
		}
		if role != models.RoleOwner {
			return ErrPermissionDenied
		}

		target, err := s.members.GetMember(ctx, teamID, memberID)
		if err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("get member: %w", err)
		}
		if target.Role == models.RoleOwner {
			return ErrLastOwner
		}

		if err := s.members.DeleteMember(ctx, teamID, memberID); err != nil {
			if errors.Is(err, storage.ErrMemberNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("delete member: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPermissionDenied),
			errors.Is(err, ErrMemberNotFound),
			errors.Is(err, ErrLastOwner):
			return err
		default:
			return fmt.Errorf("remove member transaction: %w", err)
		}
	}
	return nil
}

// GetTeam loads the requester's team with its member roster.
func (s *TeamService) GetTeam(ctx context.Context, requesterID int64) (*models.TeamResponse, error) {
	membership, err := s.members.GetMembership(ctx, requesterID)
	if err != nil {
		if errors.Is(err, storage.ErrNoMembership) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}

	team, err := s.teams.GetTeam(ctx, membership.TeamID)
	if err != nil {
		if errors.Is(err, storage.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}

	members, err := s.members.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = make([]*models.TeamMember, 0)
	}

	return &models.TeamResponse{
		Team:        *team,
		TeamMembers: members,
	}, nil
}

// GetMembership reports the (team, role) pair userID holds, or nil when
// the user is not on any team. Absence is not an error.
func (s *TeamService) GetMembership(ctx context.Context, userID int64) (*models.Membership, error) {
	membership, err := s.members.GetMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNoMembership) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return membership, nil
}
