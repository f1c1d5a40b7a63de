package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AhWirayudha/timesheet/internal/models"
	"github.com/AhWirayudha/timesheet/pkg/postgres"
)

var (
	ErrAlreadyMember  = errors.New("user already belongs to a team")
	ErrNoMembership   = errors.New("user has no team membership")
	ErrMemberNotFound = errors.New("team member not found")
	ErrUserNotFound   = errors.New("user not found")
)

type MemberStorage struct {
	db  *postgres.Postgres
	log *slog.Logger
}

func NewMemberStorage(db *postgres.Postgres, log *slog.Logger) (*MemberStorage, error) {
	if db == nil {
		return nil, errors.New("database cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &MemberStorage{
		db:  db,
		log: log,
	}, nil
}

// AddMember inserts the membership row. The unique constraints on
// team_members (one row per user across all teams) turn any double join
// into ErrAlreadyMember.
func (s *MemberStorage) AddMember(ctx context.Context, teamID, userID int64, role models.Role) (*models.TeamMember, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var member models.TeamMember
	err := exec.QueryRowContext(
		ctx,
		`insert into team_members (team_id, user_id, role) values ($1, $2, $3)
		 returning id, team_id, user_id, role, joined_at`,
		teamID,
		userID,
		role,
	).Scan(&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.JoinedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, fmt.Errorf("add member: %w", ErrAlreadyMember)
		}
		s.log.Error("failed to add member", slog.Any("error", err),
			slog.Int64("team_id", teamID), slog.Int64("user_id", userID))
		return nil, fmt.Errorf("add member: %w", err)
	}
	return &member, nil
}

func (s *MemberStorage) GetMembership(ctx context.Context, userID int64) (*models.Membership, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var m models.Membership
	err := exec.QueryRowContext(
		ctx,
		`select team_id, role from team_members where user_id = $1`,
		userID,
	).Scan(&m.TeamID, &m.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get membership: %w", ErrNoMembership)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

func (s *MemberStorage) GetMember(ctx context.Context, teamID, memberID int64) (*models.TeamMember, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var member models.TeamMember
	err := exec.QueryRowContext(
		ctx,
		`select id, team_id, user_id, role, joined_at from team_members
		 where id = $1 and team_id = $2`,
		memberID,
		teamID,
	).Scan(&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get member: %w", ErrMemberNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &member, nil
}

func (s *MemberStorage) DeleteMember(ctx context.Context, teamID, memberID int64) error {
	exec := getExecer(ctx, s.db.DB)
	res, err := exec.ExecContext(
		ctx,
		`delete from team_members where id = $1 and team_id = $2`,
		memberID,
		teamID,
	)
	if err != nil {
		s.log.Error("failed to delete member", slog.Any("error", err))
		return fmt.Errorf("delete member: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		s.log.Error("failed check rows affected", slog.Any("error", err))
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete member: %w", ErrMemberNotFound)
	}

	return nil
}

func (s *MemberStorage) ListMembers(ctx context.Context, teamID int64) ([]*models.TeamMember, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	rows, err := exec.QueryContext(
		ctx,
		`select tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at, u.name, u.email
		 from team_members tm
		 join users u on u.id = tm.user_id
		 where tm.team_id = $1
		 order by tm.id`,
		teamID,
	)
	if err != nil {
		s.log.Error("failed to list members", slog.Any("error", err))
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []*models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		var name sql.NullString
		var email string
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt, &name, &email); err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		m.User = &models.UserInfo{ID: m.UserID, Name: name.String, Email: email}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

func (s *MemberStorage) CountOwners(ctx context.Context, teamID int64) (int, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var count int
	err := exec.QueryRowContext(
		ctx,
		`select count(*) from team_members where team_id = $1 and role = 'owner'`,
		teamID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}
	return count, nil
}

func (s *MemberStorage) GetUserEmail(ctx context.Context, userID int64) (string, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var email string
	err := exec.QueryRowContext(
		ctx,
		`select email from users where id = $1`,
		userID,
	).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get user email: %w", ErrUserNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get user email: %w", err)
	}
	return email, nil
}
