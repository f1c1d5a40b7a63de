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
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrInvitationNotPending = errors.New("invitation is not pending")
)

type InvitationStorage struct {
	db  *postgres.Postgres
	log *slog.Logger
}

func NewInvitationStorage(db *postgres.Postgres, log *slog.Logger) (*InvitationStorage, error) {
	if db == nil {
		return nil, errors.New("database cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &InvitationStorage{
		db:  db,
		log: log,
	}, nil
}

func (s *InvitationStorage) CreateInvitation(ctx context.Context, teamID int64, email string, role models.Role, invitedBy int64) (*models.Invitation, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var inv models.Invitation
	err := exec.QueryRowContext(
		ctx,
		`insert into invitations (team_id, email, role, invited_by) values ($1, $2, $3, $4)
		 returning id, team_id, email, role, status, invited_at`,
		teamID,
		email,
		role,
		invitedBy,
	).Scan(&inv.ID, &inv.TeamID, &inv.Email, &inv.Role, &inv.Status, &inv.InvitedAt)
	if err != nil {
		s.log.Error("failed to create invitation", slog.Any("error", err),
			slog.Int64("team_id", teamID))
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	return &inv, nil
}

// GetInvitationForUpdate locks the invitation row for the rest of the
// surrounding transaction. Concurrent accept/decline calls serialize here,
// so exactly one of them sees the pending status.
func (s *InvitationStorage) GetInvitationForUpdate(ctx context.Context, invitationID int64) (*models.Invitation, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var inv models.Invitation
	err := exec.QueryRowContext(
		ctx,
		`select id, team_id, email, role, status, invited_at from invitations
		 where id = $1 for update`,
		invitationID,
	).Scan(&inv.ID, &inv.TeamID, &inv.Email, &inv.Role, &inv.Status, &inv.InvitedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get invitation: %w", ErrInvitationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return &inv, nil
}

// UpdateInvitationStatus flips status from one value to another. The
// from-status guard makes the transition single-shot: once an invitation
// is terminal the update matches zero rows.
func (s *InvitationStorage) UpdateInvitationStatus(ctx context.Context, invitationID int64, from, to models.InvitationStatus) error {
	exec := getExecer(ctx, s.db.DB)
	res, err := exec.ExecContext(
		ctx,
		`update invitations set status = $3 where id = $1 and status = $2`,
		invitationID,
		from,
		to,
	)
	if err != nil {
		s.log.Error("failed to update invitation status", slog.Any("error", err),
			slog.Int64("invitation_id", invitationID))
		return fmt.Errorf("update invitation status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		s.log.Error("failed check rows affected", slog.Any("error", err))
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update invitation status: %w", ErrInvitationNotPending)
	}

	return nil
}

func (s *InvitationStorage) ListPendingByTeam(ctx context.Context, teamID int64) ([]*models.Invitation, error) {
	return s.listPending(
		ctx,
		`where i.team_id = $1 and i.status = 'pending'`,
		teamID,
	)
}

func (s *InvitationStorage) ListPendingByEmail(ctx context.Context, email string) ([]*models.Invitation, error) {
	return s.listPending(
		ctx,
		`where lower(i.email) = lower($1) and i.status = 'pending'`,
		email,
	)
}

func (s *InvitationStorage) listPending(ctx context.Context, where string, arg any) ([]*models.Invitation, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	rows, err := exec.QueryContext(
		ctx,
		`select i.id, i.team_id, i.email, i.role, i.status, i.invited_at, u.id, u.name, u.email
		 from invitations i
		 left join users u on u.id = i.invited_by `+where+` order by i.id`,
		arg,
	)
	if err != nil {
		s.log.Error("failed to list invitations", slog.Any("error", err))
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var inviterID sql.NullInt64
		var inviterName, inviterEmail sql.NullString
		if err := rows.Scan(&inv.ID, &inv.TeamID, &inv.Email, &inv.Role, &inv.Status,
			&inv.InvitedAt, &inviterID, &inviterName, &inviterEmail); err != nil {
			return nil, fmt.Errorf("list invitations: %w", err)
		}
		if inviterID.Valid {
			inv.InvitedBy = &models.UserInfo{
				ID:    inviterID.Int64,
				Name:  inviterName.String,
				Email: inviterEmail.String,
			}
		}
		invitations = append(invitations, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	return invitations, nil
}
