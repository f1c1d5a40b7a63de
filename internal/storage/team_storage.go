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

var ErrTeamNotFound = errors.New("team not found")

type TeamStorage struct {
	db  *postgres.Postgres
	log *slog.Logger
}

func NewTeamStorage(db *postgres.Postgres, log *slog.Logger) (*TeamStorage, error) {
	if db == nil {
		return nil, errors.New("database cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &TeamStorage{
		db:  db,
		log: log,
	}, nil
}

func (s *TeamStorage) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var team models.Team
	err := exec.QueryRowContext(
		ctx,
		`insert into teams (name) values ($1)
		 returning id, name, created_at, updated_at`,
		name,
	).Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		s.log.Error("failed to create team", slog.Any("error", err))
		return nil, fmt.Errorf("insert team %q: %w", name, err)
	}
	return &team, nil
}

func (s *TeamStorage) GetTeam(ctx context.Context, teamID int64) (*models.Team, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var team models.Team
	err := exec.QueryRowContext(
		ctx,
		`select id, name, created_at, updated_at from teams where id = $1`,
		teamID,
	).Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get team: %w", ErrTeamNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &team, nil
}

func (s *TeamStorage) UpdateTeamName(ctx context.Context, teamID int64, name string) (*models.Team, error) {
	exec := getQueryExecer(ctx, s.db.DB)
	var team models.Team
	err := exec.QueryRowContext(
		ctx,
		`update teams set name = $2, updated_at = now() where id = $1
		 returning id, name, created_at, updated_at`,
		teamID,
		name,
	).Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update team name: %w", ErrTeamNotFound)
	}
	if err != nil {
		s.log.Error("failed to update team name", slog.Any("error", err))
		return nil, fmt.Errorf("update team name: %w", err)
	}
	return &team, nil
}
