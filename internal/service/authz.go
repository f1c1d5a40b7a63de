package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AhWirayudha/timesheet/internal/models"
	"github.com/AhWirayudha/timesheet/internal/storage"
)

type membershipReader interface {
	GetMembership(ctx context.Context, userID int64) (*models.Membership, error)
}

// roleOf resolves the role userID currently holds within teamID, reading
// the membership store rather than anything the caller claims. Returns the
// empty role when the user has no membership in that team. Mutating paths
// call this inside their transaction so the answer reflects the state the
// mutation will commit against.
func roleOf(ctx context.Context, members membershipReader, userID, teamID int64) (models.Role, error) {
	m, err := members.GetMembership(ctx, userID)
	if errors.Is(err, storage.ErrNoMembership) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("role of user %d: %w", userID, err)
	}
	if m.TeamID != teamID {
		return "", nil
	}
	return m.Role, nil
}
