package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/AhWirayudha/timesheet/internal/models"
)

// InvitationIssued is handed to the notification sender after an
// invitation is committed. Delivery is best effort.
type InvitationIssued struct {
	InvitationID int64
	Email        string
	TeamName     string
	Role         models.Role
}

type Notifier interface {
	NotifyInvitationIssued(ctx context.Context, event InvitationIssued) error
}

// LogNotifier records invitation events in the log. It stands in for the
// external mailer in environments without one.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) (*LogNotifier, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &LogNotifier{log: log}, nil
}

func (n *LogNotifier) NotifyInvitationIssued(_ context.Context, event InvitationIssued) error {
	n.log.Info("invitation issued",
		slog.Int64("invitation_id", event.InvitationID),
		slog.String("email", event.Email),
		slog.String("team_name", event.TeamName),
		slog.String("role", string(event.Role)),
	)
	return nil
}
