package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/AhWirayudha/timesheet/internal/models"
	"github.com/AhWirayudha/timesheet/pkg/postgres"
)

func newInvitationStorage(t *testing.T) (*InvitationStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pg := &postgres.Postgres{DB: db}
	storage, err := NewInvitationStorage(pg, log)
	if err != nil {
		t.Fatalf("NewInvitationStorage: %v", err)
	}
	return storage, mock
}

func TestInvitationStorage_CreateInvitation_Success(t *testing.T) {
	st, mock := newInvitationStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta("insert into invitations (team_id, email, role, invited_by) values ($1, $2, $3, $4)")).
		WithArgs(int64(1), "bob@x.com", models.RoleMember, int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "email", "role", "status", "invited_at"}).
			AddRow(int64(5), int64(1), "bob@x.com", "member", "pending", time.Now()))

	inv, err := st.CreateInvitation(context.Background(), 1, "bob@x.com", models.RoleMember, 10)
	if err != nil {
		t.Fatalf("CreateInvitation returned err: %v", err)
	}
	if inv.ID != 5 || inv.Status != models.InvitationPending {
		t.Fatalf("unexpected invitation: %+v", inv)
	}
	verifyExpectations(t, mock)
}

func TestInvitationStorage_GetInvitationForUpdate_LocksRow(t *testing.T) {
	st, mock := newInvitationStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta("where id = $1 for update")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "email", "role", "status", "invited_at"}).
			AddRow(int64(5), int64(1), "bob@x.com", "member", "pending", time.Now()))

	inv, err := st.GetInvitationForUpdate(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetInvitationForUpdate returned err: %v", err)
	}
	if inv.TeamID != 1 || inv.Email != "bob@x.com" {
		t.Fatalf("unexpected invitation: %+v", inv)
	}
	verifyExpectations(t, mock)
}

func TestInvitationStorage_GetInvitationForUpdate_NotFound(t *testing.T) {
	st, mock := newInvitationStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta("where id = $1 for update")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "email", "role", "status", "invited_at"}))

	_, err := st.GetInvitationForUpdate(context.Background(), 404)
	if !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound, got %v", err)
	}
	verifyExpectations(t, mock)
}

func TestInvitationStorage_UpdateInvitationStatus_Success(t *testing.T) {
	st, mock := newInvitationStorage(t)
	mock.ExpectExec(regexp.QuoteMeta("update invitations set status = $3 where id = $1 and status = $2")).
		WithArgs(int64(5), models.InvitationPending, models.InvitationAccepted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.UpdateInvitationStatus(context.Background(), 5, models.InvitationPending, models.InvitationAccepted)
	if err != nil {
		t.Fatalf("UpdateInvitationStatus returned err: %v", err)
	}
	verifyExpectations(t, mock)
}

func TestInvitationStorage_UpdateInvitationStatus_AlreadyTerminal(t *testing.T) {
	st, mock := newInvitationStorage(t)
	mock.ExpectExec(regexp.QuoteMeta("update invitations set status = $3 where id = $1 and status = $2")).
		WithArgs(int64(5), models.InvitationPending, models.InvitationDeclined).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.UpdateInvitationStatus(context.Background(), 5, models.InvitationPending, models.InvitationDeclined)
	if !errors.Is(err, ErrInvitationNotPending) {
		t.Fatalf("expected ErrInvitationNotPending, got %v", err)
	}
	verifyExpectations(t, mock)
}

func TestInvitationStorage_ListPendingByTeam(t *testing.T) {
	st, mock := newInvitationStorage(t)
	rows := sqlmock.NewRows([]string{"id", "team_id", "email", "role", "status", "invited_at", "id", "name", "email"}).
		AddRow(int64(5), int64(1), "bob@x.com", "member", "pending", time.Now(), int64(10), "Alice", "alice@x.com").
		AddRow(int64(6), int64(1), "carol@x.com", "owner", "pending", time.Now(), nil, nil, nil)
	mock.ExpectQuery("left join users u on u.id = i.invited_by").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	invitations, err := st.ListPendingByTeam(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPendingByTeam returned err: %v", err)
	}
	if len(invitations) != 2 {
		t.Fatalf("expected 2 invitations, got %d", len(invitations))
	}
	if invitations[0].InvitedBy == nil || invitations[0].InvitedBy.Name != "Alice" {
		t.Fatalf("expected inviter info, got %+v", invitations[0].InvitedBy)
	}
	if invitations[1].InvitedBy != nil {
		t.Fatalf("expected nil inviter for null columns, got %+v", invitations[1].InvitedBy)
	}
	verifyExpectations(t, mock)
}

func TestInvitationStorage_ListPendingByEmail_Empty(t *testing.T) {
	st, mock := newInvitationStorage(t)
	mock.ExpectQuery("lower\\(i.email\\) = lower\\(\\$1\\)").
		WithArgs("bob@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "email", "role", "status", "invited_at", "id", "name", "email"}))

	invitations, err := st.ListPendingByEmail(context.Background(), "bob@x.com")
	if err != nil {
		t.Fatalf("ListPendingByEmail returned err: %v", err)
	}
	if len(invitations) != 0 {
		t.Fatalf("expected no invitations, got %d", len(invitations))
	}
	verifyExpectations(t, mock)
}
