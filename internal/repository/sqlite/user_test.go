package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/model"
)

func TestUserUpsertAndGet(t *testing.T) {
	db := newTestDB(t)

	if err := db.Users.Upsert(context.Background(), &model.User{ID: 123456789, Username: "alice"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := db.Users.GetByID(context.Background(), 123456789)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
}

func TestUserUpsert_UpdatesUsername(t *testing.T) {
	db := newTestDB(t)

	seedUser(t, db, 1, "oldname")
	seedUser(t, db, 1, "newname")

	got, err := db.Users.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "newname" {
		t.Errorf("Username = %q, want renamed %q", got.Username, "newname")
	}
	if n := countRows(t, db, "users"); n != 1 {
		t.Errorf("users table has %d rows, want 1", n)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users.GetByID(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}
