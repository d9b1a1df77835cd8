package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/model"
)

func TestScheduleCreateAndGet(t *testing.T) {
	db := newTestDB(t)

	s := &model.Schedule{Name: "テスト予定1", Memo: "テストメモ1", CreatedBy: 1}
	if err := db.Schedules.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.ID == "" {
		t.Fatal("Create() did not populate the schedule ID")
	}
	if s.UpdatedAt.IsZero() {
		t.Error("Create() did not populate UpdatedAt")
	}

	got, err := db.Schedules.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "テスト予定1" || got.Memo != "テストメモ1" || got.CreatedBy != 1 {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestScheduleGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Schedules.GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestScheduleIDsAreUnique(t *testing.T) {
	db := newTestDB(t)

	id1 := seedSchedule(t, db, 1, "one")
	id2 := seedSchedule(t, db, 1, "two")
	if id1 == id2 {
		t.Errorf("two schedules share ID %s", id1)
	}
}

func TestScheduleListByCreator(t *testing.T) {
	db := newTestDB(t)

	first := &model.Schedule{Name: "older", CreatedBy: 1}
	if err := db.Schedules.Create(context.Background(), first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// Make the second schedule's updated_at strictly later.
	time.Sleep(10 * time.Millisecond)
	second := &model.Schedule{Name: "newer", CreatedBy: 1}
	if err := db.Schedules.Create(context.Background(), second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	seedSchedule(t, db, 2, "someone else's")

	got, err := db.Schedules.ListByCreator(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByCreator() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "newer" || got[1].Name != "older" {
		t.Errorf("order = [%s, %s], want most recently updated first", got[0].Name, got[1].Name)
	}
}

func TestScheduleUpdate(t *testing.T) {
	db := newTestDB(t)

	s := &model.Schedule{Name: "before", Memo: "old memo", CreatedBy: 1}
	if err := db.Schedules.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	created := s.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	s.Name = "after"
	s.Memo = "new memo"
	if err := db.Schedules.Update(context.Background(), s); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.Schedules.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "after" || got.Memo != "new memo" {
		t.Errorf("after update: %+v", got)
	}
	if !got.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt was not bumped: created=%v updated=%v", created, got.UpdatedAt)
	}
}

func TestScheduleUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Schedules.Update(context.Background(), &model.Schedule{ID: "nonexistent-id", Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestScheduleDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, 1, "alice")
	scheduleID := seedSchedule(t, db, 1, "to delete")
	candidateIDs := seedCandidates(t, db, scheduleID, "候補A", "候補B")

	for _, cid := range candidateIDs {
		err := db.Availabilities.Upsert(ctx, &model.Availability{
			CandidateID: cid, UserID: 1, Availability: model.AvailabilityPresent, ScheduleID: scheduleID,
		})
		if err != nil {
			t.Fatalf("seeding availability: %v", err)
		}
	}
	if err := db.Comments.Upsert(ctx, &model.Comment{ScheduleID: scheduleID, UserID: 1, Comment: "コメント"}); err != nil {
		t.Fatalf("seeding comment: %v", err)
	}

	// An unrelated schedule that must survive the cascade.
	otherID := seedSchedule(t, db, 2, "keep me")
	otherCandidates := seedCandidates(t, db, otherID, "候補X")

	if err := db.Schedules.DeleteCascade(ctx, scheduleID); err != nil {
		t.Fatalf("DeleteCascade() error = %v", err)
	}

	if _, err := db.Schedules.GetByID(ctx, scheduleID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("schedule still exists after cascade")
	}
	if n := countRows(t, db, "candidates"); n != 1 {
		t.Errorf("candidates rows = %d, want 1 (only the unrelated schedule's)", n)
	}
	if n := countRows(t, db, "availabilities"); n != 0 {
		t.Errorf("availabilities rows = %d, want 0", n)
	}
	if n := countRows(t, db, "comments"); n != 0 {
		t.Errorf("comments rows = %d, want 0", n)
	}

	if _, err := db.Schedules.GetByID(ctx, otherID); err != nil {
		t.Errorf("unrelated schedule was deleted: %v", err)
	}
	if _, err := db.Candidates.GetByID(ctx, otherCandidates[0]); err != nil {
		t.Errorf("unrelated candidate was deleted: %v", err)
	}
}

func TestScheduleDeleteCascade_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.Schedules.DeleteCascade(context.Background(), "nonexistent-id"); err != nil {
		t.Errorf("DeleteCascade() on missing schedule error = %v, want nil", err)
	}
}
