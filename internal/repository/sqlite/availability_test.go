package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/schedule-arranger/internal/model"
)

func TestAvailabilityUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, 1, "alice")
	scheduleID := seedSchedule(t, db, 1, "予定")
	ids := seedCandidates(t, db, scheduleID, "候補A")

	a := &model.Availability{
		CandidateID: ids[0], UserID: 1,
		Availability: model.AvailabilityPresent, ScheduleID: scheduleID,
	}
	if err := db.Availabilities.Upsert(ctx, a); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	rows, err := db.Availabilities.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		t.Fatalf("ListByScheduleID() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1", len(rows))
	}
	if rows[0].Availability.Availability != model.AvailabilityPresent || rows[0].Username != "alice" {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestAvailabilityUpsert_SameCellStaysOneRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, 1, "alice")
	scheduleID := seedSchedule(t, db, 1, "予定")
	ids := seedCandidates(t, db, scheduleID, "候補A")

	for _, value := range []int{model.AvailabilityPresent, model.AvailabilityAbsent, model.AvailabilityUndecided} {
		a := &model.Availability{
			CandidateID: ids[0], UserID: 1, Availability: value, ScheduleID: scheduleID,
		}
		if err := db.Availabilities.Upsert(ctx, a); err != nil {
			t.Fatalf("Upsert(value=%d) error = %v", value, err)
		}
	}

	if n := countRows(t, db, "availabilities"); n != 1 {
		t.Fatalf("availabilities rows = %d, want 1 after repeated toggles", n)
	}

	rows, err := db.Availabilities.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		t.Fatalf("ListByScheduleID() error = %v", err)
	}
	if rows[0].Availability.Availability != model.AvailabilityUndecided {
		t.Errorf("stored value = %d, want last write %d",
			rows[0].Availability.Availability, model.AvailabilityUndecided)
	}
}

func TestAvailabilityList_OrderedByUsernameThenCandidate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// User IDs deliberately run opposite to the alphabetical username order.
	seedUser(t, db, 2, "alice")
	seedUser(t, db, 1, "bob")
	scheduleID := seedSchedule(t, db, 1, "予定")
	ids := seedCandidates(t, db, scheduleID, "候補A", "候補B")

	for _, userID := range []int64{1, 2} {
		for _, cid := range []int64{ids[1], ids[0]} { // insert out of order
			a := &model.Availability{
				CandidateID: cid, UserID: userID,
				Availability: model.AvailabilityPresent, ScheduleID: scheduleID,
			}
			if err := db.Availabilities.Upsert(ctx, a); err != nil {
				t.Fatalf("Upsert() error = %v", err)
			}
		}
	}

	rows, err := db.Availabilities.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		t.Fatalf("ListByScheduleID() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("len = %d, want 4", len(rows))
	}

	want := []struct {
		username    string
		candidateID int64
	}{
		{"alice", ids[0]},
		{"alice", ids[1]},
		{"bob", ids[0]},
		{"bob", ids[1]},
	}
	for i, w := range want {
		if rows[i].Username != w.username || rows[i].CandidateID != w.candidateID {
			t.Errorf("rows[%d] = (%s, %d), want (%s, %d)",
				i, rows[i].Username, rows[i].CandidateID, w.username, w.candidateID)
		}
	}
}

func TestAvailabilityList_ScopedToSchedule(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, 1, "alice")
	first := seedSchedule(t, db, 1, "first")
	second := seedSchedule(t, db, 1, "second")
	firstIDs := seedCandidates(t, db, first, "A")
	secondIDs := seedCandidates(t, db, second, "B")

	for scheduleID, cid := range map[string]int64{first: firstIDs[0], second: secondIDs[0]} {
		a := &model.Availability{
			CandidateID: cid, UserID: 1,
			Availability: model.AvailabilityPresent, ScheduleID: scheduleID,
		}
		if err := db.Availabilities.Upsert(ctx, a); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	rows, err := db.Availabilities.ListByScheduleID(ctx, first)
	if err != nil {
		t.Fatalf("ListByScheduleID() error = %v", err)
	}
	if len(rows) != 1 || rows[0].CandidateID != firstIDs[0] {
		t.Errorf("rows = %+v, want only the first schedule's row", rows)
	}
}
