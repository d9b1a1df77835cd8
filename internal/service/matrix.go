package service

import (
	"github.com/sakif/schedule-arranger/internal/model"
)

// MatrixUser is one row label of the availability matrix.
type MatrixUser struct {
	ID       int64
	Username string
	IsSelf   bool // true iff this is the viewing user
}

// AvailabilityMatrix is the complete user × candidate grid rendered on the
// schedule detail page.
//
// An explicit struct — ordered user list plus a cell mapping — rather than
// a bare map-of-maps, so the render order of rows is part of the value and
// not left to map iteration order.
type AvailabilityMatrix struct {
	Users []MatrixUser
	// Cells maps user ID → candidate ID → availability value. Fully
	// populated: every listed user has an entry for every candidate.
	Cells map[int64]map[int64]int
}

// Value returns the cell for (userID, candidateID), defaulting to absent.
// Convenience for templates.
func (m *AvailabilityMatrix) Value(userID, candidateID int64) int {
	if inner, ok := m.Cells[userID]; ok {
		if v, ok := inner[candidateID]; ok {
			return v
		}
	}
	return model.AvailabilityAbsent
}

// BuildAvailabilityMatrix assembles the grid for a schedule's detail page.
//
// It is a pure transformation over already-fetched data — no I/O, no side
// effects.
//
// USER LIST:
// The viewer always comes first, even with zero recorded rows (they need a
// row of toggle buttons to click). After the viewer, every other user owning
// at least one availability row appears once, in first-encounter order of
// the input rows. The repository orders rows by username then candidate ID,
// so that order is stable for a given data set. Users with no rows who are
// not the viewer have no source to be discovered from and never appear.
//
// CELLS:
// Recorded values are merged first; then every remaining (user, candidate)
// hole in the cross product is filled with the absent default. The fill
// never overwrites a recorded value. Rows pointing at a candidate that does
// not belong to this schedule's candidate list are dropped — the store does
// not enforce that edge, so the builder must.
func BuildAvailabilityMatrix(viewer *model.User, candidates []model.Candidate, rows []model.AvailabilityRow) *AvailabilityMatrix {
	known := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}

	m := &AvailabilityMatrix{
		Users: []MatrixUser{{ID: viewer.ID, Username: viewer.Username, IsSelf: true}},
		Cells: map[int64]map[int64]int{viewer.ID: {}},
	}

	// Merge recorded rows, discovering other users as they appear.
	for _, row := range rows {
		if !known[row.CandidateID] {
			continue
		}
		if _, seen := m.Cells[row.UserID]; !seen {
			m.Users = append(m.Users, MatrixUser{
				ID:       row.UserID,
				Username: row.Username,
				IsSelf:   row.UserID == viewer.ID,
			})
			m.Cells[row.UserID] = map[int64]int{}
		}
		m.Cells[row.UserID][row.CandidateID] = row.Availability.Availability
	}

	// Default-fill the full cross product after all real records are in.
	for _, u := range m.Users {
		for _, c := range candidates {
			if _, ok := m.Cells[u.ID][c.ID]; !ok {
				m.Cells[u.ID][c.ID] = model.AvailabilityAbsent
			}
		}
	}

	return m
}
