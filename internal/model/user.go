// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// User represents a registered user account.
//
// We use GitHub OAuth as the identity provider, and — unlike the other
// tables — we adopt the provider's numeric user ID directly as the primary
// key. The OAuth callback upserts this row on every successful login, so a
// user row is guaranteed to exist before any schedule, availability, or
// comment row references it.
//
// WHY ID int64?
// GitHub user IDs are integers (e.g. 1234567). Using int64 avoids overflow
// for large account numbers. Some providers hand out IDs longer than nine
// digits; those are truncated during profile normalization in the auth
// package so they stay comfortably inside the column.
type User struct {
	ID       int64  `json:"userId"   db:"user_id"`  // provider's numeric user ID
	Username string `json:"username" db:"username"` // display name, e.g. "sakif"
}
