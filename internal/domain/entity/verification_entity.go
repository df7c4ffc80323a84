package entity

import "time"

// VerifiedStudent models a verified_students row: a parent account
// vouching for a student account. Rows are written once during parent
// registration and never mutated; production reads consume the table
// only through the join that resolves User.VerifiedByParentID, so the
// struct mostly serves in-memory stores and tests that mirror that
// join.
type VerifiedStudent struct {
	ID        string
	ParentID  string
	StudentID string
	CreatedAt time.Time
}
