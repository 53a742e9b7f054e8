package types

import "time"

// Record status values. Every entity other than User is soft-deleted by
// flipping its status to StatusDeleted.
const (
	StatusDeleted = 0
	StatusActive  = 1
)

// Entity carries the identity, status flag and audit timestamps shared by
// all soft-deletable records.
type Entity struct {
	// ID is the unique identifier of the record.
	ID int `json:"id" db:"id"`

	// Status is 1 for active records and 0 for soft-deleted ones.
	Status int `json:"status" db:"status"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the record.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the record has not been soft-deleted.
func (e Entity) IsActive() bool {
	return e.Status == StatusActive
}

// IsDeleted reports whether the record has been soft-deleted.
func (e Entity) IsDeleted() bool {
	return e.Status == StatusDeleted
}

// StatusName returns the human-readable status used in API responses.
func (e Entity) StatusName() string {
	if e.IsActive() {
		return "Active"
	}
	return "Deleted"
}
