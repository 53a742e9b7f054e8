package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// User represents an account in the system.
// Users are hard-deleted, unlike the other entities.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. It is unique across users.
	Email string `json:"email" db:"email"`

	// Phone is the user's contact phone number.
	Phone string `json:"phone" db:"phone"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Type is the user's role on the floor.
	Type UserType `json:"type" db:"type"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserType is the role of a user. It is stored and transmitted as an integer.
type UserType int

// Supported user types.
const (
	// UserTypeWorker is a regular floor worker.
	UserTypeWorker UserType = iota

	// UserTypeSupervisor supervises workers and zones.
	UserTypeSupervisor
)

// String returns the name of the user type used in API responses.
func (t UserType) String() string {
	switch t {
	case UserTypeWorker:
		return "Worker"
	case UserTypeSupervisor:
		return "Supervisor"
	default:
		return strconv.Itoa(int(t))
	}
}

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeWorker || t == UserTypeSupervisor
}

// ParseUserType accepts either the numeric value or the case-insensitive name.
func ParseUserType(raw string) (UserType, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		t := UserType(n)
		if !t.Valid() {
			return 0, fmt.Errorf("unknown user type %d", n)
		}
		return t, nil
	}
	for _, t := range []UserType{UserTypeWorker, UserTypeSupervisor} {
		if strings.EqualFold(raw, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown user type %q", raw)
}

// UnmarshalJSON accepts both `1` and `"Supervisor"`.
func (t *UserType) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*t = UserType(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("user type must be a number or a name")
	}
	parsed, err := ParseUserType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
