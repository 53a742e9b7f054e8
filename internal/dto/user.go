package dto

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/zonetrack/apiserver/types"
)

// CreateUserRequest is the payload of POST /api/users.
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"required,phone"`
	Password string          `json:"password" validate:"required,min=6,max=72,passwordlen"`
	Type     *types.UserType `json:"type" validate:"required,gte=0,lte=1"`
}

// UpdateUserRequest is a partial update. Absent, null and empty fields are
// left untouched.
type UpdateUserRequest struct {
	Name     null.String     `json:"name" validate:"omitempty,max=100"`
	Email    null.String     `json:"email" validate:"omitempty,email"`
	Phone    null.String     `json:"phone" validate:"omitempty,phone"`
	Password null.String     `json:"password" validate:"omitempty,min=6,max=72,passwordlen"`
	Type     *types.UserType `json:"type" validate:"omitempty,gte=0,lte=1"`
}

// Present returns the trimmed value of s and whether it should be applied.
func Present(s null.String) (string, bool) {
	if !s.Valid {
		return "", false
	}
	v := strings.TrimSpace(s.String)
	return v, v != ""
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Type      types.UserType `json:"type"`
	TypeName  string         `json:"typeName"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func NewUserResponse(u types.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Type:      u.Type,
		TypeName:  u.Type.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserResponses(users []types.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// TokenResponse carries an access token for the authenticated user.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
