package dto

import (
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
)

// RegisterUserRequest defines the data for user registration.
type RegisterUserRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Name            string `json:"name" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	Currency        string `json:"currency" binding:"omitempty,iso4217"`
	Phone           string `json:"phone"`
}

// UpdateUserRequest defines the data allowed for updating a user's profile.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Currency    *string `json:"currency" binding:"omitempty,iso4217"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID      string     `json:"userID"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Currency    string     `json:"currency"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Email:       u.Email,
		Name:        u.Name,
		Currency:    u.Currency,
		Phone:       u.Phone,
		DateOfBirth: u.DateOfBirth,
		CreatedAt:   u.CreatedAt,
	}
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse DTO.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}
