package dto

import (
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// CreateUserRequest registers a user under a company.
type CreateUserRequest struct {
	Name      string          `json:"name" binding:"required"`
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,min=8"`
	Role      domain.UserRole `json:"role" binding:"required,oneof=ACCOUNTING_ADMIN ACCOUNTING_STAFF CLIENT_ADMIN CLIENT_USER"`
	CompanyID string          `json:"companyID" binding:"required"`
}

// UserResponse is the API shape of a user.
type UserResponse struct {
	UserID    string          `json:"userID"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CompanyID string          `json:"companyID"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToUserResponse maps a domain user to its API shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
