package models

import (
	"time"
)

const (
	RoleClient   = "client"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"

	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User is owned by the account service. The chat subsystem only reads it.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        *string   `gorm:"unique" json:"email"`
	Phone        string    `gorm:"unique;not null" json:"phone"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	Role         string    `gorm:"not null;default:client" json:"role"`
	Approved     bool      `gorm:"not null;default:false" json:"approved"`
	Status       string    `gorm:"not null;default:active" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     user.Role,
	}
}
