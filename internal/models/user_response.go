package models

type UserResponse struct {
	ID       uint    `json:"id"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
}
