package models

import "github.com/golang-jwt/jwt/v5"

type Claims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller behind a credential.
type Identity struct {
	ID   uint
	Role string
}

func (identity Identity) IsAdmin() bool {
	return identity.Role == RoleAdmin
}
