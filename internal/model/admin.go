package model

import "time"

// Admin is an administrator account. Admins live in their own identity space and
// always carry the "admin" role.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"nama_lengkap"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// AdminProfile is the public part of an admin returned on login.
type AdminProfile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"nama"`
	Role     Role   `json:"role"`
}

// AdminLoginResponse is returned after successful admin login.
type AdminLoginResponse struct {
	Token string       `json:"token"`
	User  AdminProfile `json:"user"`
}
