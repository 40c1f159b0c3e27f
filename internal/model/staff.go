package model

import "time"

// Staff is a teacher or principal account keyed by NIP.
type Staff struct {
	ID           int       `json:"id_guru"`
	NIP          string    `json:"nip"`
	FullName     string    `json:"nama_lengkap"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsHomeroom   bool      `json:"is_walikelas"`
	MajorID      *int      `json:"id_jurusan"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffLoginRequest is the payload for teacher and principal authentication.
type StaffLoginRequest struct {
	NIP      string `json:"nip" binding:"required,max=30"`
	Password string `json:"password" binding:"required,max=128"`
}

// StaffProfile is the public part of a staff account returned on login.
type StaffProfile struct {
	ID   int    `json:"id"`
	NIP  string `json:"nip"`
	Name string `json:"nama"`
	Role Role   `json:"role"`
}

// StaffLoginResponse is returned after successful staff login.
type StaffLoginResponse struct {
	Token string       `json:"token"`
	User  StaffProfile `json:"user"`
}

// RegisterStaffRequest is the admin payload for creating a teacher or principal.
type RegisterStaffRequest struct {
	NIP        string `json:"nip" binding:"required,min=1,max=30"`
	FullName   string `json:"nama_lengkap" binding:"required,min=2,max=100"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
	Role       Role   `json:"role" binding:"required,oneof=guru kepsek"`
	IsHomeroom bool   `json:"is_walikelas"`
	MajorID    *int   `json:"id_jurusan" binding:"omitempty,min=1"`
}
