package model

import "time"

// Major represents a school major (jurusan).
type Major struct {
	ID        int       `json:"id_jurusan"`
	Name      string    `json:"nama_jurusan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MajorRequest is the payload for creating or updating a major.
type MajorRequest struct {
	Name string `json:"nama_jurusan" binding:"required,min=2,max=100"`
}
