package model

import "time"

// Subject represents a taught subject (mata pelajaran).
type Subject struct {
	ID        int       `json:"id_mapel"`
	Name      string    `json:"nama_mapel"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubjectRequest is the payload for creating or updating a subject.
type SubjectRequest struct {
	Name string `json:"nama_mapel" binding:"required,min=2,max=100"`
}
