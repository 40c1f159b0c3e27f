package model

import "time"

// Class represents a class group (kelas) such as "XI TKJ 2".
type Class struct {
	ID                int       `json:"id_kelas"`
	Name              string    `json:"nama_kelas"`
	MajorID           int       `json:"id_jurusan"`
	MajorName         string    `json:"nama_jurusan,omitempty"`
	HomeroomTeacherID *int      `json:"id_wali_kelas"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	Name              string `json:"nama_kelas" binding:"required,min=1,max=50"`
	MajorID           int    `json:"id_jurusan" binding:"required,min=1"`
	HomeroomTeacherID *int   `json:"id_wali_kelas" binding:"omitempty,min=1"`
}
