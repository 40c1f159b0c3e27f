package model

import "time"

// Gender is stored as a single letter.
type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

// Student is an enrolled student. ClassID can change when students are redistributed.
type Student struct {
	ID        int       `json:"id_siswa"`
	NIS       string    `json:"nis"`
	FullName  string    `json:"nama_lengkap"`
	Gender    Gender    `json:"jenis_kelamin"`
	ClassID   int       `json:"id_kelas"`
	ClassName string    `json:"nama_kelas,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	NIS      string `json:"nis" binding:"required,min=1,max=30"`
	FullName string `json:"nama_lengkap" binding:"required,min=2,max=100"`
	Gender   Gender `json:"jenis_kelamin" binding:"required,oneof=L P"`
	ClassID  int    `json:"id_kelas" binding:"required,min=1"`
}

// ClassAssignment moves a student into a class.
type ClassAssignment struct {
	StudentID int
	ClassID   int
}
