package model

import "time"

// Journal is the record of what was taught in one session. At most one journal
// exists per (ScheduleID, Date).
type Journal struct {
	ID            int       `json:"id_jurnal"`
	ScheduleID    int       `json:"id_jadwal"`
	Date          Date      `json:"tanggal"`
	Topic         string    `json:"materi"`
	ActivityNotes *string   `json:"kegiatan"`
	CreatedAt     time.Time `json:"created_at"`
}

// JournalView is a journal with the names of its teacher, class and subject.
type JournalView struct {
	Journal
	TeacherName string `json:"nama_guru"`
	ClassName   string `json:"nama_kelas"`
	SubjectName string `json:"nama_mapel"`
}

// AttendanceEntry is one row of a journal submission.
type AttendanceEntry struct {
	StudentID int              `json:"id_siswa" binding:"required,min=1"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=H S I A"`
}

// SubmitJournalRequest is the teacher payload that records a session.
type SubmitJournalRequest struct {
	ScheduleID    int               `json:"id_jadwal" binding:"required,min=1"`
	Date          string            `json:"tanggal" binding:"required,ymd"`
	Topic         string            `json:"materi" binding:"required,max=500"`
	ActivityNotes *string           `json:"kegiatan" binding:"omitempty,max=2000"`
	Attendance    []AttendanceEntry `json:"absensiSiswa" binding:"required,min=1,dive"`
}

// JournalEvent is published after a journal and its attendance are committed.
type JournalEvent struct {
	JournalID   int          `json:"id_jurnal"`
	ScheduleID  int          `json:"id_jadwal"`
	Date        Date         `json:"tanggal"`
	Topic       string       `json:"materi"`
	TeacherID   int          `json:"id_guru"`
	TeacherName string       `json:"nama_guru"`
	Counts      StatusCounts `json:"rekap"`
	SubmittedAt time.Time    `json:"submitted_at"`
}
