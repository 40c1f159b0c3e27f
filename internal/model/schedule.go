package model

import "time"

// Weekday is the Indonesian day name used by schedules.
type Weekday string

const (
	Monday    Weekday = "Senin"
	Tuesday   Weekday = "Selasa"
	Wednesday Weekday = "Rabu"
	Thursday  Weekday = "Kamis"
	Friday    Weekday = "Jumat"
	Saturday  Weekday = "Sabtu"
	Sunday    Weekday = "Minggu"
)

// Weekdays lists the school week in calendar order starting on Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Order returns the position of w in the week (Senin = 1), or 0 when unknown.
func (w Weekday) Order() int {
	for i, d := range Weekdays {
		if d == w {
			return i + 1
		}
	}
	return 0
}

// Schedule is a recurring weekly teaching slot (jadwal).
// StartTime and EndTime are "HH:MM" strings, which compare correctly as text.
type Schedule struct {
	ID          int       `json:"id_jadwal"`
	Day         Weekday   `json:"hari"`
	StartTime   string    `json:"jam_mulai"`
	EndTime     string    `json:"jam_selesai"`
	TeacherID   int       `json:"id_guru"`
	ClassID     int       `json:"id_kelas"`
	SubjectID   int       `json:"id_mapel"`
	TeacherName string    `json:"nama_guru,omitempty"`
	ClassName   string    `json:"nama_kelas,omitempty"`
	SubjectName string    `json:"nama_mapel,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Overlaps reports whether two slots on the same day share any minute.
func (s *Schedule) Overlaps(other *Schedule) bool {
	return s.Day == other.Day && s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// ScheduleRequest is the admin payload for creating a slot.
type ScheduleRequest struct {
	Day       Weekday `json:"hari" binding:"required,oneof=Senin Selasa Rabu Kamis Jumat Sabtu Minggu"`
	StartTime string  `json:"jam_mulai" binding:"required,hhmm"`
	EndTime   string  `json:"jam_selesai" binding:"required,hhmm"`
	TeacherID int     `json:"id_guru" binding:"required,min=1"`
	ClassID   int     `json:"id_kelas" binding:"required,min=1"`
	SubjectID int     `json:"id_mapel" binding:"required,min=1"`
}

// TeacherRef identifies a teacher in read models.
type TeacherRef struct {
	ID   int    `json:"id_guru"`
	Name string `json:"nama"`
	NIP  string `json:"nip"`
}

// TeachingAssignment is one (class, subject) pair a teacher covers, with the slot id
// the teacher submits journals against.
type TeachingAssignment struct {
	ClassID     int    `json:"id_kelas"`
	ClassName   string `json:"nama_kelas"`
	SubjectName string `json:"mapel"`
	ScheduleID  int    `json:"id_jadwal"`
}

// TeacherClasses is the response of the "classes taught by a teacher" lookup.
type TeacherClasses struct {
	Teacher TeacherRef           `json:"guru"`
	Classes []TeachingAssignment `json:"kelas"`
}

// Period renders the slot's time range, e.g. "07:00 - 08:30".
func (s *Schedule) Period() string {
	return s.StartTime + " - " + s.EndTime
}
