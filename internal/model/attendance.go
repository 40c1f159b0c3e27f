package model

// AttendanceStatus is the single-letter attendance code.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "H" // hadir
	StatusSick    AttendanceStatus = "S" // sakit
	StatusExcused AttendanceStatus = "I" // izin
	StatusAbsent  AttendanceStatus = "A" // alpha
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusSick, StatusExcused, StatusAbsent:
		return true
	}
	return false
}

// Attendance is one student's status for one session. Its identity is
// (StudentID, ScheduleID, Date).
type Attendance struct {
	StudentID  int              `json:"id_siswa"`
	ScheduleID int              `json:"id_jadwal"`
	Date       Date             `json:"tanggal"`
	Status     AttendanceStatus `json:"status"`
}

// AttendanceDetail is an attendance row joined with the student it belongs to.
type AttendanceDetail struct {
	StudentID   int              `json:"id_siswa"`
	NIS         string           `json:"nis"`
	StudentName string           `json:"nama_siswa"`
	Status      AttendanceStatus `json:"status"`
}

// StatusCounts tallies attendance statuses.
type StatusCounts struct {
	Present int `json:"H"`
	Sick    int `json:"S"`
	Excused int `json:"I"`
	Absent  int `json:"A"`
	Total   int `json:"total"`
}

// Add records n occurrences of status. Unknown statuses are ignored.
func (c *StatusCounts) Add(status AttendanceStatus, n int) {
	switch status {
	case StatusPresent:
		c.Present += n
	case StatusSick:
		c.Sick += n
	case StatusExcused:
		c.Excused += n
	case StatusAbsent:
		c.Absent += n
	default:
		return
	}
	c.Total += n
}
