package model

// SessionSummary counts statuses of one (date, schedule) session.
type SessionSummary struct {
	ID          int    `json:"id"`
	Date        Date   `json:"tanggal"`
	ScheduleID  int    `json:"id_jadwal"`
	ClassName   string `json:"kelas"`
	SubjectName string `json:"mapel"`
	TeacherName string `json:"guru"`
	Present     int    `json:"hadir"`
	Sick        int    `json:"sakit"`
	Excused     int    `json:"izin"`
	Absent      int    `json:"alpha"`
}

// JournalSummary is one line of the principal's journal list.
type JournalSummary struct {
	ID          int    `json:"id"`
	Date        Date   `json:"tanggal"`
	ClassName   string `json:"kelas"`
	SubjectName string `json:"mapel"`
	TeacherName string `json:"guru"`
	Period      string `json:"jamPelajaran"`
	Topic       string `json:"materi"`
}

// HeadlineCounts are the raw totals behind HeadlineStats.
type HeadlineCounts struct {
	Students     int
	Teachers     int
	Classes      int
	PresentToday int
	RecordsToday int
}

// HeadlineStats is the principal dashboard summary.
type HeadlineStats struct {
	TotalStudents             int `json:"totalSiswa"`
	TotalTeachers             int `json:"totalGuru"`
	TotalClasses              int `json:"totalKelas"`
	AttendancePercentageToday int `json:"persentaseKehadiran"`
}

// StudentStatusCount is the number of records a student has with one status.
type StudentStatusCount struct {
	StudentID int
	Status    AttendanceStatus
	Count     int
}

// DateRange is an inclusive range of days.
type DateRange struct {
	Start Date `json:"mulai"`
	End   Date `json:"selesai"`
}

// StudentRecap is one student's weekly totals.
type StudentRecap struct {
	StudentID   int          `json:"id_siswa"`
	NIS         string       `json:"nis"`
	StudentName string       `json:"nama_siswa"`
	ClassName   string       `json:"nama_kelas"`
	Recap       StatusCounts `json:"rekap"`
}

// WeeklyRecap covers every enrolled student for one Monday to Sunday week.
type WeeklyRecap struct {
	Range DateRange      `json:"rentang_tanggal"`
	Data  []StudentRecap `json:"data"`
}

// JournalDetail is a journal with the attendance recorded in the same session.
type JournalDetail struct {
	Journal    JournalView        `json:"detailJurnal"`
	Attendance []AttendanceDetail `json:"daftarAbsensi"`
}
