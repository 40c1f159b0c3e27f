package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/ejurnal-backend/internal/middleware"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/response"
	"github.com/stemsi/ejurnal-backend/internal/service"
	"github.com/stemsi/ejurnal-backend/internal/validator"
)

// TeacherHandler serves the teacher-facing endpoints under /guru.
type TeacherHandler struct {
	scheduleService *service.ScheduleService
	classService    *service.ClassService
	journalService  *service.JournalService
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(scheduleService *service.ScheduleService, classService *service.ClassService, journalService *service.JournalService) *TeacherHandler {
	return &TeacherHandler{
		scheduleService: scheduleService,
		classService:    classService,
		journalService:  journalService,
	}
}

// MySchedule godoc
// GET /api/v1/guru/jadwal-saya
// Lists the caller's slots by weekday then start time.
func (h *TeacherHandler) MySchedule(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	slots, err := h.scheduleService.ListMine(c.Request.Context(), identity)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jadwal": slots})
}

// ClassesByNIP godoc
// GET /api/v1/guru/kelas/:key
// :key is the teacher's NIP.
func (h *TeacherHandler) ClassesByNIP(c *gin.Context) {
	result, err := h.scheduleService.ClassesForTeacher(c.Request.Context(), c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// StudentsInClass godoc
// GET /api/v1/guru/kelas/:key/siswa
// :key is the class id. A class without students answers 404.
func (h *TeacherHandler) StudentsInClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("key"))
	if err != nil || classID <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	students, err := h.classService.ListStudents(c.Request.Context(), classID)
	if err != nil {
		fail(c, err)
		return
	}
	if len(students) == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"siswa": students})
}

// SubmitJournal godoc
// POST /api/v1/guru/jurnal
// Stores the session journal and every attendance row atomically.
func (h *TeacherHandler) SubmitJournal(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req model.SubmitJournalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	journal, err := h.journalService.Submit(c.Request.Context(), identity, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"jurnal": journal})
}
