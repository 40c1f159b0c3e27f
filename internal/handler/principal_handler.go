package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/response"
	"github.com/stemsi/ejurnal-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PrincipalHandler serves the read-only reports under /kepsek.
type PrincipalHandler struct {
	reportService *service.ReportService
}

// NewPrincipalHandler creates a new PrincipalHandler.
func NewPrincipalHandler(reportService *service.ReportService) *PrincipalHandler {
	return &PrincipalHandler{reportService: reportService}
}

// Attendance godoc
// GET /api/v1/kepsek/absensi
// Per-session H/S/I/A counts, newest first.
func (h *PrincipalHandler) Attendance(c *gin.Context) {
	rows, err := h.reportService.SessionSummaries(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// JournalSummaries godoc
// GET /api/v1/kepsek/jurnal
func (h *PrincipalHandler) JournalSummaries(c *gin.Context) {
	rows, err := h.reportService.JournalSummaries(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// Journals godoc
// GET /api/v1/kepsek/jurnals
func (h *PrincipalHandler) Journals(c *gin.Context) {
	rows, err := h.reportService.Journals(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// JournalDetail godoc
// GET /api/v1/kepsek/jurnal/:id
func (h *PrincipalHandler) JournalDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.reportService.JournalDetail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Stats godoc
// GET /api/v1/kepsek/statistik
// School totals and today's attendance percentage.
func (h *PrincipalHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.HeadlineStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// WeeklyRecap godoc
// GET /api/v1/kepsek/rekap-mingguan?tanggal=YYYY-MM-DD
// Covers the Monday to Sunday week of tanggal, or of today when omitted.
func (h *PrincipalHandler) WeeklyRecap(c *gin.Context) {
	ref, ok := referenceDate(c)
	if !ok {
		return
	}

	recap, err := h.reportService.WeeklyRecap(c.Request.Context(), ref)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, recap)
}

// ExportWeeklyRecap godoc
// GET /api/v1/kepsek/rekap-mingguan/export?tanggal=YYYY-MM-DD
// Same data as WeeklyRecap as an XLSX download.
func (h *PrincipalHandler) ExportWeeklyRecap(c *gin.Context) {
	ref, ok := referenceDate(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	rng, err := h.reportService.ExportWeeklyRecap(c.Request.Context(), ref, &buf)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("rekap-absensi_%s_%s.xlsx", rng.Start, rng.End)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// referenceDate reads the optional ?tanggal= query, writing INVALID_DATE on failure.
func referenceDate(c *gin.Context) (*model.Date, bool) {
	raw := c.Query("tanggal")
	if raw == "" {
		return nil, true
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		return nil, false
	}
	return &d, true
}
