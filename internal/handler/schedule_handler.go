package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/response"
	"github.com/stemsi/ejurnal-backend/internal/service"
	"github.com/stemsi/ejurnal-backend/internal/validator"
)

// ScheduleHandler handles admin schedule (jadwal) management.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// List godoc
// GET /api/v1/admin/jadwal
func (h *ScheduleHandler) List(c *gin.Context) {
	slots, err := h.scheduleService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jadwal": slots})
}

// ListByTeacher godoc
// GET /api/v1/admin/jadwal/guru/:id
func (h *ScheduleHandler) ListByTeacher(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	slots, err := h.scheduleService.ListByTeacher(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jadwal": slots})
}

// Create godoc
// POST /api/v1/admin/jadwal
// Rejects slots that clash with the same teacher or class on that day.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req model.ScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	slot, err := h.scheduleService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"jadwal": slot})
}

// Delete godoc
// DELETE /api/v1/admin/jadwal/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "jadwal berhasil dihapus"})
}
