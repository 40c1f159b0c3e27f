package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/response"
	"github.com/stemsi/ejurnal-backend/internal/service"
	"github.com/stemsi/ejurnal-backend/internal/validator"
)

// ClassHandler handles admin-facing class management (CRUD).
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/v1/admin/kelas
// Lists all classes with their major name.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kelas": classes})
}

// GetClass godoc
// GET /api/v1/admin/kelas/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kelas": class})
}

// CreateClass godoc
// POST /api/v1/admin/kelas
// Creates a new class.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"kelas": class})
}

// UpdateClass godoc
// PUT /api/v1/admin/kelas/:id
// Updates an existing class.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kelas": class})
}

// DeleteClass godoc
// DELETE /api/v1/admin/kelas/:id
// Deletes a class that has no students or schedules.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "kelas berhasil dihapus"})
}
