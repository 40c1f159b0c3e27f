package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/response"
	"github.com/stemsi/ejurnal-backend/internal/service"
	"github.com/stemsi/ejurnal-backend/internal/validator"
)

type MajorHandler struct {
	majorService service.MajorService
}

func NewMajorHandler(majorService service.MajorService) *MajorHandler {
	return &MajorHandler{majorService: majorService}
}

func (h *MajorHandler) List(c *gin.Context) {
	majors, err := h.majorService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jurusan": majors})
}

func (h *MajorHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	major, err := h.majorService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jurusan": major})
}

func (h *MajorHandler) Create(c *gin.Context) {
	var req model.MajorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	major, err := h.majorService.Create(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"jurusan": major})
}

func (h *MajorHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.MajorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	major, err := h.majorService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jurusan": major})
}

func (h *MajorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.majorService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "jurusan berhasil dihapus"})
}
