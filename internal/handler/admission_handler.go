package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelworks/hms-api/internal/models"
	"github.com/hostelworks/hms-api/internal/service"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
	"github.com/hostelworks/hms-api/pkg/response"
)

type admissionOperations interface {
	Admit(ctx context.Context, req service.AdmitStudentRequest) (*models.Student, error)
	Reassign(ctx context.Context, studentID string, req service.ReassignStudentRequest) (*models.Student, error)
	Release(ctx context.Context, studentID string) error
}

// AdmissionHandler exposes the admit, reassign and release endpoints.
type AdmissionHandler struct {
	admissions admissionOperations
}

// NewAdmissionHandler constructs AdmissionHandler.
func NewAdmissionHandler(admissions admissionOperations) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions}
}

// Admit godoc
// @Summary Admit a student into a room
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body service.AdmitStudentRequest true "Admission payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admissions [post]
func (h *AdmissionHandler) Admit(c *gin.Context) {
	var req service.AdmitStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.admissions.Admit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Reassign godoc
// @Summary Move a student to another room
// @Tags Admissions
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.ReassignStudentRequest true "Reassignment payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/reassign [put]
func (h *AdmissionHandler) Reassign(c *gin.Context) {
	var req service.ReassignStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.admissions.Reassign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Release godoc
// @Summary Remove a student, vacating their room slot
// @Tags Admissions
// @Produce json
// @Param id path string true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *AdmissionHandler) Release(c *gin.Context) {
	if err := h.admissions.Release(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
