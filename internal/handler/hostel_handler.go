package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelworks/hms-api/internal/service"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
	"github.com/hostelworks/hms-api/pkg/response"
)

// HostelHandler exposes hostel building endpoints.
type HostelHandler struct {
	hostels *service.HostelService
}

// NewHostelHandler constructs HostelHandler.
func NewHostelHandler(hostels *service.HostelService) *HostelHandler {
	return &HostelHandler{hostels: hostels}
}

func hostelIDParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "hostel id must be a positive integer")
	}
	return id, nil
}

// List godoc
// @Summary List hostels
// @Tags Hostels
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hostels [get]
func (h *HostelHandler) List(c *gin.Context) {
	hostels, err := h.hostels.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hostels, nil)
}

// Get godoc
// @Summary Get a hostel
// @Tags Hostels
// @Produce json
// @Param id path int true "Hostel ID"
// @Success 200 {object} response.Envelope
// @Router /hostels/{id} [get]
func (h *HostelHandler) Get(c *gin.Context) {
	id, err := hostelIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	hostel, err := h.hostels.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hostel, nil)
}

// Create godoc
// @Summary Register a hostel
// @Tags Hostels
// @Accept json
// @Produce json
// @Param payload body service.HostelRequest true "Hostel payload"
// @Success 201 {object} response.Envelope
// @Router /hostels [post]
func (h *HostelHandler) Create(c *gin.Context) {
	var req service.HostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	hostel, err := h.hostels.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hostel)
}

// Update godoc
// @Summary Rename a hostel
// @Tags Hostels
// @Accept json
// @Produce json
// @Param id path int true "Hostel ID"
// @Param payload body service.HostelRequest true "Hostel payload"
// @Success 200 {object} response.Envelope
// @Router /hostels/{id} [put]
func (h *HostelHandler) Update(c *gin.Context) {
	id, err := hostelIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.HostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	hostel, err := h.hostels.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hostel, nil)
}

// Delete godoc
// @Summary Delete a hostel without residents
// @Tags Hostels
// @Produce json
// @Param id path int true "Hostel ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /hostels/{id} [delete]
func (h *HostelHandler) Delete(c *gin.Context) {
	id, err := hostelIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.hostels.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
