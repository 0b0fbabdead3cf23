package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelworks/hms-api/internal/models"
	"github.com/hostelworks/hms-api/internal/service"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
	"github.com/hostelworks/hms-api/pkg/response"
)

// RoomHandler exposes room inventory and occupancy endpoints.
type RoomHandler struct {
	rooms     *service.RoomService
	occupancy *service.OccupancyService
}

// NewRoomHandler constructs RoomHandler.
func NewRoomHandler(rooms *service.RoomService, occupancy *service.OccupancyService) *RoomHandler {
	return &RoomHandler{rooms: rooms, occupancy: occupancy}
}

func roomNoParam(c *gin.Context) (int, error) {
	roomNo, err := strconv.Atoi(c.Param("no"))
	if err != nil || roomNo < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "room number must be a positive integer")
	}
	return roomNo, nil
}

// List godoc
// @Summary List rooms
// @Tags Rooms
// @Produce json
// @Param type query string false "Filter by room type"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	var filter models.RoomFilter
	filter.RoomType = c.Query("type")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	rooms, pagination, err := h.rooms.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, pagination)
}

// Get godoc
// @Summary Get a room
// @Tags Rooms
// @Produce json
// @Param no path int true "Room number"
// @Success 200 {object} response.Envelope
// @Router /rooms/{no} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	roomNo, err := roomNoParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), roomNo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Occupancy godoc
// @Summary Get a room's live occupancy
// @Tags Rooms
// @Produce json
// @Param no path int true "Room number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rooms/{no}/occupancy [get]
func (h *RoomHandler) Occupancy(c *gin.Context) {
	roomNo, err := roomNoParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	occ, err := h.occupancy.Of(c.Request.Context(), roomNo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occ, nil)
}

// Create godoc
// @Summary Register a room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body service.RoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req service.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// Update godoc
// @Summary Update a room's capacity or type
// @Tags Rooms
// @Accept json
// @Produce json
// @Param no path int true "Room number"
// @Param payload body service.RoomRequest true "Room payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rooms/{no} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	roomNo, err := roomNoParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.RoomNo = roomNo
	room, err := h.rooms.Update(c.Request.Context(), roomNo, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Delete godoc
// @Summary Delete an empty room
// @Tags Rooms
// @Produce json
// @Param no path int true "Room number"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /rooms/{no} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	roomNo, err := roomNoParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.rooms.Delete(c.Request.Context(), roomNo); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
