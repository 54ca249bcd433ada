package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/core/ports"
)

// RideHandler serves the read-only ride catalogue.
type RideHandler struct {
	rides ports.RideService
}

func NewRideHandler(rides ports.RideService) *RideHandler {
	return &RideHandler{rides: rides}
}

// RideTypes lists the distinct ride types.
//
// @Summary      List ride types
// @Tags         rides
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/customer/ride-types [get]
func (h *RideHandler) RideTypes(c echo.Context) error {
	types, err := h.rides.RideTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, "Ride types fetched successfully", types, len(types))
}

// RidesByType lists the rides of one type.
//
// @Summary      List rides by type
// @Tags         rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride  path      string  true  "Ride type"
// @Success      200   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/customer/rides/{ride} [get]
func (h *RideHandler) RidesByType(c echo.Context) error {
	rides, err := h.rides.RidesByType(c.Request().Context(), c.Param("ride"))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, "Rides fetched successfully", rides, len(rides))
}

// Ride returns one ride.
//
// @Summary      Get a ride
// @Tags         rides
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Ride ID"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/customer/ride/{id} [get]
func (h *RideHandler) Ride(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ride, err := h.rides.Ride(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ride details fetched successfully", ride)
}
