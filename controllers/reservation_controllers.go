package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
	Location     *time.Location
}

func NewReservationController(rs *services.ReservationService, as *services.AvailabilityService, loc *time.Location) *ReservationController {
	return &ReservationController{Reservations: rs, Availability: as, Location: loc}
}

type reservationRequest struct {
	CustomerID      uint    `json:"customerId"`
	ReservationTime string  `json:"reservationTime"`
	PartySize       int     `json:"partySize"`
	SpecialRequests *string `json:"specialRequests"`
}

// toInput leaves an unparseable time zero; the service rejects it after any
// ownership check.
func (rc *ReservationController) toInput(req reservationRequest) (services.ReservationInput, error) {
	at, err := utils.ParseReservationTime(req.ReservationTime, rc.Location)
	return services.ReservationInput{
		CustomerID:      req.CustomerID,
		ReservationTime: at,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	}, err
}

// GetCustomerReservations -> GET /customer/:customerId/reservations
func (rc *ReservationController) GetCustomerReservations(c *gin.Context) {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	list, err := rc.Reservations.ListForCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondServerError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

// CreateReservation -> POST /reservations
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondReservation(c, http.StatusBadRequest, "Invalid reservation details: "+err.Error(), nil)
		return
	}
	in, err := rc.toInput(req)
	if err != nil {
		respondReservation(c, http.StatusBadRequest, "Invalid reservation details: "+err.Error(), nil)
		return
	}

	result, err := rc.Reservations.Create(c.Request.Context(), in)
	if err != nil {
		respondReservationError(c, err)
		return
	}
	if !result.Booked {
		respondReservation(c, http.StatusOK, "No tables available", nil)
		return
	}
	respondReservation(c, http.StatusCreated, "Reservation created successfully", result.Reservation)
}

// ModifyReservation -> PUT /reservations/:id
func (rc *ReservationController) ModifyReservation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondReservation(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondReservation(c, http.StatusBadRequest, "Invalid reservation details: "+err.Error(), nil)
		return
	}
	in, _ := rc.toInput(req)

	result, err := rc.Reservations.Modify(c.Request.Context(), id, in)
	if err != nil {
		respondReservationError(c, err)
		return
	}
	if !result.Booked {
		respondReservation(c, http.StatusOK, "No tables available for requested time", nil)
		return
	}
	respondReservation(c, http.StatusOK, "Reservation updated successfully", result.Reservation)
}

// CancelReservation -> DELETE /reservations/:id?customerId=
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondReservation(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	customerID, err := strconv.ParseUint(c.Query("customerId"), 10, 32)
	if err != nil {
		respondReservation(c, http.StatusBadRequest, "customerId query parameter is required", nil)
		return
	}

	if err := rc.Reservations.Cancel(c.Request.Context(), id, uint(customerID)); err != nil {
		respondReservationError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReservationResponse{Success: true, Message: "Reservation cancelled successfully"})
}

// CheckAvailability -> GET /availability?date=&partySize=
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	date, err := utils.ParseDate(c.Query("date"), rc.Location)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	partySize, err := strconv.Atoi(c.Query("partySize"))
	if err != nil || partySize < services.MinPartySize || partySize > services.MaxPartySize {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("partySize must be between %d and %d", services.MinPartySize, services.MaxPartySize))
		return
	}

	slots, err := rc.Availability.TimeSlots(c.Request.Context(), date, partySize)
	if err != nil {
		respondServerError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available time slots", slots)
}
