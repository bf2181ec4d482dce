package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

// ReservationResponse is the body of every reservation write endpoint.
type ReservationResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Reservation *models.Reservation `json:"reservation"`
}

func respondReservation(c *gin.Context, code int, message string, r *models.Reservation) {
	c.JSON(code, ReservationResponse{
		Success:     code >= 200 && code < 300 && r != nil,
		Message:     message,
		Reservation: r,
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusNotFound:
		return "Reservation not found"
	case http.StatusForbidden:
		return "Unauthorized"
	case http.StatusInternalServerError:
		return "Server error: " + err.Error()
	}
	return err.Error()
}

func respondReservationError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	respondReservation(c, code, messageFor(err), nil)
}

func respondServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	utils.RespondError(c, http.StatusInternalServerError, fmt.Errorf("server error: %w", err))
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", param)
	}
	return uint(id), nil
}
