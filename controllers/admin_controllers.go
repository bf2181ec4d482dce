package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

type AdminController struct {
	Reservations *services.ReservationService
	Statistics   *services.StatisticsService
	Reports      *services.ReportService
	Location     *time.Location
}

func NewAdminController(rs *services.ReservationService, ss *services.StatisticsService, rp *services.ReportService, loc *time.Location) *AdminController {
	return &AdminController{Reservations: rs, Statistics: ss, Reports: rp, Location: loc}
}

// GetAllReservations -> GET /admin/reservations?date=&status=
func (ac *AdminController) GetAllReservations(c *gin.Context) {
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := utils.ParseDate(raw, ac.Location)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		date = &d
	}
	status := models.ReservationStatus(strings.ToUpper(c.Query("status")))
	if status != "" && !status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status %q", c.Query("status")))
		return
	}

	list, err := ac.Reservations.ListForAdmin(c.Request.Context(), date, status)
	if err != nil {
		respondServerError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

// GetStatistics -> GET /admin/statistics?startDate=&endDate=
func (ac *AdminController) GetStatistics(c *gin.Context) {
	start, err := ac.optionalDate(c, "startDate")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := ac.optionalDate(c, "endDate")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	stats, err := ac.Statistics.Statistics(c.Request.Context(), start, end)
	if err != nil {
		respondServerError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation statistics", stats)
}

// ExportDaySheet -> GET /admin/reports/reservations.pdf?date=
func (ac *AdminController) ExportDaySheet(c *gin.Context) {
	date := time.Now().In(ac.Location)
	if raw := c.Query("date"); raw != "" {
		d, err := utils.ParseDate(raw, ac.Location)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		date = d
	}

	var buf bytes.Buffer
	if err := ac.Reports.DaySheet(c.Request.Context(), date, &buf); err != nil {
		respondServerError(c, err)
		return
	}

	filename := fmt.Sprintf("reservations-%s.pdf", date.Format(utils.DateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (ac *AdminController) optionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(raw, ac.Location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &d, nil
}
