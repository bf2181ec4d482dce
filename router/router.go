package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/controllers"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/kds"
	"github.com/yeremiapane/table-reservation/middlewares"
	"github.com/yeremiapane/table-reservation/services"
)

// Deps are the long-lived collaborators every handler is built from.
type Deps struct {
	Store        database.Repository
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
	Statistics   *services.StatisticsService
	Reports      *services.ReportService
	Hub          *kds.Hub
	Limiter      *middlewares.RateLimiter
	Location     *time.Location
	CORSOrigin   string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	reservationCtrl := controllers.NewReservationController(d.Reservations, d.Availability, d.Location)
	customerCtrl := controllers.NewCustomerController(d.Store)
	tableCtrl := controllers.NewTableController(d.Store, d.Hub)
	adminCtrl := controllers.NewAdminController(d.Reservations, d.Statistics, d.Reports, d.Location)
	boardCtrl := controllers.NewBoardController(d.Hub)

	r.GET("/health", controllers.Health)

	// ----------------------------------------------------------------
	//                      CUSTOMER ROUTES
	// ----------------------------------------------------------------
	r.GET("/customer/:customerId/reservations", reservationCtrl.GetCustomerReservations)
	r.GET("/availability", reservationCtrl.CheckAvailability)

	writes := r.Group("/reservations")
	if d.Limiter != nil {
		writes.Use(d.Limiter.RateLimit())
	}
	{
		writes.POST("", reservationCtrl.CreateReservation)
		writes.PUT("/:id", reservationCtrl.ModifyReservation)
		writes.DELETE("/:id", reservationCtrl.CancelReservation)
	}

	r.POST("/customers", customerCtrl.CreateCustomer)
	r.GET("/customers/:id", customerCtrl.GetCustomerByID)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	{
		admin.GET("/reservations", adminCtrl.GetAllReservations)
		admin.GET("/statistics", adminCtrl.GetStatistics)
		admin.GET("/reports/reservations.pdf", adminCtrl.ExportDaySheet)

		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.GET("/tables/:id", tableCtrl.GetTableByID)
		admin.PUT("/tables/:id", tableCtrl.UpdateTableStatus)

		admin.GET("/board/ws", boardCtrl.FloorBoard)
	}

	return r
}
