package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservation/controllers"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	store  *database.GormStore
	router *gin.Engine
	events *eventLog
}

type eventLog struct{ names []string }

func (e *eventLog) Publish(event string, _ interface{}) { e.names = append(e.names, event) }

func setupTestDB(t *testing.T) *database.GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return database.NewGormStore(db)
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := setupTestDB(t)
	events := &eventLog{}

	rs := services.NewReservationService(store, time.UTC, false)
	rs.Now = func() time.Time { return fixedNow }
	rs.Publisher = events
	as := services.NewAvailabilityService(store, time.UTC)
	ss := services.NewStatisticsService(store, time.UTC)
	ss.Now = func() time.Time { return fixedNow }
	rp := services.NewReportService(store, time.UTC)

	reservationCtrl := controllers.NewReservationController(rs, as, time.UTC)
	customerCtrl := controllers.NewCustomerController(store)
	tableCtrl := controllers.NewTableController(store, events)
	adminCtrl := controllers.NewAdminController(rs, ss, rp, time.UTC)

	r := gin.New()
	r.GET("/health", controllers.Health)
	r.GET("/customer/:customerId/reservations", reservationCtrl.GetCustomerReservations)
	r.POST("/reservations", reservationCtrl.CreateReservation)
	r.PUT("/reservations/:id", reservationCtrl.ModifyReservation)
	r.DELETE("/reservations/:id", reservationCtrl.CancelReservation)
	r.GET("/availability", reservationCtrl.CheckAvailability)
	r.POST("/customers", customerCtrl.CreateCustomer)
	r.GET("/customers/:id", customerCtrl.GetCustomerByID)
	r.GET("/admin/reservations", adminCtrl.GetAllReservations)
	r.GET("/admin/statistics", adminCtrl.GetStatistics)
	r.GET("/admin/reports/reservations.pdf", adminCtrl.ExportDaySheet)
	r.GET("/admin/tables", tableCtrl.GetAllTables)
	r.GET("/admin/tables/:id", tableCtrl.GetTableByID)
	r.PUT("/admin/tables/:id", tableCtrl.UpdateTableStatus)

	return &testEnv{store: store, router: r, events: events}
}

func (e *testEnv) seedTables(t *testing.T, capacities ...int) []models.Table {
	t.Helper()
	out := make([]models.Table, 0, len(capacities))
	for i, c := range capacities {
		tbl := models.Table{TableNumber: i + 1, Capacity: c, Location: models.LocationIndoor, Status: models.TableAvailable}
		require.NoError(t, e.store.CreateTable(context.Background(), &tbl))
		out = append(out, tbl)
	}
	return out
}

func (e *testEnv) do(t *testing.T, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
