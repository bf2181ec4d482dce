package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/kds"
	"github.com/yeremiapane/table-reservation/middlewares"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/router"
	"github.com/yeremiapane/table-reservation/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServer(t *testing.T, limiter *middlewares.RateLimiter) (*httptest.Server, *kds.Hub, *database.GormStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.ValidateSchema(db))

	store := database.NewGormStore(db)
	hub := kds.NewHub()
	rs := services.NewReservationService(store, time.UTC, true)
	rs.Now = func() time.Time { return time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC) }
	rs.Publisher = hub

	r := router.SetupRouter(router.Deps{
		Store:        store,
		Reservations: rs,
		Availability: services.NewAvailabilityService(store, time.UTC),
		Statistics:   services.NewStatisticsService(store, time.UTC),
		Reports:      services.NewReportService(store, time.UTC),
		Hub:          hub,
		Limiter:      limiter,
		Location:     time.UTC,
		CORSOrigin:   "*",
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub, store
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestReservationFlowPushesToBoard(t *testing.T) {
	srv, hub, store := setupServer(t, nil)

	resp := postJSON(t, srv.URL+"/customers", map[string]string{"name": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middlewares.RequestIDHeader))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	tbl := models.Table{TableNumber: 12, Capacity: 4, Location: models.LocationPatio, Status: models.TableAvailable}
	require.NoError(t, store.CreateTable(context.Background(), &tbl))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/board/ws"
	board, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer board.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	resp = postJSON(t, srv.URL+"/reservations", map[string]interface{}{
		"customerId":      1,
		"reservationTime": "2024-06-01T19:00:00Z",
		"partySize":       4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, board.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg kds.Message
	require.NoError(t, board.ReadJSON(&msg))
	assert.Equal(t, services.EventReservationCreated, msg.Event)
	assert.Equal(t, float64(tbl.ID), msg.Data.(map[string]interface{})["tableId"])

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestReservationWritesAreRateLimited(t *testing.T) {
	srv, _, _ := setupServer(t, middlewares.NewRateLimiter(1.0/3600, 2))

	body := map[string]interface{}{"customerId": 1, "reservationTime": "2024-06-01T19:00:00Z", "partySize": 2}
	assert.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/reservations", body).StatusCode)
	assert.Equal(t, http.StatusOK, postJSON(t, srv.URL+"/reservations", body).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, postJSON(t, srv.URL+"/reservations", body).StatusCode)

	// Reads are not limited.
	resp, err := http.Get(srv.URL + "/availability?date=2024-06-01&partySize=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
