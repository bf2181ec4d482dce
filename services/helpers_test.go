package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is the clock every service under test runs on.
var fixedNow = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

// day is a date after fixedNow used for bookings.
var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func setupStore(t *testing.T) *database.GormStore {
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

// seedTables creates tables numbered from 1 with the given capacities.
func seedTables(t *testing.T, s database.Repository, capacities ...int) []models.Table {
	t.Helper()
	out := make([]models.Table, 0, len(capacities))
	for i, c := range capacities {
		tbl := models.Table{TableNumber: i + 1, Capacity: c, Location: models.LocationIndoor, Status: models.TableAvailable}
		require.NoError(t, s.CreateTable(context.Background(), &tbl))
		out = append(out, tbl)
	}
	return out
}

func book(t *testing.T, s database.Repository, customerID, tableID uint, when time.Time, party int) models.Reservation {
	t.Helper()
	r := models.Reservation{CustomerID: customerID, TableID: tableID, ReservationTime: when, PartySize: party, Status: models.StatusConfirmed}
	require.NoError(t, s.CreateReservation(context.Background(), &r))
	return r
}

// failingStore fails every call it overrides.
type failingStore struct {
	database.Repository
}

func (failingStore) CandidateTables(context.Context, int) ([]models.Table, error) {
	return nil, fmt.Errorf("connection refused")
}

func (failingStore) GetReservation(context.Context, uint) (*models.Reservation, error) {
	return nil, fmt.Errorf("connection refused")
}

func (failingStore) CountReservations(context.Context, *time.Time, *time.Time) (int64, error) {
	return 0, fmt.Errorf("connection refused")
}

type recordedEvent struct {
	Event string
	Data  interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, Data: data})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}
