package services

import (
	"context"
	"time"

	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
)

const (
	// TurnoverWindow is the radius around a confirmed booking in which its
	// table cannot be booked again.
	TurnoverWindow = 120 * time.Minute

	FirstSlotHour = 9
	LastSlotHour  = 21
)

type AvailabilityService struct {
	Store    database.Repository
	Location *time.Location
}

func NewAvailabilityService(store database.Repository, loc *time.Location) *AvailabilityService {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityService{Store: store, Location: loc}
}

// FindAvailableTable returns the tightest-fitting free table for the party at
// the given time, or nil when none fits. excludeID (0 for none) ignores one
// reservation, so a booking being modified does not block itself.
func (as *AvailabilityService) FindAvailableTable(ctx context.Context, partySize int, at time.Time, excludeID uint) (*models.Table, error) {
	return findAvailableTable(ctx, as.Store, partySize, at, excludeID)
}

func findAvailableTable(ctx context.Context, store database.Repository, partySize int, at time.Time, excludeID uint) (*models.Table, error) {
	candidates, err := store.CandidateTables(ctx, partySize)
	if err != nil {
		return nil, storeErr("find candidate tables", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	booked, err := store.BookedTableIDs(ctx, at, TurnoverWindow, excludeID)
	if err != nil {
		return nil, storeErr("find booked tables", err)
	}
	return pickTable(candidates, partySize, booked), nil
}

// pickTable chooses the smallest-capacity unbooked table, lowest id on ties.
// It does not rely on the input order.
func pickTable(tables []models.Table, partySize int, booked map[uint]struct{}) *models.Table {
	var best *models.Table
	for i := range tables {
		t := &tables[i]
		if t.Capacity < partySize || t.Status != models.TableAvailable {
			continue
		}
		if _, ok := booked[t.ID]; ok {
			continue
		}
		if best == nil || t.Capacity < best.Capacity || (t.Capacity == best.Capacity && t.ID < best.ID) {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	found := *best
	return &found
}

// TimeSlots projects one day into hourly slots from 09:00 to 21:00. Every
// slot is an independent lookup; nothing is reserved.
func (as *AvailabilityService) TimeSlots(ctx context.Context, date time.Time, partySize int) ([]models.TimeSlot, error) {
	y, m, d := date.In(as.Location).Date()

	slots := make([]models.TimeSlot, 0, LastSlotHour-FirstSlotHour+1)
	for hour := FirstSlotHour; hour <= LastSlotHour; hour++ {
		at := time.Date(y, m, d, hour, 0, 0, 0, as.Location)
		table, err := as.FindAvailableTable(ctx, partySize, at, 0)
		if err != nil {
			return nil, err
		}

		slot := models.TimeSlot{Time: at, Available: table != nil}
		if table != nil {
			number := table.TableNumber
			slot.TableNumber = &number
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
