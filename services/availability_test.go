package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/services"
)

func TestFindAvailableTableSmallestFit(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 2, 4, 6)
	as := services.NewAvailabilityService(store, time.UTC)

	got, err := as.FindAvailableTable(context.Background(), 3, at(18, 0), 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tables[1].ID, got.ID)
	assert.Equal(t, uint(2), got.ID)
}

func TestFindAvailableTableTieBreaksOnLowestID(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 6, 4, 4)
	as := services.NewAvailabilityService(store, time.UTC)

	got, err := as.FindAvailableTable(context.Background(), 4, at(18, 0), 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tables[1].ID, got.ID)
}

func TestFindAvailableTableTurnoverWindow(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 4)
	book(t, store, 1, tables[0].ID, at(18, 0), 2)
	as := services.NewAvailabilityService(store, time.UTC)
	ctx := context.Background()

	cases := []struct {
		name string
		when time.Time
		free bool
	}{
		{"same time", at(18, 0), false},
		{"119 minutes later", at(19, 59), false},
		{"119 minutes earlier", at(16, 1), false},
		{"120 minutes later", at(20, 0), true},
		{"120 minutes earlier", at(16, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := as.FindAvailableTable(ctx, 2, tc.when, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.free, got != nil)
		})
	}
}

func TestFindAvailableTableNoneWhenAllBooked(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 2, 4, 6)
	book(t, store, 1, tables[1].ID, at(18, 0), 4)
	book(t, store, 2, tables[2].ID, at(19, 0), 5)
	as := services.NewAvailabilityService(store, time.UTC)

	got, err := as.FindAvailableTable(context.Background(), 3, at(18, 30), 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindAvailableTableExcludesReservation(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 4)
	own := book(t, store, 1, tables[0].ID, at(18, 0), 2)
	as := services.NewAvailabilityService(store, time.UTC)

	got, err := as.FindAvailableTable(context.Background(), 2, at(18, 30), own.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tables[0].ID, got.ID)
}

func TestFindAvailableTableSkipsUnavailableStatus(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 2, 4)
	_, err := store.UpdateTableStatus(context.Background(), tables[1].ID, models.TableMaintenance)
	require.NoError(t, err)
	as := services.NewAvailabilityService(store, time.UTC)

	got, err := as.FindAvailableTable(context.Background(), 3, at(18, 0), 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindAvailableTableIgnoresCancelled(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 4)
	r := book(t, store, 1, tables[0].ID, at(18, 0), 2)
	_, err := store.CancelReservation(context.Background(), r.ID)
	require.NoError(t, err)
	as := services.NewAvailabilityService(store, time.UTC)

	got, err := as.FindAvailableTable(context.Background(), 2, at(18, 0), 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestFindAvailableTableStoreFailure(t *testing.T) {
	as := services.NewAvailabilityService(failingStore{}, time.UTC)

	_, err := as.FindAvailableTable(context.Background(), 2, at(18, 0), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrStore))
	var se *services.StoreError
	assert.ErrorAs(t, err, &se)
}

func TestTimeSlotsMatchDirectLookups(t *testing.T) {
	store := setupStore(t)
	tables := seedTables(t, store, 2, 4)
	book(t, store, 1, tables[1].ID, at(12, 0), 4)
	book(t, store, 2, tables[0].ID, at(19, 0), 2)
	as := services.NewAvailabilityService(store, time.UTC)
	ctx := context.Background()

	slots, err := as.TimeSlots(ctx, day.Add(15*time.Hour), 2)
	require.NoError(t, err)
	require.Len(t, slots, 13)

	for i, slot := range slots {
		assert.Equal(t, at(9+i, 0), slot.Time)
		direct, err := as.FindAvailableTable(ctx, 2, slot.Time, 0)
		require.NoError(t, err)
		assert.Equal(t, direct != nil, slot.Available, "slot %s", slot.Time)
		if direct == nil {
			assert.Nil(t, slot.TableNumber)
			continue
		}
		require.NotNil(t, slot.TableNumber)
		assert.Equal(t, direct.TableNumber, *slot.TableNumber)
	}

	// 19:00 is only blocked for the two-seater; the four-seater is free again.
	assert.Equal(t, 2, *slots[10].TableNumber)
	// 12:00 leaves the two-seater.
	assert.Equal(t, 1, *slots[3].TableNumber)
}

func TestTimeSlotsUseRestaurantLocation(t *testing.T) {
	store := setupStore(t)
	seedTables(t, store, 4)
	wib := time.FixedZone("WIB", 7*3600)
	as := services.NewAvailabilityService(store, wib)

	slots, err := as.TimeSlots(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, wib), 2)
	require.NoError(t, err)
	require.Len(t, slots, 13)
	assert.Equal(t, 9, slots[0].Time.Hour())
	assert.Equal(t, 21, slots[12].Time.Hour())
	assert.Equal(t, 2, slots[0].Time.UTC().Hour())
}
