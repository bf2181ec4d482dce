package services

import (
	"context"
	"time"

	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
)

// slotsPerDay is the number of bookable hours used as the utilization denominator.
const slotsPerDay = LastSlotHour - FirstSlotHour + 1

type StatisticsService struct {
	Store    database.Repository
	Location *time.Location
	Now      func() time.Time
}

func NewStatisticsService(store database.Repository, loc *time.Location) *StatisticsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatisticsService{Store: store, Location: loc, Now: time.Now}
}

// Statistics aggregates reservation counts. The total is restricted to
// [startDate, endDate] (whole days) only when both are given.
func (ss *StatisticsService) Statistics(ctx context.Context, startDate, endDate *time.Time) (*models.Statistics, error) {
	stats := &models.Statistics{}
	now := ss.Now()

	var from, to *time.Time
	if startDate != nil && endDate != nil {
		f := ss.startOfDay(*startDate)
		t := ss.startOfDay(*endDate).AddDate(0, 0, 1)
		from, to = &f, &t
	}

	var err error
	if stats.TotalReservations, err = ss.Store.CountReservations(ctx, from, to); err != nil {
		return nil, storeErr("count reservations", err)
	}
	if stats.ActiveReservations, err = ss.Store.CountActive(ctx, now); err != nil {
		return nil, storeErr("count active reservations", err)
	}
	if stats.AveragePartySize, err = ss.Store.AveragePartySize(ctx); err != nil {
		return nil, storeErr("average party size", err)
	}

	tables, err := ss.Store.CountTables(ctx)
	if err != nil {
		return nil, storeErr("count tables", err)
	}
	if tables > 0 {
		today := ss.startOfDay(now)
		confirmed, err := ss.Store.CountConfirmedBetween(ctx, today, today.AddDate(0, 0, 1))
		if err != nil {
			return nil, storeErr("count today's reservations", err)
		}
		stats.TableUtilization = float64(confirmed) * 100.0 / float64(tables*slotsPerDay)
	}
	return stats, nil
}

func (ss *StatisticsService) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(ss.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ss.Location)
}
