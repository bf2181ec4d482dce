package models

import "time"

// TimeSlot is a derived, per-query view of one candidate reservation time.
// TableNumber is only set when the slot is available.
type TimeSlot struct {
	Time        time.Time `json:"time"`
	Available   bool      `json:"available"`
	TableNumber *int      `json:"tableNumber,omitempty"`
}

type Statistics struct {
	TotalReservations  int64   `json:"totalReservations"`
	ActiveReservations int64   `json:"activeReservations"`
	AveragePartySize   float64 `json:"averagePartySize"`
	TableUtilization   float64 `json:"tableUtilization"`
}
