package models

import "time"

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Reservation references a customer and a table by id only; neither is owned.
type Reservation struct {
	ID              uint              `gorm:"column:reservation_id;primaryKey" json:"reservationId"`
	CustomerID      uint              `gorm:"column:customer_id;not null;index" json:"customerId"`
	TableID         uint              `gorm:"column:table_id;not null;index" json:"tableId"`
	ReservationTime time.Time         `gorm:"column:reservation_time;not null;index" json:"reservationTime"`
	PartySize       int               `gorm:"column:party_size;not null" json:"partySize"`
	Status          ReservationStatus `gorm:"column:status;type:varchar(20);not null;default:'CONFIRMED';index" json:"status"`
	SpecialRequests *string           `gorm:"column:special_requests;type:text" json:"specialRequests"`
	CreatedAt       time.Time         `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt       time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}
