package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yeremiapane/table-reservation/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationFilter selects a reservation scan. At most one field is honoured,
// checked in the order CustomerID, Date, Status.
type ReservationFilter struct {
	CustomerID uint
	// Date is the start of a day in the restaurant's location; the scan covers [Date, Date+24h).
	Date   *time.Time
	Status models.ReservationStatus
}

// Repository is the record store used by the services.
// Lookups of unknown identifiers return a nil record and a nil error.
type Repository interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error)
	UpdateReservation(ctx context.Context, r *models.Reservation) (bool, error)
	CancelReservation(ctx context.Context, id uint) (bool, error)

	CreateCustomer(ctx context.Context, c *models.Customer) error
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)

	CreateTable(ctx context.Context, t *models.Table) error
	GetTable(ctx context.Context, id uint) (*models.Table, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	UpdateTableStatus(ctx context.Context, id uint, status models.TableStatus) (bool, error)

	CandidateTables(ctx context.Context, partySize int) ([]models.Table, error)
	BookedTableIDs(ctx context.Context, at time.Time, window time.Duration, excludeID uint) (map[uint]struct{}, error)

	CountReservations(ctx context.Context, from, to *time.Time) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
	AveragePartySize(ctx context.Context) (float64, error)
	CountConfirmedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountTables(ctx context.Context) (int64, error)

	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

type GormStore struct {
	DB *gorm.DB
	// inTx is set on stores handed to Transaction callbacks.
	inTx bool
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	r.ReservationTime = r.ReservationTime.UTC()
	return s.DB.WithContext(ctx).Create(r).Error
}

func (s *GormStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.DB.WithContext(ctx).First(&r, "reservation_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).Model(&models.Reservation{})
	switch {
	case f.CustomerID != 0:
		q = q.Where("customer_id = ?", f.CustomerID).Order("reservation_time DESC")
	case f.Date != nil:
		from := f.Date.UTC()
		q = q.Where("reservation_time >= ? AND reservation_time < ?", from, from.Add(24*time.Hour)).
			Order("reservation_time ASC")
	case f.Status != "":
		q = q.Where("status = ?", f.Status).Order("reservation_time ASC")
	default:
		q = q.Order("reservation_time DESC")
	}

	reservations := []models.Reservation{}
	if err := q.Order("reservation_id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// UpdateReservation overwrites the mutable booking fields of an existing row
// and reports whether a row matched.
func (s *GormStore) UpdateReservation(ctx context.Context, r *models.Reservation) (bool, error) {
	r.ReservationTime = r.ReservationTime.UTC()
	r.UpdatedAt = time.Now().UTC()
	res := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("reservation_id = ?", r.ID).
		Updates(map[string]interface{}{
			"table_id":         r.TableID,
			"reservation_time": r.ReservationTime,
			"party_size":       r.PartySize,
			"special_requests": r.SpecialRequests,
			"updated_at":       r.UpdatedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// CancelReservation reports whether a row matched the id.
func (s *GormStore) CancelReservation(ctx context.Context, id uint) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("reservation_id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.StatusCancelled,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return s.DB.WithContext(ctx).Create(c).Error
}

func (s *GormStore) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	err := s.DB.WithContext(ctx).First(&c, "customer_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) CreateTable(ctx context.Context, t *models.Table) error {
	return s.DB.WithContext(ctx).Create(t).Error
}

func (s *GormStore) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	err := s.DB.WithContext(ctx).First(&t, "table_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) ListTables(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	if err := s.DB.WithContext(ctx).Order("table_number ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// UpdateTableStatus reports whether the table exists.
func (s *GormStore) UpdateTableStatus(ctx context.Context, id uint, status models.TableStatus) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.Table{}).
		Where("table_id = ?", id).
		Update("status", status)
	if res.Error != nil || res.RowsAffected > 0 {
		return res.RowsAffected > 0, res.Error
	}
	// MySQL reports zero affected rows when the status is unchanged.
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Table{}).Where("table_id = ?", id).Count(&n).Error
	return n > 0, err
}

// CandidateTables returns AVAILABLE tables seating at least partySize,
// tightest fit first, lowest id on equal capacity.
func (s *GormStore) CandidateTables(ctx context.Context, partySize int) ([]models.Table, error) {
	q := s.DB.WithContext(ctx).
		Where("capacity >= ? AND status = ?", partySize, models.TableAvailable).
		Order("capacity ASC").Order("table_id ASC")
	if s.inTx && s.DB.Dialector.Name() != "sqlite" {
		// SQLite serialises writers itself and has no FOR UPDATE.
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	tables := []models.Table{}
	if err := q.Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// BookedTableIDs returns tables holding a CONFIRMED reservation strictly within
// window of at, ignoring reservation excludeID (0 excludes nothing).
func (s *GormStore) BookedTableIDs(ctx context.Context, at time.Time, window time.Duration, excludeID uint) (map[uint]struct{}, error) {
	at = at.UTC()
	var ids []uint
	err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ?", models.StatusConfirmed).
		Where("reservation_id <> ?", excludeID).
		Where("reservation_time > ? AND reservation_time < ?", at.Add(-window), at.Add(window)).
		Distinct().
		Pluck("table_id", &ids).Error
	if err != nil {
		return nil, err
	}

	booked := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		booked[id] = struct{}{}
	}
	return booked, nil
}

// CountReservations counts all reservations, or those in [from, to) when both are set.
func (s *GormStore) CountReservations(ctx context.Context, from, to *time.Time) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Reservation{})
	if from != nil && to != nil {
		q = q.Where("reservation_time >= ? AND reservation_time < ?", from.UTC(), to.UTC())
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (s *GormStore) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ? AND reservation_time > ?", models.StatusConfirmed, now.UTC()).
		Count(&n).Error
	return n, err
}

func (s *GormStore) AveragePartySize(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ?", models.StatusConfirmed).
		Select("AVG(party_size)").
		Row().Scan(&avg)
	if err != nil || !avg.Valid {
		return 0, err
	}
	return avg.Float64, nil
}

func (s *GormStore) CountConfirmedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ? AND reservation_time >= ? AND reservation_time < ?",
			models.StatusConfirmed, from.UTC(), to.UTC()).
		Count(&n).Error
	return n, err
}

func (s *GormStore) CountTables(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Table{}).Count(&n).Error
	return n, err
}

// Transaction runs fn against a store bound to a single database transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx, inTx: true})
	})
}
