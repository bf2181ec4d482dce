package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/utils"
)

const (
	MinPartySize = 1
	MaxPartySize = 20

	OpeningHour = 9
	ClosingHour = 22
)

// ReservationInput is the payload of create and modify requests.
type ReservationInput struct {
	CustomerID      uint      `validate:"required"`
	ReservationTime time.Time `validate:"required"`
	PartySize       int       `validate:"min=1,max=20"`
	SpecialRequests *string
}

// BookingResult carries the outcome of create and modify. Booked is false when
// no table fits; that is a normal outcome, not an error.
type BookingResult struct {
	Booked      bool
	Reservation *models.Reservation
}

type ReservationService struct {
	Store     database.Repository
	Publisher Publisher
	Location  *time.Location
	// Strict runs the availability check and the write in one transaction
	// with the candidate table rows locked.
	Strict bool
	Now    func() time.Time

	validate *validator.Validate
}

func NewReservationService(store database.Repository, loc *time.Location, strict bool) *ReservationService {
	if loc == nil {
		loc = time.Local
	}
	return &ReservationService{
		Store:     store,
		Publisher: noopPublisher{},
		Location:  loc,
		Strict:    strict,
		Now:       time.Now,
		validate:  validator.New(),
	}
}

// Create validates the request and books the best-fit table.
func (rs *ReservationService) Create(ctx context.Context, in ReservationInput) (*BookingResult, error) {
	if err := rs.validateInput(in); err != nil {
		return nil, err
	}

	var result *BookingResult
	err := rs.run(ctx, func(store database.Repository) error {
		table, err := findAvailableTable(ctx, store, in.PartySize, in.ReservationTime, 0)
		if err != nil {
			return err
		}
		if table == nil {
			result = &BookingResult{Booked: false}
			return nil
		}

		reservation := &models.Reservation{
			CustomerID:      in.CustomerID,
			TableID:         table.ID,
			ReservationTime: in.ReservationTime,
			PartySize:       in.PartySize,
			Status:          models.StatusConfirmed,
			SpecialRequests: in.SpecialRequests,
		}
		if err := store.CreateReservation(ctx, reservation); err != nil {
			return storeErr("create reservation", err)
		}
		result = &BookingResult{Booked: true, Reservation: reservation}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Booked {
		utils.InfoLogger.Printf("Reservation %d created: customer=%d table=%d party=%d at %s",
			result.Reservation.ID, in.CustomerID, result.Reservation.TableID, in.PartySize,
			in.ReservationTime.In(rs.Location).Format(time.RFC3339))
		rs.publisher().Publish(EventReservationCreated, result.Reservation)
	} else {
		utils.InfoLogger.Printf("No table for party of %d at %s", in.PartySize,
			in.ReservationTime.In(rs.Location).Format(time.RFC3339))
	}
	return result, nil
}

// Modify re-books an existing reservation owned by in.CustomerID. When no
// table fits the stored reservation is left untouched.
func (rs *ReservationService) Modify(ctx context.Context, id uint, in ReservationInput) (*BookingResult, error) {
	existing, err := rs.owned(ctx, rs.Store, id, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := rs.validateInput(in); err != nil {
		return nil, err
	}

	var result *BookingResult
	err = rs.run(ctx, func(store database.Repository) error {
		table, err := findAvailableTable(ctx, store, in.PartySize, in.ReservationTime, id)
		if err != nil {
			return err
		}
		if table == nil {
			result = &BookingResult{Booked: false}
			return nil
		}

		updated := *existing
		updated.TableID = table.ID
		updated.ReservationTime = in.ReservationTime
		updated.PartySize = in.PartySize
		updated.SpecialRequests = in.SpecialRequests

		ok, err := store.UpdateReservation(ctx, &updated)
		if err != nil {
			return storeErr("update reservation", err)
		}
		if !ok {
			return ErrNotFound
		}
		result = &BookingResult{Booked: true, Reservation: &updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Booked {
		utils.InfoLogger.Printf("Reservation %d modified: table=%d party=%d", id, result.Reservation.TableID, in.PartySize)
		rs.publisher().Publish(EventReservationUpdated, result.Reservation)
	}
	return result, nil
}

// Cancel marks an owned reservation CANCELLED. Cancelling twice is not an error.
func (rs *ReservationService) Cancel(ctx context.Context, id uint, customerID uint) error {
	if _, err := rs.owned(ctx, rs.Store, id, customerID); err != nil {
		return err
	}

	ok, err := rs.Store.CancelReservation(ctx, id)
	if err != nil {
		return storeErr("cancel reservation", err)
	}
	if !ok {
		return ErrNotFound
	}

	utils.InfoLogger.Printf("Reservation %d cancelled by customer %d", id, customerID)
	rs.publisher().Publish(EventReservationCancelled, map[string]interface{}{
		"reservationId": id,
		"customerId":    customerID,
	})
	return nil
}

func (rs *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := rs.Store.GetReservation(ctx, id)
	if err != nil {
		return nil, storeErr("get reservation", err)
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (rs *ReservationService) ListForCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	list, err := rs.Store.ListReservations(ctx, database.ReservationFilter{CustomerID: customerID})
	return list, storeErr("list customer reservations", err)
}

// ListForAdmin filters by day when date is set, else by status, else returns everything.
func (rs *ReservationService) ListForAdmin(ctx context.Context, date *time.Time, status models.ReservationStatus) ([]models.Reservation, error) {
	f := database.ReservationFilter{Status: status}
	if date != nil {
		y, m, d := date.In(rs.Location).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, rs.Location)
		f = database.ReservationFilter{Date: &day}
	}
	list, err := rs.Store.ListReservations(ctx, f)
	return list, storeErr("list reservations", err)
}

func (rs *ReservationService) owned(ctx context.Context, store database.Repository, id, customerID uint) (*models.Reservation, error) {
	r, err := store.GetReservation(ctx, id)
	if err != nil {
		return nil, storeErr("get reservation", err)
	}
	if r == nil {
		return nil, ErrNotFound
	}
	if r.CustomerID != customerID {
		return nil, ErrUnauthorized
	}
	return r, nil
}

func (rs *ReservationService) validateInput(in ReservationInput) error {
	if err := rs.validate.Struct(in); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &ValidationError{Field: verrs[0].Field(), Reason: describeTag(verrs[0])}
		}
		return &ValidationError{Field: "request", Reason: err.Error()}
	}

	if !in.ReservationTime.After(rs.Now()) {
		return &ValidationError{Field: "ReservationTime", Reason: "must be in the future"}
	}
	hour := in.ReservationTime.In(rs.Location).Hour()
	if hour < OpeningHour || hour > ClosingHour {
		return &ValidationError{Field: "ReservationTime", Reason: "outside business hours (09:00-22:59)"}
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		return fmt.Sprintf("must be between %d and %d", MinPartySize, MaxPartySize)
	}
	return "failed " + fe.Tag()
}

// run executes fn directly, or inside a transaction in strict mode.
func (rs *ReservationService) run(ctx context.Context, fn func(database.Repository) error) error {
	if !rs.Strict {
		return fn(rs.Store)
	}
	err := rs.Store.Transaction(ctx, fn)
	if err != nil && !isDomainError(err) {
		return storeErr("booking transaction", err)
	}
	return err
}

func (rs *ReservationService) publisher() Publisher {
	if rs.Publisher == nil {
		return noopPublisher{}
	}
	return rs.Publisher
}
