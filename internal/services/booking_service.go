package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-booking/internal/models"
	"rental-booking/internal/policy"
	"rental-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// BookingService creates bookings against approved rental properties and
// drives their pending -> confirmed/rejected lifecycle.
//
// The availability check and the insert run in one transaction that first
// locks the property row, so two requests for the same property cannot both
// pass the check.
type BookingService struct {
	store  *repository.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewBookingService(store *repository.Store, logger zerolog.Logger) *BookingService {
	return &BookingService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
// and returns it in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, value)
	}
	return t.UTC(), nil
}

func (s *BookingService) parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must be before endDate", ErrValidation)
	}
	today := s.now().Truncate(24 * time.Hour)
	if start.Before(today) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must not be in the past", ErrValidation)
	}
	return start, end, nil
}

func (s *BookingService) Create(ctx context.Context, actor models.Actor, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := authorize(actor, policy.BookingCreate); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var booking *models.Booking
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		property, err := s.lockRentable(ctx, tx, req.PropertyID)
		if err != nil {
			return err
		}

		if err := s.checkAvailability(ctx, tx, property.ID, start, end, ""); err != nil {
			return err
		}

		now := s.now()
		booking = &models.Booking{
			ID:         uuid.NewString(),
			UserID:     actor.UserID,
			PropertyID: property.ID,
			StartDate:  start,
			EndDate:    end,
			Price:      property.Price,
			Status:     string(models.BookingStatusPending),
			Contact:    req.Contact,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Bookings.Create(ctx, booking); err != nil {
			s.logger.Error().Err(err).Str("property_id", property.ID).Msg("Error creating booking")
			return fmt.Errorf("%w: failed to create booking", ErrInternal)
		}
		return nil
	})
	if err != nil {
		return nil, s.txErr(err)
	}

	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("user_id", actor.UserID).
		Str("property_id", booking.PropertyID).
		Time("start_date", start).
		Time("end_date", end).
		Msg("Booking created")
	return booking, nil
}

// lockRentable loads the property under a row lock and checks it can be booked.
func (s *BookingService) lockRentable(ctx context.Context, tx *repository.Store, propertyID string) (*models.Property, error) {
	property, err := tx.Properties.GetForUpdate(ctx, propertyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", propertyID).Msg("Error fetching property")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	// Unapproved and for-sale listings are not bookable and look the same as missing ones.
	if property.Status != string(models.PropertyStatusApproved) || property.PropertyType != string(models.PropertyTypeRent) {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	return property, nil
}

func (s *BookingService) checkAvailability(ctx context.Context, tx *repository.Store, propertyID string, start, end time.Time, excludeID string) error {
	overlap, err := tx.Bookings.HasOverlap(ctx, propertyID, start, end, excludeID)
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", propertyID).Msg("Error checking booking overlap")
		return fmt.Errorf("%w: database error", ErrInternal)
	}
	if overlap {
		return fmt.Errorf("%w: property is not available during the requested duration", ErrConflict)
	}
	return nil
}

func (s *BookingService) Confirm(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return s.transition(ctx, actor, bookingID, models.BookingStatusConfirmed)
}

func (s *BookingService) Reject(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return s.transition(ctx, actor, bookingID, models.BookingStatusRejected)
}

// transition does not re-run the availability check: a pending booking was
// already checked when it was created or last moved.
func (s *BookingService) transition(ctx context.Context, actor models.Actor, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	if err := authorize(actor, policy.BookingTransition); err != nil {
		return nil, err
	}

	booking, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.lookupErr(err, bookingID)
	}
	from := models.BookingStatus(booking.Status)
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
	}

	now := s.now()
	err = s.store.Bookings.UpdateStatus(ctx, bookingID, from, to, now)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: booking changed concurrently", ErrConflict)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("Error updating booking status")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}

	booking.Status = string(to)
	booking.UpdatedAt = now
	s.logger.Info().Str("booking_id", bookingID).Str("status", booking.Status).Str("admin_id", actor.UserID).Msg("Booking status changed")
	return booking, nil
}

// List returns the caller's bookings, or every booking for an admin.
// status optionally narrows the result.
func (s *BookingService) List(ctx context.Context, actor models.Actor, status string) ([]models.Booking, error) {
	if err := authorize(actor, policy.BookingReadOwn); err != nil {
		return nil, err
	}
	if status != "" && !models.BookingStatus(status).Valid() {
		return nil, fmt.Errorf("%w: status must be pending, confirmed or rejected", ErrValidation)
	}

	userID := actor.UserID
	if policy.CanPerform(actor.Role, policy.BookingListAll) {
		userID = ""
	}

	list, err := s.store.Bookings.List(ctx, userID, status)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.UserID).Msg("Error listing bookings")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	return list, nil
}

// Get returns one booking. Non-admins only see their own.
func (s *BookingService) Get(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if err := authorize(actor, policy.BookingReadOwn); err != nil {
		return nil, err
	}

	var booking *models.Booking
	var err error
	if policy.CanPerform(actor.Role, policy.BookingListAll) {
		booking, err = s.store.Bookings.GetByID(ctx, bookingID)
	} else {
		booking, err = s.store.Bookings.GetOwned(ctx, bookingID, actor.UserID)
	}
	if err != nil {
		return nil, s.lookupErr(err, bookingID)
	}
	return booking, nil
}

// Update moves the dates of the caller's own pending booking, re-checking
// availability against every other booking on the property.
func (s *BookingService) Update(ctx context.Context, actor models.Actor, bookingID string, req *models.UpdateBookingRequest) (*models.Booking, error) {
	if err := authorize(actor, policy.BookingUpdateOwn); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var booking *models.Booking
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		booking, err = tx.Bookings.GetOwned(ctx, bookingID, actor.UserID)
		if err != nil {
			return s.lookupErr(err, bookingID)
		}
		if booking.Status != string(models.BookingStatusPending) {
			return fmt.Errorf("%w: only pending bookings can be changed", ErrConflict)
		}

		if _, err := tx.Properties.GetForUpdate(ctx, booking.PropertyID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: property not found", ErrNotFound)
			}
			s.logger.Error().Err(err).Str("property_id", booking.PropertyID).Msg("Error locking property")
			return fmt.Errorf("%w: database error", ErrInternal)
		}
		if err := s.checkAvailability(ctx, tx, booking.PropertyID, start, end, booking.ID); err != nil {
			return err
		}

		now := s.now()
		if err := tx.Bookings.UpdateDates(ctx, booking.ID, actor.UserID, start, end, now); err != nil {
			return s.lookupErr(err, bookingID)
		}
		booking.StartDate = start
		booking.EndDate = end
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, s.txErr(err)
	}

	s.logger.Info().Str("booking_id", bookingID).Str("user_id", actor.UserID).Msg("Booking dates updated")
	return booking, nil
}

// Delete removes the caller's own booking unless it has been confirmed.
func (s *BookingService) Delete(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if err := authorize(actor, policy.BookingDeleteOwn); err != nil {
		return nil, err
	}

	booking, err := s.store.Bookings.GetOwned(ctx, bookingID, actor.UserID)
	if err != nil {
		return nil, s.lookupErr(err, bookingID)
	}
	if booking.Status == string(models.BookingStatusConfirmed) {
		return nil, fmt.Errorf("%w: confirmed bookings cannot be deleted", ErrConflict)
	}

	if err := s.store.Bookings.DeleteOwned(ctx, bookingID, actor.UserID); err != nil {
		return nil, s.lookupErr(err, bookingID)
	}

	s.logger.Info().Str("booking_id", bookingID).Str("user_id", actor.UserID).Msg("Booking deleted")
	return booking, nil
}

func (s *BookingService) lookupErr(err error, bookingID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: booking not found", ErrNotFound)
	}
	s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("Error fetching booking")
	return fmt.Errorf("%w: database error", ErrInternal)
}

// txErr passes taxonomy errors through and hides transaction plumbing errors.
func (s *BookingService) txErr(err error) error {
	for _, known := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrForbidden, ErrInternal} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error().Err(err).Msg("Booking transaction failed")
	return fmt.Errorf("%w: database error", ErrInternal)
}
