package repository

import (
	"context"
	"strings"
	"time"

	"rental-booking/internal/models"

	"github.com/jmoiron/sqlx"
)

type BookingRepository struct {
	q Querier
}

const bookingColumns = "id, user_id, property_id, start_date, end_date, price, status, contact, created_at, updated_at"

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO bookings (id, user_id, property_id, start_date, end_date, price, status, contact, created_at, updated_at)
		VALUES (:id, :user_id, :property_id, :start_date, :end_date, :price, :status, :contact, :created_at, :updated_at)`, b)
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.q.GetContext(ctx, &b, r.q.Rebind("SELECT "+bookingColumns+" FROM bookings WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// GetOwned looks a booking up by id and owner. A booking owned by someone
// else is reported as ErrNotFound.
func (r *BookingRepository) GetOwned(ctx context.Context, id, userID string) (*models.Booking, error) {
	var b models.Booking
	err := r.q.GetContext(ctx, &b,
		r.q.Rebind("SELECT "+bookingColumns+" FROM bookings WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// List returns bookings newest first. Empty userID or status means no filter.
func (r *BookingRepository) List(ctx context.Context, userID, status string) ([]models.Booking, error) {
	var where []string
	var args []interface{}
	if userID != "" {
		where = append(where, "user_id = ?")
		args = append(args, userID)
	}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, status)
	}

	query := "SELECT " + bookingColumns + " FROM bookings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	list := []models.Booking{}
	err := r.q.SelectContext(ctx, &list, r.q.Rebind(query), args...)
	return list, err
}

// HasOverlap reports whether a non-rejected booking on the property
// intersects the half-open range [start, end). excludeID skips one booking,
// used when a booking's own dates are being moved.
func (r *BookingRepository) HasOverlap(ctx context.Context, propertyID string, start, end time.Time, excludeID string) (bool, error) {
	var n int
	err := r.q.GetContext(ctx, &n, r.q.Rebind(`
		SELECT COUNT(*) FROM bookings
		WHERE property_id = ? AND status <> ? AND start_date < ? AND end_date > ? AND id <> ?`),
		propertyID, string(models.BookingStatusRejected), end, start, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateDates moves a pending booking owned by userID.
func (r *BookingRepository) UpdateDates(ctx context.Context, id, userID string, start, end, now time.Time) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE bookings SET start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND status = ?`),
		start, end, now, id, userID, string(models.BookingStatusPending))
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// UpdateStatus applies from -> to only if the booking is still in state from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, now time.Time) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`),
		string(to), now, id, string(from))
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeleteOwned removes a booking owned by userID that is not confirmed.
func (r *BookingRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		DELETE FROM bookings WHERE id = ? AND user_id = ? AND status <> ?`),
		id, userID, string(models.BookingStatusConfirmed))
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
