package repository

import (
	"context"
	"time"

	"rental-booking/internal/models"

	"github.com/jmoiron/sqlx"
)

type InquiryRepository struct {
	q Querier
}

const inquiryColumns = "id, booking_id, user_id, message, response, status, created_at, updated_at"

func (r *InquiryRepository) Create(ctx context.Context, i *models.Inquiry) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO inquiries (id, booking_id, user_id, message, response, status, created_at, updated_at)
		VALUES (:id, :booking_id, :user_id, :message, :response, :status, :created_at, :updated_at)`, i)
	return err
}

func (r *InquiryRepository) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	var i models.Inquiry
	err := r.q.GetContext(ctx, &i, r.q.Rebind("SELECT "+inquiryColumns+" FROM inquiries WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &i, nil
}

func (r *InquiryRepository) ListByUser(ctx context.Context, userID string) ([]models.Inquiry, error) {
	list := []models.Inquiry{}
	err := r.q.SelectContext(ctx, &list,
		r.q.Rebind("SELECT "+inquiryColumns+" FROM inquiries WHERE user_id = ? ORDER BY created_at DESC"), userID)
	return list, err
}

func (r *InquiryRepository) ListAll(ctx context.Context) ([]models.Inquiry, error) {
	list := []models.Inquiry{}
	err := r.q.SelectContext(ctx, &list, "SELECT "+inquiryColumns+" FROM inquiries ORDER BY created_at DESC")
	return list, err
}

func (r *InquiryRepository) Respond(ctx context.Context, id, response string, now time.Time) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE inquiries SET response = ?, status = ?, updated_at = ? WHERE id = ?`),
		response, string(models.InquiryStatusResponded), now, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
