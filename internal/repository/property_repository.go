package repository

import (
	"context"
	"strings"
	"time"

	"rental-booking/internal/db"
	"rental-booking/internal/models"

	"github.com/jmoiron/sqlx"
)

type PropertyRepository struct {
	q       Querier
	dialect db.Dialect
}

// likeEscaper makes user input match literally inside a LIKE ... ESCAPE '!' pattern.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

const propertyColumns = `id, title, description, contact_name, contact_number, property_type, price,
	district, image, status, request_type, original_property_id, created_at, updated_at`

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO properties (id, title, description, contact_name, contact_number, property_type, price,
			district, image, status, request_type, original_property_id, created_at, updated_at)
		VALUES (:id, :title, :description, :contact_name, :contact_number, :property_type, :price,
			:district, :image, :status, :request_type, :original_property_id, :created_at, :updated_at)`, p)
	return err
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	err := r.q.GetContext(ctx, &p, r.q.Rebind("SELECT "+propertyColumns+" FROM properties WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetForUpdate reads a property and, on drivers that support it, holds a row
// lock on it until the surrounding transaction ends.
func (r *PropertyRepository) GetForUpdate(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	query := "SELECT " + propertyColumns + " FROM properties WHERE id = ?" + r.dialect.LockClause
	err := r.q.GetContext(ctx, &p, r.q.Rebind(query), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PropertyRepository) ListByStatus(ctx context.Context, status models.PropertyStatus) ([]models.Property, error) {
	list := []models.Property{}
	err := r.q.SelectContext(ctx, &list,
		r.q.Rebind("SELECT "+propertyColumns+" FROM properties WHERE status = ? ORDER BY created_at DESC"), string(status))
	return list, err
}

func (r *PropertyRepository) ListApproved(ctx context.Context, f models.PropertyFilter) ([]models.Property, error) {
	where := []string{"status = ?"}
	args := []interface{}{string(models.PropertyStatusApproved)}

	if f.District != "" {
		where = append(where, "LOWER(district) LIKE ? ESCAPE '!'")
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(f.District))+"%")
	}
	if f.PropertyType != "" {
		where = append(where, "property_type = ?")
		args = append(args, f.PropertyType)
	}
	if f.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *f.MaxPrice)
	}

	query := "SELECT " + propertyColumns + " FROM properties WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at DESC"
	list := []models.Property{}
	err := r.q.SelectContext(ctx, &list, r.q.Rebind(query), args...)
	return list, err
}

// UpdateDetails overwrites the listing fields of a property with those of p.
func (r *PropertyRepository) UpdateDetails(ctx context.Context, p *models.Property) error {
	res, err := sqlx.NamedExecContext(ctx, r.q, `
		UPDATE properties SET title = :title, description = :description, contact_name = :contact_name,
			contact_number = :contact_number, property_type = :property_type, price = :price,
			district = :district, image = :image, updated_at = :updated_at
		WHERE id = :id`, p)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *PropertyRepository) SetState(ctx context.Context, id string, status models.PropertyStatus, requestType models.RequestType, originalID *string, now time.Time) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE properties SET status = ?, request_type = ?, original_property_id = ?, updated_at = ?
		WHERE id = ?`), string(status), string(requestType), originalID, now, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// CountUpdateRequests counts the update requests filed against originalID.
func (r *PropertyRepository) CountUpdateRequests(ctx context.Context, originalID string) (int, error) {
	var n int
	err := r.q.GetContext(ctx, &n, r.q.Rebind(`
		SELECT COUNT(*) FROM properties WHERE original_property_id = ? AND request_type = ?`),
		originalID, string(models.RequestTypeUpdate))
	return n, err
}

// DeleteUpdateRequests removes every update request filed against originalID.
func (r *PropertyRepository) DeleteUpdateRequests(ctx context.Context, originalID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		DELETE FROM properties WHERE original_property_id = ? AND request_type = ?`),
		originalID, string(models.RequestTypeUpdate))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM properties WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
