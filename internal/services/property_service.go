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

// PropertyService is the property catalog. Every change to the live catalog
// goes through a pending request that an admin approves or rejects.
type PropertyService struct {
	store  *repository.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewPropertyService(store *repository.Store, logger zerolog.Logger) *PropertyService {
	return &PropertyService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func normalizeInput(in *models.PropertyInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.District = strings.TrimSpace(in.District)
	in.Image = strings.TrimSpace(in.Image)
}

func (s *PropertyService) newRecord(in *models.PropertyInput, rt models.RequestType, originalID *string) *models.Property {
	now := s.now()
	return &models.Property{
		ID:                 uuid.NewString(),
		Title:              in.Title,
		Description:        in.Description,
		ContactName:        in.ContactName,
		ContactNumber:      in.ContactNumber,
		PropertyType:       in.PropertyType,
		Price:              in.Price,
		District:           in.District,
		Image:              in.Image,
		Status:             string(models.PropertyStatusPending),
		RequestType:        string(rt),
		OriginalPropertyID: originalID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Submit files a request to add a new property to the catalog.
func (s *PropertyService) Submit(ctx context.Context, actor models.Actor, in *models.PropertyInput) (*models.Property, error) {
	if err := authorize(actor, policy.PropertySubmit); err != nil {
		return nil, err
	}
	normalizeInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	p := s.newRecord(in, models.RequestTypeAdd, nil)
	if err := s.store.Properties.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("Error creating property request")
		return nil, fmt.Errorf("%w: failed to submit property", ErrInternal)
	}

	s.logger.Info().Str("property_id", p.ID).Str("user_id", actor.UserID).Msg("Property submitted for approval")
	return p, nil
}

// RequestUpdate files a pending copy of an approved property carrying the new
// details. Approval copies them onto the original.
func (s *PropertyService) RequestUpdate(ctx context.Context, actor models.Actor, originalID string, in *models.PropertyInput) (*models.Property, error) {
	if err := authorize(actor, policy.PropertySubmit); err != nil {
		return nil, err
	}
	normalizeInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	id := originalID
	p := s.newRecord(in, models.RequestTypeUpdate, &id)
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := s.lockApproved(ctx, tx, originalID); err != nil {
			return err
		}
		if err := tx.Properties.Create(ctx, p); err != nil {
			s.logger.Error().Err(err).Str("original_property_id", originalID).Msg("Error creating update request")
			return fmt.Errorf("%w: failed to submit update request", ErrInternal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("property_id", p.ID).Str("original_property_id", originalID).Msg("Property update requested")
	return p, nil
}

// RequestDelete flags an approved property as a pending delete request. The
// property drops out of the public catalog until an admin decides.
func (s *PropertyService) RequestDelete(ctx context.Context, actor models.Actor, id string) (*models.Property, error) {
	if err := authorize(actor, policy.PropertySubmit); err != nil {
		return nil, err
	}

	var p *models.Property
	now := s.now()
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		p, err = s.lockApproved(ctx, tx, id)
		if err != nil {
			return err
		}

		open, err := tx.Properties.CountUpdateRequests(ctx, id)
		if err != nil {
			return s.storageErr(err, id, "Error checking update requests")
		}
		if open > 0 {
			return fmt.Errorf("%w: property has pending update requests", ErrConflict)
		}

		err = tx.Properties.SetState(ctx, id, models.PropertyStatusPending, models.RequestTypeDelete, &id, now)
		if err != nil {
			return s.storageErr(err, id, "Error creating delete request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	self := id
	p.Status = string(models.PropertyStatusPending)
	p.RequestType = string(models.RequestTypeDelete)
	p.OriginalPropertyID = &self
	p.UpdatedAt = now

	s.logger.Info().Str("property_id", id).Msg("Property delete requested")
	return p, nil
}

// Approve applies a pending request to the live catalog.
func (s *PropertyService) Approve(ctx context.Context, actor models.Actor, id string) (string, error) {
	if err := authorize(actor, policy.PropertyModerate); err != nil {
		return "", err
	}

	var msg string
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		req, err := s.pending(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.now()

		switch models.RequestType(req.RequestType) {
		case models.RequestTypeDelete:
			if _, err := tx.Properties.DeleteUpdateRequests(ctx, req.ID); err != nil {
				return s.storageErr(err, req.ID, "Error removing update requests")
			}
			if err := tx.Properties.Delete(ctx, req.ID); err != nil {
				return s.storageErr(err, req.ID, "Error deleting property")
			}
			msg = "Property deleted."

		case models.RequestTypeUpdate:
			if req.OriginalPropertyID == nil {
				return fmt.Errorf("%w: update request has no original property", ErrNotFound)
			}
			original, err := tx.Properties.GetForUpdate(ctx, *req.OriginalPropertyID)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: original property not found", ErrNotFound)
			}
			if err != nil {
				return s.storageErr(err, req.ID, "Error loading original property")
			}
			applyUpdate(original, req, now)
			if err := tx.Properties.UpdateDetails(ctx, original); err != nil {
				return s.storageErr(err, original.ID, "Error updating original property")
			}
			if err := tx.Properties.Delete(ctx, req.ID); err != nil {
				return s.storageErr(err, req.ID, "Error removing update request")
			}
			msg = "Property updated successfully."

		default:
			err := tx.Properties.SetState(ctx, req.ID, models.PropertyStatusApproved, models.RequestTypeAdd, nil, now)
			if err != nil {
				return s.storageErr(err, req.ID, "Error approving property")
			}
			msg = "Property approved."
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("property_id", id).Str("admin_id", actor.UserID).Msg(msg)
	return msg, nil
}

// Reject discards a pending request. A rejected delete request puts the
// property back in the catalog unchanged.
func (s *PropertyService) Reject(ctx context.Context, actor models.Actor, id string) (string, error) {
	if err := authorize(actor, policy.PropertyModerate); err != nil {
		return "", err
	}

	var msg string
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		req, err := s.pending(ctx, tx, id)
		if err != nil {
			return err
		}

		if models.RequestType(req.RequestType) == models.RequestTypeDelete {
			err := tx.Properties.SetState(ctx, req.ID, models.PropertyStatusApproved, models.RequestTypeAdd, nil, s.now())
			if err != nil {
				return s.storageErr(err, req.ID, "Error restoring property")
			}
			msg = "Delete request rejected. Property restored."
			return nil
		}

		if err := tx.Properties.Delete(ctx, req.ID); err != nil {
			return s.storageErr(err, req.ID, "Error deleting rejected request")
		}
		msg = "Request rejected and deleted."
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("property_id", id).Str("admin_id", actor.UserID).Msg(msg)
	return msg, nil
}

func (s *PropertyService) ListPending(ctx context.Context, actor models.Actor) ([]models.Property, error) {
	if err := authorize(actor, policy.PropertyModerate); err != nil {
		return nil, err
	}
	list, err := s.store.Properties.ListByStatus(ctx, models.PropertyStatusPending)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing pending properties")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	return list, nil
}

func (s *PropertyService) ListApproved(ctx context.Context, f models.PropertyFilter) ([]models.Property, error) {
	if f.PropertyType != "" && f.PropertyType != string(models.PropertyTypeRent) && f.PropertyType != string(models.PropertyTypeSelling) {
		return nil, fmt.Errorf("%w: propertyType must be rent or selling", ErrValidation)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, fmt.Errorf("%w: minPrice must not exceed maxPrice", ErrValidation)
	}
	list, err := s.store.Properties.ListApproved(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing properties")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	return list, nil
}

// GetApproved returns a property only if it is publicly visible.
func (s *PropertyService) GetApproved(ctx context.Context, id string) (*models.Property, error) {
	return s.approved(ctx, id)
}

func (s *PropertyService) approved(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.store.Properties.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", id).Msg("Error fetching property")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	if p.Status != string(models.PropertyStatusApproved) {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	return p, nil
}

// lockApproved loads a live catalog entry under a row lock.
func (s *PropertyService) lockApproved(ctx context.Context, tx *repository.Store, id string) (*models.Property, error) {
	p, err := tx.Properties.GetForUpdate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	if err != nil {
		return nil, s.storageErr(err, id, "Error fetching property")
	}
	if p.Status != string(models.PropertyStatusApproved) {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	return p, nil
}

func (s *PropertyService) pending(ctx context.Context, tx *repository.Store, id string) (*models.Property, error) {
	p, err := tx.Properties.GetForUpdate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: request not found", ErrNotFound)
	}
	if err != nil {
		return nil, s.storageErr(err, id, "Error fetching property request")
	}
	if p.Status != string(models.PropertyStatusPending) {
		return nil, fmt.Errorf("%w: property has no pending request", ErrConflict)
	}
	return p, nil
}

func (s *PropertyService) storageErr(err error, id, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: property not found", ErrNotFound)
	}
	s.logger.Error().Err(err).Str("property_id", id).Msg(msg)
	return fmt.Errorf("%w: database error", ErrInternal)
}

func applyUpdate(original, req *models.Property, now time.Time) {
	original.Title = req.Title
	original.Description = req.Description
	original.ContactName = req.ContactName
	original.ContactNumber = req.ContactNumber
	original.PropertyType = req.PropertyType
	original.District = req.District
	original.Price = req.Price
	if req.Image != "" {
		original.Image = req.Image
	}
	original.UpdatedAt = now
}
