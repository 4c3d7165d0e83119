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

type InquiryService struct {
	store  *repository.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewInquiryService(store *repository.Store, logger zerolog.Logger) *InquiryService {
	return &InquiryService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit opens an inquiry on one of the caller's bookings. A booking that
// belongs to someone else is reported as not found.
func (s *InquiryService) Submit(ctx context.Context, actor models.Actor, req *models.SubmitInquiryRequest) (*models.Inquiry, error) {
	if err := authorize(actor, policy.InquirySubmit); err != nil {
		return nil, err
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	_, err := s.store.Bookings.GetOwned(ctx, req.BookingID, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: booking not found or access denied", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", req.BookingID).Msg("Error fetching booking for inquiry")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}

	now := s.now()
	inquiry := &models.Inquiry{
		ID:        uuid.NewString(),
		BookingID: req.BookingID,
		UserID:    actor.UserID,
		Message:   req.Message,
		Response:  "",
		Status:    string(models.InquiryStatusPending),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Inquiries.Create(ctx, inquiry); err != nil {
		s.logger.Error().Err(err).Msg("Error creating inquiry")
		return nil, fmt.Errorf("%w: failed to submit inquiry", ErrInternal)
	}

	s.logger.Info().Str("inquiry_id", inquiry.ID).Str("booking_id", req.BookingID).Msg("Inquiry submitted")
	return inquiry, nil
}

func (s *InquiryService) Respond(ctx context.Context, actor models.Actor, inquiryID string, req *models.RespondInquiryRequest) (*models.Inquiry, error) {
	if err := authorize(actor, policy.InquiryRespond); err != nil {
		return nil, err
	}
	req.Response = strings.TrimSpace(req.Response)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if err := s.store.Inquiries.Respond(ctx, inquiryID, req.Response, s.now()); err != nil {
		return nil, s.lookupErr(err, inquiryID)
	}

	inquiry, err := s.store.Inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, s.lookupErr(err, inquiryID)
	}

	s.logger.Info().Str("inquiry_id", inquiryID).Str("admin_id", actor.UserID).Msg("Inquiry answered")
	return inquiry, nil
}

func (s *InquiryService) ListOwn(ctx context.Context, actor models.Actor) ([]models.Inquiry, error) {
	if err := authorize(actor, policy.InquiryListOwn); err != nil {
		return nil, err
	}
	list, err := s.store.Inquiries.ListByUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.UserID).Msg("Error listing inquiries")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	return list, nil
}

func (s *InquiryService) ListAll(ctx context.Context, actor models.Actor) ([]models.Inquiry, error) {
	if err := authorize(actor, policy.InquiryListAll); err != nil {
		return nil, err
	}
	list, err := s.store.Inquiries.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing all inquiries")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	return list, nil
}

func (s *InquiryService) lookupErr(err error, inquiryID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: inquiry not found", ErrNotFound)
	}
	s.logger.Error().Err(err).Str("inquiry_id", inquiryID).Msg("Error updating inquiry")
	return fmt.Errorf("%w: database error", ErrInternal)
}
