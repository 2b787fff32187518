package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	bookingserrors "concierge/internal/bookings/errors"
	"concierge/internal/bookings/events"
	"concierge/internal/bookings/repository"
	"concierge/internal/bookings/validator"
	"concierge/pkg/config"
	apperrors "concierge/pkg/errors"
	"concierge/pkg/model"
	"concierge/pkg/sanitizer"
	"concierge/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const publishTimeout = 5 * time.Second

type BookingService interface {
	Create(ctx context.Context, identity *model.Identity, req *model.BookingRequest) (*model.Booking, error)
	ListMine(ctx context.Context, identity *model.Identity) ([]*model.Booking, error)
	Cancel(ctx context.Context, identity *model.Identity, id string) (*model.Booking, error)
	Confirm(ctx context.Context, identity *model.Identity, id string, paymentID string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	events    events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) Create(ctx context.Context, identity *model.Identity, req *model.BookingRequest) (*model.Booking, error) {
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	booking := s.build(identity, req)
	if math.IsInf(booking.Total, 0) || math.IsNaN(booking.Total) {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"price": "total is out of range"})
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "owner_id", identity.ID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"owner_id", booking.OwnerID,
		"booking_type", booking.BookingType,
		"nights", booking.Nights,
		"total", booking.Total,
	)
	s.publish(ctx, model.EventBookingCreated, identity, booking)
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, identity *model.Identity) ([]*model.Booking, error) {
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	bookings, err := s.repo.FindByOwner(ctx, identity.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "owner_id", identity.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// Cancel moves a pending or confirmed booking to cancelled. Cancelling an
// already cancelled booking returns it unchanged.
func (s *bookingService) Cancel(ctx context.Context, identity *model.Identity, id string) (*model.Booking, error) {
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var result *model.Booking
	var transitioned bool
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		transitioned = false

		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapRepoError(err, id, "Failed to retrieve booking")
		}
		if booking.OwnerID != identity.ID {
			return apperrors.Forbidden("You can only cancel your own bookings")
		}
		if booking.Status == model.BookingStatusCancelled {
			result = booking
			return nil
		}

		updated, err := s.repo.UpdateStatus(sessCtx, id, repository.StatusChange{
			From: []string{model.BookingStatusPending, model.BookingStatusConfirmed},
			To:   model.BookingStatusCancelled,
			At:   s.now(),
		})
		if err != nil {
			return s.mapRepoError(err, id, "Failed to cancel booking")
		}
		result, transitioned = updated, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		s.cfg.Log.Info("Booking cancelled", "booking_id", id, "owner_id", identity.ID)
		s.publish(ctx, model.EventBookingCancelled, identity, result)
	}
	return result, nil
}

// Confirm records payment capture on a pending booking. Confirming twice is a
// no-op and a cancelled booking can never be confirmed.
func (s *bookingService) Confirm(ctx context.Context, identity *model.Identity, id string, paymentID string) (*model.Booking, error) {
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	paymentID = sanitizer.TrimAndNormalize(paymentID)

	var result *model.Booking
	var transitioned bool
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		transitioned = false

		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapRepoError(err, id, "Failed to retrieve booking")
		}
		if booking.OwnerID != identity.ID {
			return apperrors.Forbidden("You can only confirm your own bookings")
		}

		switch booking.Status {
		case model.BookingStatusConfirmed:
			result = booking
			return nil
		case model.BookingStatusCancelled:
			return apperrors.Conflict("Cancelled bookings cannot be confirmed")
		}

		updated, err := s.repo.UpdateStatus(sessCtx, id, repository.StatusChange{
			From:      []string{model.BookingStatusPending},
			To:        model.BookingStatusConfirmed,
			At:        s.now(),
			PaymentID: paymentID,
		})
		if err != nil {
			return s.mapRepoError(err, id, "Failed to confirm booking")
		}
		result, transitioned = updated, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		s.cfg.Log.Info("Booking confirmed", "booking_id", id, "owner_id", identity.ID, "payment_id", paymentID)
		s.publish(ctx, model.EventBookingConfirmed, identity, result)
	}
	return result, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(req *model.BookingRequest) {
	if req == nil {
		return
	}
	req.HotelName = sanitizer.NormalizeName(req.HotelName)
	req.Location = sanitizer.NormalizeLocation(req.Location)
	req.RoomType = sanitizer.TrimAndNormalize(req.RoomType)
	req.Kind = sanitizer.TrimAndNormalize(req.Kind)
}

func (s *bookingService) validate(req *model.BookingRequest) error {
	err := s.validator.Validate(req)
	if err == nil {
		return nil
	}

	s.cfg.Log.Warn("Booking validation failed", "error", err)
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Booking validation failed", verrs.Details())
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}

func (s *bookingService) build(identity *model.Identity, req *model.BookingRequest) *model.Booking {
	checkIn, _ := model.ParseBookingDate(req.CheckIn)
	checkOut, _ := model.ParseBookingDate(req.CheckOut)
	nights := model.Nights(checkIn, checkOut)

	kind := req.Kind
	if kind == "" {
		kind = model.KindHotel
	}

	total := req.Price
	if model.IsLodging(kind) {
		total = req.Price * float64(nights)
	}

	booking := &model.Booking{
		OwnerID:     identity.ID,
		OwnerKind:   identity.Kind,
		HotelName:   req.HotelName,
		Kind:        kind,
		RoomType:    req.RoomType,
		Location:    req.Location,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Nights:      nights,
		Guests:      req.Guests,
		Price:       req.Price,
		Total:       math.Round(total*100) / 100,
		Currency:    model.DefaultCurrency,
		Status:      model.BookingStatusPending,
		BookingType: model.BookingTypeRegular,
	}
	if identity.IsMember() && identity.Member != nil {
		member := *identity.Member
		booking.Member = &member
		booking.BookingType = model.BookingTypeExclusiveMember
	}
	if booking.OwnerKind == "" {
		booking.OwnerKind = model.IdentityUser
	}
	return booking
}

func (s *bookingService) mapRepoError(err error, id string, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrStatusChanged):
		return apperrors.Conflict("Booking was modified concurrently, please retry")
	default:
		s.cfg.Log.Error(message, "booking_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

// publish never fails the caller. The event outlives the request context so
// a client disconnect does not drop it.
func (s *bookingService) publish(ctx context.Context, eventType string, identity *model.Identity, booking *model.Booking) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := &model.BookingEvent{
		Type:       eventType,
		Booking:    *booking,
		OwnerEmail: identity.Email,
		OwnerName:  identity.Name,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
