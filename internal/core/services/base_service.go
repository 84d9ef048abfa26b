package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides the logging, clock and id helpers every service shares.
type BaseService struct {
	Now   func() time.Time
	NewID func() string
	// Location decides where calendar days start for date filters and reports.
	Location *time.Location
}

func newBaseService() BaseService {
	return BaseService{
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
		Location: time.UTC,
	}
}

// ServiceOption customises the shared parts of a service.
type ServiceOption func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(b *BaseService) {
		b.Now = now
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(b *BaseService) {
		b.NewID = gen
	}
}

// WithLocation sets the time zone used for calendar days.
func WithLocation(loc *time.Location) ServiceOption {
	return func(b *BaseService) {
		if loc != nil {
			b.Location = loc
		}
	}
}

func applyOptions(opts []ServiceOption) BaseService {
	base := newBaseService()
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogFailure logs a failed unit of work at a level that matches its kind. Rejected input is a
// warning, a failed rollback is flagged as an integrity violation, anything else is an error.
func (s *BaseService) LogFailure(ctx context.Context, err error, op string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("operation", op), slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger := s.GetLogger(ctx)
	switch {
	case errors.Is(err, apperrors.ErrIntegrity):
		args = append(args, slog.Bool("integrity_violation", true))
		logger.Error("ledger integrity failure", args...)
	case isBusinessError(err):
		logger.Warn("request rejected", args...)
	default:
		logger.Error("operation failed", args...)
	}
}

func isBusinessError(err error) bool {
	for _, kind := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrForbidden,
		apperrors.ErrInsufficientStock,
		apperrors.ErrNegativeStockGuard,
		apperrors.ErrOverSettlement,
		apperrors.ErrConsistencyViolation,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// AuthorizeShop rejects access to a record owned by another shop.
func (s *BaseService) AuthorizeShop(ctx context.Context, callerShopID, ownerShopID, what, id string) error {
	if callerShopID == ownerShopID {
		return nil
	}
	s.GetLogger(ctx).Warn("cross-shop access rejected",
		slog.String("shop_id", callerShopID),
		slog.String("resource", what),
		slog.String("resource_id", id))
	return fmt.Errorf("%w: %s %s", apperrors.ErrUnauthorizedModification, what, id)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

func consistencyError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrConsistencyViolation, fmt.Sprintf(format, args...))
}
