package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/models"
)

// ErrSubmission wraps every failure reported by the store on insert.
var ErrSubmission = errors.New("registration could not be saved")

// RegistrationStore is the managed table behind the booking flow.
type RegistrationStore interface {
	// Insert saves reg and fills in what the store assigned (id, status, created_at).
	Insert(ctx context.Context, reg *models.Registration) error
	// List returns every registration, newest first.
	List(ctx context.Context) ([]models.Registration, error)
}

type RegistrationService struct {
	store  RegistrationStore
	logger *zap.Logger
	now    func() time.Time
}

func NewRegistrationService(store RegistrationStore, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{store: store, logger: logger, now: time.Now}
}

// Submit stamps the creation date (UTC) and inserts reg. It does not retry.
func (s *RegistrationService) Submit(ctx context.Context, reg models.Registration) (*models.Registration, error) {
	reg.CreatedAt = s.now().UTC().Format("2006-01-02")

	if err := s.store.Insert(ctx, &reg); err != nil {
		s.logger.Error("Failed to insert registration",
			zap.String("class", reg.ClassName),
			zap.String("date", reg.SpecificDate),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	s.logger.Info("Registration saved",
		zap.String("id", reg.ID),
		zap.String("class_day", reg.ClassDay),
		zap.String("class_name", reg.ClassName))
	return &reg, nil
}

// List returns stored registrations, newest first.
func (s *RegistrationService) List(ctx context.Context) ([]models.Registration, error) {
	regs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}
