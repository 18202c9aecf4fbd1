package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// counterpartyService implements counterparty management and field
// configuration resolution.
type counterpartyService struct {
	BaseService
	counterpartyRepo      portsrepo.CounterpartyRepositoryFacade
	defaultCounterpartyID string
}

// NewCounterpartyService creates a new counterparty service.
func NewCounterpartyService(counterpartyRepo portsrepo.CounterpartyRepositoryFacade, defaultCounterpartyID string) portssvc.CounterpartySvcFacade {
	return &counterpartyService{
		counterpartyRepo:      counterpartyRepo,
		defaultCounterpartyID: defaultCounterpartyID,
	}
}

var _ portssvc.CounterpartySvcFacade = (*counterpartyService)(nil)

func (s *counterpartyService) FindCounterpartyByID(ctx context.Context, counterpartyID string) (*domain.Counterparty, error) {
	return s.counterpartyRepo.FindCounterpartyByID(ctx, counterpartyID)
}

func (s *counterpartyService) ListCounterparties(ctx context.Context, limit, offset int) ([]domain.Counterparty, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.counterpartyRepo.ListCounterparties(ctx, limit, offset)
}

// ResolveFieldConfig returns the counterparty's required-field configuration.
// A counterparty without its own configuration inherits the default
// counterparty's one.
func (s *counterpartyService) ResolveFieldConfig(ctx context.Context, counterpartyID string) (domain.FieldConfig, error) {
	counterparty, err := s.counterpartyRepo.FindCounterpartyByID(ctx, counterpartyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: counterparty %s does not exist", apperrors.ErrConfiguration, counterpartyID)
		}
		return nil, err
	}
	if len(counterparty.FieldConfig) > 0 || counterpartyID == s.defaultCounterpartyID {
		return counterparty.FieldConfig, nil
	}

	fallback, err := s.counterpartyRepo.FindCounterpartyByID(ctx, s.defaultCounterpartyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: default counterparty %s does not exist", apperrors.ErrConfiguration, s.defaultCounterpartyID)
		}
		return nil, err
	}
	return fallback.FieldConfig, nil
}

func (s *counterpartyService) CreateCounterparty(ctx context.Context, name string, creatorUserID string) (*domain.Counterparty, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: counterparty name is required", apperrors.ErrValidation)
	}
	now := time.Now()
	counterparty := domain.Counterparty{
		CounterpartyID: uuid.NewString(),
		Name:           name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.counterpartyRepo.SaveCounterparty(ctx, counterparty); err != nil {
		s.LogError(ctx, err, "Failed to save counterparty", slog.String("name", name))
		return nil, err
	}
	return &counterparty, nil
}

func (s *counterpartyService) UpdateFieldConfig(ctx context.Context, counterpartyID string, cfg domain.FieldConfig, actorID string) error {
	for key := range cfg {
		if !domain.IsKnownFieldKey(key) {
			return fmt.Errorf("%w: unknown field key %q", apperrors.ErrValidation, key)
		}
	}
	if err := s.counterpartyRepo.UpdateFieldConfig(ctx, counterpartyID, cfg, actorID); err != nil {
		s.LogError(ctx, err, "Failed to update field config",
			slog.String("counterparty_id", counterpartyID))
		return err
	}
	s.LogInfo(ctx, "Field config updated", slog.String("counterparty_id", counterpartyID))
	return nil
}
