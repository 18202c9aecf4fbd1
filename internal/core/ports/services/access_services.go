package services

import (
	"context"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
)

// AccessAuthorizerSvc decides whether an acting user may read or mutate an
// employee record. Denials surface as apperrors.ErrForbidden (wrapped with a
// reason); the handler chooses whether to report 403 or 404.
type AccessAuthorizerSvc interface {
	Authorize(ctx context.Context, actor domain.User, employeeID string, op domain.Operation) error
}
