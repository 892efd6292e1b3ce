package services

import (
	"context"

	"github.com/sahakari/coop_backend/internal/dto"
)

// HomeSvcFacade assembles the role-aware dashboard payload.
type HomeSvcFacade interface {
	GetHome(ctx context.Context, userID string) (*dto.HomeResponse, error)
}
