package wallet

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/ganzorig/lastplayer/internal/repositories/wallet Repository

import (
	"context"

	"github.com/ganzorig/lastplayer/internal/models"
)

// Repository stores deposit and withdrawal requests. Requests move through
// exactly one transition, pending to completed or pending to rejected, and
// carry an audit trail of who resolved them.
type Repository interface {
	// CreateRequest records a new pending deposit or withdrawal request
	CreateRequest(ctx context.Context, input *CreateRequestInput) error

	// GetRequest retrieves a request by ID
	GetRequest(ctx context.Context, input *GetRequestInput) (*models.WalletRequest, error)

	// GetPendingRequests retrieves all requests still awaiting resolution
	GetPendingRequests(ctx context.Context) ([]*models.WalletRequest, error)

	// GetRequestsForPlayer retrieves all requests filed by one player
	GetRequestsForPlayer(ctx context.Context, input *GetRequestsForPlayerInput) ([]*models.WalletRequest, error)

	// ResolveRequest moves a pending request to completed or rejected,
	// stamping who processed it and when
	ResolveRequest(ctx context.Context, input *ResolveRequestInput) (*models.WalletRequest, error)
}
