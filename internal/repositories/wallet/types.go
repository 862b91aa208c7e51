package wallet

import (
	"time"

	"github.com/ganzorig/lastplayer/internal/models"
)

// CreateRequestInput contains parameters for recording a request
type CreateRequestInput struct {
	Request *models.WalletRequest
}

// GetRequestInput contains parameters for retrieving a request
type GetRequestInput struct {
	RequestID string
}

// GetRequestsForPlayerInput contains parameters for listing a player's requests
type GetRequestsForPlayerInput struct {
	UID string
}

// ResolveRequestInput contains parameters for resolving a pending request
type ResolveRequestInput struct {
	RequestID string

	// Status is the terminal status, completed or rejected
	Status models.WalletRequestStatus

	// ProcessedBy is the UID of the organizer resolving the request
	ProcessedBy string

	// ProcessedAt is when the resolution happened
	ProcessedAt time.Time
}
