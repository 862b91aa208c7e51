package wallet

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/ganzorig/lastplayer/internal/services/wallet Service

import (
	"context"
)

// Service handles the manual-approval money flow: players file deposit and
// withdrawal requests, organizers resolve them, and only a completed
// resolution moves balance.
type Service interface {
	// RequestDeposit files a pending deposit request
	RequestDeposit(ctx context.Context, input *RequestDepositInput) (*RequestDepositOutput, error)

	// RequestWithdrawal files a pending withdrawal request
	RequestWithdrawal(ctx context.Context, input *RequestWithdrawalInput) (*RequestWithdrawalOutput, error)

	// ListPlayerRequests returns one player's request history
	ListPlayerRequests(ctx context.Context, input *ListPlayerRequestsInput) (*ListPlayerRequestsOutput, error)

	// ListPendingRequests returns every request awaiting an organizer
	ListPendingRequests(ctx context.Context, input *ListPendingRequestsInput) (*ListPendingRequestsOutput, error)

	// ResolveRequest approves or rejects a pending request; approval moves
	// the money
	ResolveRequest(ctx context.Context, input *ResolveRequestInput) (*ResolveRequestOutput, error)
}
