package wallet

import "github.com/ganzorig/lastplayer/internal/models"

// RequestDepositInput contains parameters for filing a deposit request
type RequestDepositInput struct {
	UID         string
	Amount      int64
	BankAccount models.BankAccount
}

// RequestDepositOutput contains the filed request
type RequestDepositOutput struct {
	Request *models.WalletRequest
}

// RequestWithdrawalInput contains parameters for filing a withdrawal request
type RequestWithdrawalInput struct {
	UID         string
	Amount      int64
	BankAccount models.BankAccount
}

// RequestWithdrawalOutput contains the filed request
type RequestWithdrawalOutput struct {
	Request *models.WalletRequest
}

// ListPlayerRequestsInput contains parameters for listing a player's requests
type ListPlayerRequestsInput struct {
	UID string
}

// ListPlayerRequestsOutput contains the player's requests
type ListPlayerRequestsOutput struct {
	Requests []*models.WalletRequest
}

// ListPendingRequestsInput contains parameters for listing pending requests
type ListPendingRequestsInput struct{}

// ListPendingRequestsOutput contains the pending requests
type ListPendingRequestsOutput struct {
	Requests []*models.WalletRequest
}

// ResolveRequestInput contains parameters for resolving a request
type ResolveRequestInput struct {
	RequestID string

	// Approve moves the money; false rejects the request
	Approve bool

	// ResolvedBy is the UID of the organizer acting on the request
	ResolvedBy string
}

// ResolveRequestOutput contains the resolved request
type ResolveRequestOutput struct {
	Request *models.WalletRequest
}
