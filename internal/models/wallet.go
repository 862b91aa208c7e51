package models

import (
	"time"
)

// WalletRequestKind distinguishes deposits from withdrawals
type WalletRequestKind string

const (
	WalletRequestDeposit    WalletRequestKind = "deposit"
	WalletRequestWithdrawal WalletRequestKind = "withdrawal"
)

// WalletRequestStatus is the resolution state of a request
type WalletRequestStatus string

const (
	// WalletRequestPending means an operator has not acted on the request yet
	WalletRequestPending WalletRequestStatus = "pending"

	// WalletRequestCompleted means the operator approved and applied the request
	WalletRequestCompleted WalletRequestStatus = "completed"

	// WalletRequestRejected means the operator declined the request
	WalletRequestRejected WalletRequestStatus = "rejected"
)

// BankAccount holds the external account details attached to a request
type BankAccount struct {
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	AccountHolderName string `json:"accountHolderName"`
	IBAN              string `json:"iban,omitempty"`
}

// WalletRequest is a pending manual-approval money movement. Operators
// resolve these out-of-band; resolution is one-way.
type WalletRequest struct {
	// ID is the unique identifier for the request
	ID string `json:"id"`

	// Kind is deposit or withdrawal
	Kind WalletRequestKind `json:"kind"`

	// PlayerUID is the user the request belongs to
	PlayerUID string `json:"playerUid"`

	// PlayerName is the display name captured at request time
	PlayerName string `json:"playerName"`

	// Amount is the requested amount
	Amount int64 `json:"amount"`

	// BankAccount is the external account involved
	BankAccount BankAccount `json:"bankAccount"`

	// Status is pending until an operator resolves the request
	Status WalletRequestStatus `json:"status"`

	// RequestedAt is when the request was filed
	RequestedAt time.Time `json:"requestedAt"`

	// ProcessedAt is when the operator resolved the request
	ProcessedAt *time.Time `json:"processedAt,omitempty"`

	// ProcessedBy is the operator who resolved the request
	ProcessedBy string `json:"processedBy,omitempty"`
}
