package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/ganzorig/lastplayer/internal/repositories/player Repository

import (
	"context"

	"github.com/ganzorig/lastplayer/internal/models"
)

// Repository is the user directory: profile lookup and balance mutation.
// Balance changes are compare-and-swap guarded so concurrent ticket
// purchases and payouts cannot lose updates.
type Repository interface {
	// SaveProfile persists a user profile
	SaveProfile(ctx context.Context, input *SaveProfileInput) error

	// GetProfile retrieves a profile by UID
	GetProfile(ctx context.Context, input *GetProfileInput) (*models.UserProfile, error)

	// NextPlayerNumber allocates the next site-wide display number
	NextPlayerNumber(ctx context.Context) (int64, error)

	// DebitBalance removes spendable balance, failing on insufficient funds
	DebitBalance(ctx context.Context, input *DebitBalanceInput) error

	// CreditBalance adds spendable balance (deposits, refunds)
	CreditBalance(ctx context.Context, input *CreditBalanceInput) error

	// RecordGameResult applies one finished game to a profile: winnings are
	// credited to both balance and lifetime game winnings, games played is
	// incremented and the highest score updated
	RecordGameResult(ctx context.Context, input *RecordGameResultInput) error
}
