package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ganzorig/lastplayer/internal/models"
	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
	walletRepo "github.com/ganzorig/lastplayer/internal/repositories/wallet"
)

type WalletServiceTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	players playerRepo.Repository
	service Service
}

func (s *WalletServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	players, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.players = players

	wallets, err := walletRepo.NewRedis(&walletRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	svc, err := New(&Config{
		WalletRepo: wallets,
		PlayerRepo: players,
	})
	s.Require().NoError(err)
	s.service = svc

	s.saveProfile("player-1", models.RolePlayer, 100000)
	s.saveProfile("organizer-1", models.RoleOrganizer, 0)
}

func (s *WalletServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}

func (s *WalletServiceTestSuite) saveProfile(uid string, role models.Role, balance int64) {
	err := s.players.SaveProfile(context.Background(), &playerRepo.SaveProfileInput{
		Profile: &models.UserProfile{
			UID:           uid,
			DisplayName:   uid,
			Role:          role,
			TotalWinnings: balance,
			CreatedAt:     time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		},
	})
	s.Require().NoError(err)
}

func (s *WalletServiceTestSuite) balance(uid string) int64 {
	profile, err := s.players.GetProfile(context.Background(), &playerRepo.GetProfileInput{UID: uid})
	s.Require().NoError(err)
	return profile.TotalWinnings
}

func (s *WalletServiceTestSuite) fileDeposit(uid string, amount int64) *models.WalletRequest {
	output, err := s.service.RequestDeposit(context.Background(), &RequestDepositInput{
		UID:    uid,
		Amount: amount,
		BankAccount: models.BankAccount{
			BankName:      "Khan Bank",
			AccountNumber: "5000123456",
		},
	})
	s.Require().NoError(err)
	return output.Request
}

func (s *WalletServiceTestSuite) TestDepositApprovalCreditsBalance() {
	request := s.fileDeposit("player-1", 50000)
	s.Equal(models.WalletRequestPending, request.Status)
	s.Equal(int64(100000), s.balance("player-1"))

	resolved, err := s.service.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:  request.ID,
		Approve:    true,
		ResolvedBy: "organizer-1",
	})
	s.Require().NoError(err)
	s.Equal(models.WalletRequestCompleted, resolved.Request.Status)
	s.Equal("organizer-1", resolved.Request.ProcessedBy)
	s.Equal(int64(150000), s.balance("player-1"))
}

func (s *WalletServiceTestSuite) TestDepositRejectionMovesNothing() {
	request := s.fileDeposit("player-1", 50000)

	resolved, err := s.service.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:  request.ID,
		Approve:    false,
		ResolvedBy: "organizer-1",
	})
	s.Require().NoError(err)
	s.Equal(models.WalletRequestRejected, resolved.Request.Status)
	s.Equal(int64(100000), s.balance("player-1"))
}

func (s *WalletServiceTestSuite) TestWithdrawalApprovalDebitsBalance() {
	output, err := s.service.RequestWithdrawal(context.Background(), &RequestWithdrawalInput{
		UID:    "player-1",
		Amount: 40000,
	})
	s.Require().NoError(err)

	_, err = s.service.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:  output.Request.ID,
		Approve:    true,
		ResolvedBy: "organizer-1",
	})
	s.Require().NoError(err)
	s.Equal(int64(60000), s.balance("player-1"))
}

func (s *WalletServiceTestSuite) TestWithdrawalOverBalanceRejectedAtFiling() {
	_, err := s.service.RequestWithdrawal(context.Background(), &RequestWithdrawalInput{
		UID:    "player-1",
		Amount: 100001,
	})
	s.Require().ErrorIs(err, ErrInsufficientFunds)
}

func (s *WalletServiceTestSuite) TestResolveRequiresOrganizer() {
	request := s.fileDeposit("player-1", 10000)

	_, err := s.service.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:  request.ID,
		Approve:    true,
		ResolvedBy: "player-1",
	})
	s.Require().ErrorIs(err, ErrNotOrganizer)
}

func (s *WalletServiceTestSuite) TestResolveTwiceFails() {
	request := s.fileDeposit("player-1", 10000)

	_, err := s.service.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:  request.ID,
		Approve:    true,
		ResolvedBy: "organizer-1",
	})
	s.Require().NoError(err)

	_, err = s.service.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:  request.ID,
		Approve:    true,
		ResolvedBy: "organizer-1",
	})
	s.Require().ErrorIs(err, ErrAlreadyResolved)
	s.Equal(int64(110000), s.balance("player-1"))
}

func (s *WalletServiceTestSuite) TestInvalidAmount() {
	_, err := s.service.RequestDeposit(context.Background(), &RequestDepositInput{
		UID:    "player-1",
		Amount: 0,
	})
	s.Require().ErrorIs(err, ErrInvalidAmount)
}

func (s *WalletServiceTestSuite) TestPendingQueue() {
	s.fileDeposit("player-1", 10000)
	s.fileDeposit("player-1", 20000)

	pending, err := s.service.ListPendingRequests(context.Background(), &ListPendingRequestsInput{})
	s.Require().NoError(err)
	s.Len(pending.Requests, 2)

	history, err := s.service.ListPlayerRequests(context.Background(), &ListPlayerRequestsInput{UID: "player-1"})
	s.Require().NoError(err)
	s.Len(history.Requests, 2)
}
