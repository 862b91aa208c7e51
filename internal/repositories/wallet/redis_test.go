package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ganzorig/lastplayer/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newTestRequest(id, uid string, kind models.WalletRequestKind) *models.WalletRequest {
	return &models.WalletRequest{
		ID:         id,
		Kind:       kind,
		PlayerUID:  uid,
		PlayerName: "Test Player",
		Amount:     50000,
		BankAccount: models.BankAccount{
			BankName:          "Khan Bank",
			AccountNumber:     "5000123456",
			AccountHolderName: "Test Player",
		},
		Status:      models.WalletRequestPending,
		RequestedAt: s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGetRequest() {
	req := s.newTestRequest("req-1", "uid-1", models.WalletRequestDeposit)

	err := s.repo.CreateRequest(context.Background(), &CreateRequestInput{Request: req})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetRequest(context.Background(), &GetRequestInput{RequestID: "req-1"})
	s.Require().NoError(err)
	s.Equal(models.WalletRequestDeposit, retrieved.Kind)
	s.Equal(models.WalletRequestPending, retrieved.Status)
	s.Equal(int64(50000), retrieved.Amount)
	s.Equal("Khan Bank", retrieved.BankAccount.BankName)
	s.Nil(retrieved.ProcessedAt)
}

func (s *RedisRepositoryTestSuite) TestGetRequestNotFound() {
	_, err := s.repo.GetRequest(context.Background(), &GetRequestInput{RequestID: "missing"})
	s.Require().Error(err)
	s.Equal(ErrRequestNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestGetPendingRequests() {
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-1", "uid-1", models.WalletRequestDeposit),
	}))
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-2", "uid-2", models.WalletRequestWithdrawal),
	}))

	pending, err := s.repo.GetPendingRequests(context.Background())
	s.Require().NoError(err)
	s.Len(pending, 2)
}

func (s *RedisRepositoryTestSuite) TestGetRequestsForPlayer() {
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-1", "uid-1", models.WalletRequestDeposit),
	}))
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-2", "uid-1", models.WalletRequestWithdrawal),
	}))
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-3", "uid-2", models.WalletRequestDeposit),
	}))

	requests, err := s.repo.GetRequestsForPlayer(context.Background(), &GetRequestsForPlayerInput{UID: "uid-1"})
	s.Require().NoError(err)
	s.Len(requests, 2)
	for _, req := range requests {
		s.Equal("uid-1", req.PlayerUID)
	}
}

func (s *RedisRepositoryTestSuite) TestResolveRequest() {
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-1", "uid-1", models.WalletRequestDeposit),
	}))

	processedAt := s.testNow.Add(2 * time.Hour)
	resolved, err := s.repo.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:   "req-1",
		Status:      models.WalletRequestCompleted,
		ProcessedBy: "organizer-uid",
		ProcessedAt: processedAt,
	})
	s.Require().NoError(err)
	s.Equal(models.WalletRequestCompleted, resolved.Status)
	s.Equal("organizer-uid", resolved.ProcessedBy)
	s.Require().NotNil(resolved.ProcessedAt)
	s.Equal(processedAt, *resolved.ProcessedAt)

	// The resolved request leaves the pending queue
	pending, err := s.repo.GetPendingRequests(context.Background())
	s.Require().NoError(err)
	s.Empty(pending)

	// But stays in the player's history
	requests, err := s.repo.GetRequestsForPlayer(context.Background(), &GetRequestsForPlayerInput{UID: "uid-1"})
	s.Require().NoError(err)
	s.Len(requests, 1)
}

func (s *RedisRepositoryTestSuite) TestResolveRequestIsOneWay() {
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-1", "uid-1", models.WalletRequestWithdrawal),
	}))

	_, err := s.repo.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:   "req-1",
		Status:      models.WalletRequestRejected,
		ProcessedBy: "organizer-uid",
		ProcessedAt: s.testNow,
	})
	s.Require().NoError(err)

	_, err = s.repo.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:   "req-1",
		Status:      models.WalletRequestCompleted,
		ProcessedBy: "organizer-uid",
		ProcessedAt: s.testNow,
	})
	s.Require().ErrorIs(err, ErrRequestAlreadyResolved)

	retrieved, err := s.repo.GetRequest(context.Background(), &GetRequestInput{RequestID: "req-1"})
	s.Require().NoError(err)
	s.Equal(models.WalletRequestRejected, retrieved.Status)
}

func (s *RedisRepositoryTestSuite) TestResolveRequestRejectsInvalidStatus() {
	s.Require().NoError(s.repo.CreateRequest(context.Background(), &CreateRequestInput{
		Request: s.newTestRequest("req-1", "uid-1", models.WalletRequestDeposit),
	}))

	_, err := s.repo.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:   "req-1",
		Status:      models.WalletRequestPending,
		ProcessedBy: "organizer-uid",
		ProcessedAt: s.testNow,
	})
	s.Require().Error(err)
}

func (s *RedisRepositoryTestSuite) TestResolveRequestNotFound() {
	_, err := s.repo.ResolveRequest(context.Background(), &ResolveRequestInput{
		RequestID:   "missing",
		Status:      models.WalletRequestCompleted,
		ProcessedBy: "organizer-uid",
		ProcessedAt: s.testNow,
	})
	s.Require().ErrorIs(err, ErrRequestNotFound)
}
