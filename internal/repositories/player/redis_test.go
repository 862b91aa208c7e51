package player

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

func (s *RedisRepositoryTestSuite) newTestProfile() *models.UserProfile {
	return &models.UserProfile{
		UID:           "test-uid",
		PlayerID:      7,
		DisplayName:   "Test Player",
		Role:          models.RolePlayer,
		TotalWinnings: 50000,
		GameWinnings:  20000,
		GamesPlayed:   3,
		HighestScore:  240,
		CreatedAt:     s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetProfile() {
	profile := s.newTestProfile()

	err := s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: profile})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UID: "test-uid"})
	s.Require().NoError(err)
	s.Equal("Test Player", retrieved.DisplayName)
	s.Equal(models.RolePlayer, retrieved.Role)
	s.Equal(int64(50000), retrieved.TotalWinnings)
	s.Equal(int64(7), retrieved.PlayerID)
}

func (s *RedisRepositoryTestSuite) TestGetProfileNotFound() {
	_, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UID: "missing"})
	s.Require().Error(err)
	s.Equal(ErrProfileNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestNextPlayerNumber() {
	first, err := s.repo.NextPlayerNumber(context.Background())
	s.Require().NoError(err)
	second, err := s.repo.NextPlayerNumber(context.Background())
	s.Require().NoError(err)

	s.Equal(first+1, second)
}

func (s *RedisRepositoryTestSuite) TestDebitBalance() {
	profile := s.newTestProfile()
	s.Require().NoError(s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: profile}))

	err := s.repo.DebitBalance(context.Background(), &DebitBalanceInput{
		UID:    "test-uid",
		Amount: 10000,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UID: "test-uid"})
	s.Require().NoError(err)
	s.Equal(int64(40000), retrieved.TotalWinnings)

	// Game winnings are untouched by spending
	s.Equal(int64(20000), retrieved.GameWinnings)
}

func (s *RedisRepositoryTestSuite) TestDebitBalanceInsufficientFunds() {
	profile := s.newTestProfile()
	s.Require().NoError(s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: profile}))

	err := s.repo.DebitBalance(context.Background(), &DebitBalanceInput{
		UID:    "test-uid",
		Amount: 60000,
	})
	s.Require().ErrorIs(err, ErrInsufficientFunds)

	retrieved, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UID: "test-uid"})
	s.Require().NoError(err)
	s.Equal(int64(50000), retrieved.TotalWinnings)
}

func (s *RedisRepositoryTestSuite) TestCreditBalance() {
	profile := s.newTestProfile()
	s.Require().NoError(s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: profile}))

	err := s.repo.CreditBalance(context.Background(), &CreditBalanceInput{
		UID:    "test-uid",
		Amount: 25000,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UID: "test-uid"})
	s.Require().NoError(err)
	s.Equal(int64(75000), retrieved.TotalWinnings)
	s.Equal(int64(20000), retrieved.GameWinnings)
}

func (s *RedisRepositoryTestSuite) TestRecordGameResult() {
	profile := s.newTestProfile()
	s.Require().NoError(s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: profile}))

	err := s.repo.RecordGameResult(context.Background(), &RecordGameResultInput{
		UID:      "test-uid",
		Winnings: 80000,
		Score:    310,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UID: "test-uid"})
	s.Require().NoError(err)
	s.Equal(int64(130000), retrieved.TotalWinnings)
	s.Equal(int64(100000), retrieved.GameWinnings)
	s.Equal(4, retrieved.GamesPlayed)
	s.Equal(310, retrieved.HighestScore)
}

func (s *RedisRepositoryTestSuite) TestRecordGameResultKeepsHigherScore() {
	profile := s.newTestProfile()
	s.Require().NoError(s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: profile}))

	err := s.repo.RecordGameResult(context.Background(), &RecordGameResultInput{
		UID:      "test-uid",
		Winnings: 0,
		Score:    100,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UID: "test-uid"})
	s.Require().NoError(err)
	s.Equal(240, retrieved.HighestScore)
	s.Equal(4, retrieved.GamesPlayed)
	s.Equal(int64(50000), retrieved.TotalWinnings)
}
