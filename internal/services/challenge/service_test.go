package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	mockclock "github.com/ganzorig/lastplayer/internal/common/clock/mocks"
	mockuuid "github.com/ganzorig/lastplayer/internal/common/uuid/mocks"
	"github.com/ganzorig/lastplayer/internal/models"
	"github.com/ganzorig/lastplayer/internal/random"
	mockrandom "github.com/ganzorig/lastplayer/internal/random/mocks"
)

type ChallengeServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockGenerator *mockrandom.MockGenerator
	mockClock     *mockclock.MockClock
	mockUUID      *mockuuid.MockUUID
	service       Service
	testNow       time.Time
}

func (s *ChallengeServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockGenerator = mockrandom.NewMockGenerator(s.ctrl)
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.mockUUID = mockuuid.NewMockUUID(s.ctrl)

	svc, err := New(&Config{
		Generator: s.mockGenerator,
		Clock:     s.mockClock,
		UUID:      s.mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc

	s.testNow = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
}

func (s *ChallengeServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestChallengeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChallengeServiceTestSuite))
}

func (s *ChallengeServiceTestSuite) TestGenerateForRoundFirstRound() {
	s.mockUUID.EXPECT().NewUUID().Return("challenge-id")
	s.mockClock.EXPECT().Now().Return(s.testNow)
	s.mockGenerator.EXPECT().IntBetween(30, 60).Return(45)

	output, err := s.service.GenerateForRound(&GenerateForRoundInput{Round: 1})
	s.Require().NoError(err)

	c := output.Challenge
	s.Equal("challenge-id", c.ID)
	s.Equal(models.ChallengeTypeQuiz, c.Type)
	s.Equal(models.DifficultyEasy, c.Difficulty)
	s.Equal("Улаанбаатар", c.CorrectAnswer)
	s.Len(c.Options, 4)
	s.Equal(45, c.TimeLimit)
	s.Equal(s.testNow, c.CreatedAt)
	s.Equal(s.testNow.Add(45*time.Second), c.Deadline())
}

func (s *ChallengeServiceTestSuite) TestGenerateForRoundDifficultyBands() {
	tests := []struct {
		round    int
		wantMin  int
		wantMax  int
		wantDiff models.Difficulty
	}{
		{round: 2, wantMin: 30, wantMax: 60, wantDiff: models.DifficultyEasy},
		{round: 3, wantMin: 60, wantMax: 120, wantDiff: models.DifficultyMedium},
		{round: 4, wantMin: 60, wantMax: 120, wantDiff: models.DifficultyMedium},
		{round: 5, wantMin: 120, wantMax: 180, wantDiff: models.DifficultyHard},
		{round: 6, wantMin: 120, wantMax: 180, wantDiff: models.DifficultyHard},
	}

	for _, tt := range tests {
		s.mockUUID.EXPECT().NewUUID().Return("challenge-id")
		s.mockClock.EXPECT().Now().Return(s.testNow)
		s.mockGenerator.EXPECT().IntBetween(tt.wantMin, tt.wantMax).Return(tt.wantMin)

		output, err := s.service.GenerateForRound(&GenerateForRoundInput{Round: tt.round})
		s.Require().NoError(err)
		s.Equal(tt.wantDiff, output.Challenge.Difficulty)
	}
}

func (s *ChallengeServiceTestSuite) TestGenerateForRoundWrapsAround() {
	s.mockUUID.EXPECT().NewUUID().Return("challenge-id").Times(2)
	s.mockClock.EXPECT().Now().Return(s.testNow).Times(2)
	s.mockGenerator.EXPECT().IntBetween(30, 60).Return(40).Times(2)

	seventh, err := s.service.GenerateForRound(&GenerateForRoundInput{Round: 7})
	s.Require().NoError(err)

	first, err := s.service.GenerateForRound(&GenerateForRoundInput{Round: 1})
	s.Require().NoError(err)

	s.Equal(first.Challenge.Question, seventh.Challenge.Question)
	s.Equal(first.Challenge.Difficulty, seventh.Challenge.Difficulty)
}

func (s *ChallengeServiceTestSuite) TestGenerateForRoundRejectsZeroRound() {
	_, err := s.service.GenerateForRound(&GenerateForRoundInput{Round: 0})
	s.Require().Error(err)
}

func (s *ChallengeServiceTestSuite) TestGenerateForRoundNilInput() {
	_, err := s.service.GenerateForRound(nil)
	s.Require().Error(err)
}

func TestDefaultGeneratorStaysInBand(t *testing.T) {
	svc, err := New(&Config{
		Generator: random.New(&random.Config{Seed: 42}),
	})
	if err != nil {
		t.Fatal(err)
	}

	for round := 1; round <= 12; round++ {
		output, err := svc.GenerateForRound(&GenerateForRoundInput{Round: round})
		if err != nil {
			t.Fatal(err)
		}

		c := output.Challenge
		var min, max int
		switch c.Difficulty {
		case models.DifficultyEasy:
			min, max = 30, 60
		case models.DifficultyMedium:
			min, max = 60, 120
		case models.DifficultyHard:
			min, max = 120, 180
		}

		if c.TimeLimit < min || c.TimeLimit > max {
			t.Errorf("round %d: time limit %d outside [%d, %d]", round, c.TimeLimit, min, max)
		}
	}
}
