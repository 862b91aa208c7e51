package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ganzorig/lastplayer/internal/models"
	gameRepo "github.com/ganzorig/lastplayer/internal/repositories/game"
	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
	challengeSvc "github.com/ganzorig/lastplayer/internal/services/challenge"
)

const (
	// minCorrectScore is the floor award for any correct answer
	minCorrectScore = 10

	watchdogTimeout = 10 * time.Second
)

// SubmitAnswer records a player's answer for the live challenge
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, errors.New("input, game ID and player ID cannot be empty")
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Status != models.GameStatusActive || game.CurrentChallenge == nil {
		return nil, ErrInvalidGameState
	}

	player, ok := game.Players[input.PlayerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if player.IsEliminated {
		return nil, ErrPlayerEliminated
	}

	challenge := game.CurrentChallenge
	now := s.clock.Now()
	if !now.Before(challenge.Deadline()) {
		return nil, ErrRoundClosed
	}

	isCorrect := input.Answer == challenge.CorrectAnswer
	score := 0
	if isCorrect {
		remaining := challenge.Deadline().Sub(now)
		score = int(remaining.Seconds() * 100 / float64(challenge.TimeLimit))
		if score < minCorrectScore {
			score = minCorrectScore
		}
	}

	submission := &models.Submission{
		PlayerID:    input.PlayerID,
		Answer:      input.Answer,
		SubmittedAt: now,
		IsCorrect:   isCorrect,
		Score:       score,
	}

	// Keyed by the round observed above: if the round turns over between the
	// snapshot and this write, the stale answer lands in the closed round's
	// slot and the new round never sees it
	putOutput, err := s.gameRepo.PutSubmission(ctx, &gameRepo.PutSubmissionInput{
		GameID:     input.GameID,
		Round:      game.CurrentRound,
		Submission: submission,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	if !putOutput.Stored {
		return nil, ErrAlreadySubmitted
	}

	if score > 0 {
		challengeID := challenge.ID
		_, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
			GameID: input.GameID,
			Update: func(g *models.Game) error {
				if g.Status != models.GameStatusActive || g.CurrentChallenge == nil || g.CurrentChallenge.ID != challengeID {
					return ErrRoundClosed
				}
				p, ok := g.Players[input.PlayerID]
				if !ok {
					return ErrPlayerNotFound
				}
				p.Score += score
				g.UpdatedAt = now
				return nil
			},
		})
		if err != nil {
			return nil, err
		}
	}

	// Close early once every survivor has answered
	submissions, err := s.gameRepo.GetSubmissions(ctx, &gameRepo.GetSubmissionsInput{
		GameID: input.GameID,
		Round:  game.CurrentRound,
	})
	if err == nil && len(submissions.Submissions) >= len(game.ActivePlayers()) {
		if _, finishErr := s.FinishChallenge(ctx, &FinishChallengeInput{GameID: input.GameID}); finishErr != nil {
			if !errors.Is(finishErr, ErrInvalidGameState) && !errors.Is(finishErr, ErrRoundStillOpen) {
				log.Warn().Err(finishErr).Str("game_id", input.GameID).Msg("failed to close fully answered round")
			}
		}
	}

	return &SubmitAnswerOutput{Submission: submission}, nil
}

// FinishChallenge closes the round, eliminates per the round's submissions
// and advances the game state
func (s *service) FinishChallenge(ctx context.Context, input *FinishChallengeInput) (*FinishChallengeOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Status != models.GameStatusActive || game.CurrentChallenge == nil {
		return nil, ErrInvalidGameState
	}

	challenge := game.CurrentChallenge
	now := s.clock.Now()

	submissionsOutput, err := s.gameRepo.GetSubmissions(ctx, &gameRepo.GetSubmissionsInput{
		GameID: input.GameID,
		Round:  game.CurrentRound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}
	submissions := submissionsOutput.Submissions

	if now.Before(challenge.Deadline()) && len(submissions) < len(game.ActivePlayers()) {
		return nil, ErrRoundStillOpen
	}

	eliminatedID := decideElimination(submissions)

	challengeID := challenge.ID
	var newPayouts map[string]int64
	updated, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: input.GameID,
		Update: func(g *models.Game) error {
			newPayouts = make(map[string]int64)

			if g.Status != models.GameStatusActive || g.CurrentChallenge == nil || g.CurrentChallenge.ID != challengeID {
				return ErrInvalidGameState
			}

			if eliminatedID != "" {
				if p, ok := g.Players[eliminatedID]; ok {
					p.IsEliminated = true
				}
			}
			g.CurrentChallenge = nil

			active := g.ActivePlayers()
			switch len(active) {
			case 0:
				g.Status = models.GameStatusEnded
			case 1:
				winner := active[0]
				g.Status = models.GameStatusEnded
				g.WinnerID = winner.UID
				awardPayout(g, newPayouts, winner.UID, remainingPool(g))
			default:
				if g.GameType == models.GameTypeIndividual {
					g.Status = models.GameStatusIndividualDecision
				} else {
					g.Status = models.GameStatusVoting
				}
			}
			g.UpdatedAt = now
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	s.cancelWatchdog(input.GameID)

	if updated.IsTerminal() {
		s.dropRoundData(ctx, input.GameID, game.CurrentRound)
		s.settleGame(ctx, updated, newPayouts)
	}

	log.Info().
		Str("game_id", updated.ID).
		Int("round", updated.CurrentRound).
		Str("eliminated", eliminatedID).
		Str("status", string(updated.Status)).
		Msg("round closed")

	return &FinishChallengeOutput{Game: updated, EliminatedID: eliminatedID}, nil
}

// SubmitVote records a survivor's continue/end ballot
func (s *service) SubmitVote(ctx context.Context, input *SubmitVoteInput) (*SubmitVoteOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, errors.New("input, game ID and player ID cannot be empty")
	}

	if input.Choice != models.VoteContinue && input.Choice != models.VoteEnd {
		return nil, fmt.Errorf("invalid vote choice: %s", input.Choice)
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Status != models.GameStatusVoting && game.Status != models.GameStatusIndividualDecision {
		return nil, ErrInvalidGameState
	}

	player, ok := game.Players[input.PlayerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if player.IsEliminated {
		return nil, ErrPlayerEliminated
	}

	putOutput, err := s.gameRepo.PutVote(ctx, &gameRepo.PutVoteInput{
		GameID: input.GameID,
		Round:  game.CurrentRound,
		Vote: &models.Vote{
			PlayerID:  input.PlayerID,
			Choice:    input.Choice,
			Timestamp: s.clock.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store vote: %w", err)
	}
	if !putOutput.Stored {
		return nil, ErrAlreadyVoted
	}

	votes, err := s.gameRepo.GetVotes(ctx, &gameRepo.GetVotesInput{
		GameID: input.GameID,
		Round:  game.CurrentRound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}

	outstanding := len(game.ActivePlayers()) - votes.Total()
	if outstanding < 0 {
		outstanding = 0
	}

	// The last ballot resolves the vote on the spot
	if outstanding == 0 {
		if _, err := s.ProcessVoteResults(ctx, &ProcessVoteResultsInput{GameID: input.GameID}); err != nil {
			if !errors.Is(err, ErrInvalidGameState) && !errors.Is(err, ErrVotesOutstanding) {
				log.Warn().Err(err).Str("game_id", input.GameID).Msg("failed to resolve completed vote")
			}
		}
	}

	return &SubmitVoteOutput{Outstanding: outstanding}, nil
}

// ProcessVoteResults resolves the vote once every ballot is in
func (s *service) ProcessVoteResults(ctx context.Context, input *ProcessVoteResultsInput) (*ProcessVoteResultsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Status != models.GameStatusVoting && game.Status != models.GameStatusIndividualDecision {
		return nil, ErrInvalidGameState
	}

	votes, err := s.gameRepo.GetVotes(ctx, &gameRepo.GetVotesInput{
		GameID: input.GameID,
		Round:  game.CurrentRound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}

	if votes.Total() < len(game.ActivePlayers()) {
		return nil, ErrVotesOutstanding
	}

	if game.Status == models.GameStatusIndividualDecision {
		return s.resolveIndividualDecision(ctx, game, votes)
	}

	return s.resolveGroupVote(ctx, game, votes)
}

// resolveGroupVote finishes a classic continue/end vote; a tie ends the game
func (s *service) resolveGroupVote(ctx context.Context, game *models.Game, votes *models.GameVotes) (*ProcessVoteResultsOutput, error) {
	now := s.clock.Now()

	if len(votes.Continue) > len(votes.End) {
		updated, challenge, err := s.advanceRound(ctx, game.ID, models.GameStatusVoting, now)
		if err != nil {
			return nil, err
		}

		s.armWatchdog(updated.ID, challenge.Deadline())

		log.Info().
			Str("game_id", updated.ID).
			Int("round", updated.CurrentRound).
			Msg("vote passed, game continues")

		return &ProcessVoteResultsOutput{Game: updated, Continued: true}, nil
	}

	var newPayouts map[string]int64
	var remainder int64
	updated, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: game.ID,
		Update: func(g *models.Game) error {
			newPayouts = make(map[string]int64)
			remainder = 0

			if g.Status != models.GameStatusVoting {
				return ErrInvalidGameState
			}

			survivors := g.ActivePlayers()
			pot := remainingPool(g)

			var share int64
			if len(survivors) > 0 {
				share = pot / int64(len(survivors))
			}
			for _, p := range survivors {
				awardPayout(g, newPayouts, p.UID, share)
			}
			remainder = pot - share*int64(len(survivors))

			g.Status = models.GameStatusEnded
			g.CurrentChallenge = nil
			g.UpdatedAt = now
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	s.cancelWatchdog(game.ID)
	s.dropRoundData(ctx, game.ID, game.CurrentRound)
	s.settleGame(ctx, updated, newPayouts)

	log.Info().
		Str("game_id", updated.ID).
		Int("survivors", len(newPayouts)).
		Int64("remainder", remainder).
		Msg("vote ended game, pool split")

	return &ProcessVoteResultsOutput{Game: updated, Continued: false, Remainder: remainder}, nil
}

// resolveIndividualDecision cashes out every end ballot at an equal share
// and continues only while at least two players stay
func (s *service) resolveIndividualDecision(ctx context.Context, game *models.Game, votes *models.GameVotes) (*ProcessVoteResultsOutput, error) {
	now := s.clock.Now()

	cashingOut := make([]string, 0, len(votes.End))
	for uid := range votes.End {
		if p, ok := game.Players[uid]; ok && !p.IsEliminated {
			cashingOut = append(cashingOut, uid)
		}
	}

	stayers := len(game.ActivePlayers()) - len(cashingOut)
	willContinue := stayers >= 2

	var nextChallenge *models.Challenge
	if willContinue {
		generated, err := s.challengeService.GenerateForRound(&challengeSvc.GenerateForRoundInput{
			Round: game.CurrentRound + 1,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate challenge: %w", err)
		}
		nextChallenge = generated.Challenge
	}

	var newPayouts map[string]int64
	updated, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: game.ID,
		Update: func(g *models.Game) error {
			newPayouts = make(map[string]int64)

			if g.Status != models.GameStatusIndividualDecision {
				return ErrInvalidGameState
			}

			// An even share of what the pool still holds; earlier
			// cash-outs have already been carved out of it
			var share int64
			if active := len(g.ActivePlayers()); active > 0 {
				share = remainingPool(g) / int64(active)
			}

			for _, uid := range cashingOut {
				p, ok := g.Players[uid]
				if !ok || p.IsEliminated {
					continue
				}
				p.IsEliminated = true
				p.CashedOut = true
				awardPayout(g, newPayouts, uid, share)
			}

			remaining := g.ActivePlayers()
			switch len(remaining) {
			case 0:
				g.Status = models.GameStatusEnded
				g.CurrentChallenge = nil
			case 1:
				winner := remaining[0]
				g.Status = models.GameStatusEnded
				g.WinnerID = winner.UID
				awardPayout(g, newPayouts, winner.UID, remainingPool(g))
				g.CurrentChallenge = nil
			default:
				g.CurrentRound++
				g.Status = models.GameStatusActive
				g.CurrentChallenge = nextChallenge
			}
			g.UpdatedAt = now
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	s.dropRoundData(ctx, game.ID, game.CurrentRound)

	continued := updated.Status == models.GameStatusActive
	if continued {
		s.armWatchdog(updated.ID, updated.CurrentChallenge.Deadline())
	} else {
		s.cancelWatchdog(updated.ID)
	}

	s.settleGame(ctx, updated, newPayouts)

	log.Info().
		Str("game_id", updated.ID).
		Int("cashed_out", len(cashingOut)).
		Bool("continued", continued).
		Msg("individual decision resolved")

	return &ProcessVoteResultsOutput{Game: updated, Continued: continued}, nil
}

// advanceRound moves a game into its next active round under a status guard
func (s *service) advanceRound(ctx context.Context, gameID string, fromStatus models.GameStatus, now time.Time) (*models.Game, *models.Challenge, error) {
	current, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	generated, err := s.challengeService.GenerateForRound(&challengeSvc.GenerateForRoundInput{
		Round: current.CurrentRound + 1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate challenge: %w", err)
	}
	challenge := generated.Challenge

	updated, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: gameID,
		Update: func(g *models.Game) error {
			if g.Status != fromStatus {
				return ErrInvalidGameState
			}
			g.CurrentRound++
			g.Status = models.GameStatusActive
			g.CurrentChallenge = challenge
			g.UpdatedAt = now
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, nil, ErrGameNotFound
		}
		return nil, nil, err
	}

	s.dropRoundData(ctx, gameID, current.CurrentRound)

	return updated, challenge, nil
}

// dropRoundData deletes a finished round's submissions and ballots. Only the
// invocation that won the advancing swap gets here, and the next round lives
// under its own keys, so this is pure cleanup; a failure just leaks keys.
func (s *service) dropRoundData(ctx context.Context, gameID string, round int) {
	if err := s.gameRepo.ClearRound(ctx, &gameRepo.ClearRoundInput{GameID: gameID, Round: round}); err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Int("round", round).Msg("failed to clear finished round data")
	}
}

// decideElimination applies the round's elimination rule: the earliest wrong
// submission goes out; with no wrong answers the slowest correct one does;
// with no submissions at all nobody does. Exact timestamp ties break on
// player UID so the result never depends on iteration order.
func decideElimination(submissions map[string]*models.Submission) string {
	var firstWrong, lastCorrect *models.Submission

	for _, sub := range submissions {
		if !sub.IsCorrect {
			if firstWrong == nil ||
				sub.SubmittedAt.Before(firstWrong.SubmittedAt) ||
				(sub.SubmittedAt.Equal(firstWrong.SubmittedAt) && sub.PlayerID < firstWrong.PlayerID) {
				firstWrong = sub
			}
			continue
		}
		if lastCorrect == nil ||
			sub.SubmittedAt.After(lastCorrect.SubmittedAt) ||
			(sub.SubmittedAt.Equal(lastCorrect.SubmittedAt) && sub.PlayerID > lastCorrect.PlayerID) {
			lastCorrect = sub
		}
	}

	if firstWrong != nil {
		return firstWrong.PlayerID
	}
	if lastCorrect != nil {
		return lastCorrect.PlayerID
	}
	return ""
}

// remainingPool is what is left of the pool after amounts already promised
func remainingPool(g *models.Game) int64 {
	left := g.PrizePool - sumPayouts(g.Payouts)
	if left < 0 {
		left = 0
	}
	return left
}

// awardPayout records one credit in both the game record and the batch the
// winning invocation settles afterwards
func awardPayout(g *models.Game, batch map[string]int64, uid string, amount int64) {
	if g.Payouts == nil {
		g.Payouts = make(map[string]int64)
	}
	g.Payouts[uid] = amount
	batch[uid] = amount
}

// settleGame credits the freshly awarded payouts and, once the game is over,
// stamps the result on every remaining participant's profile. Only the
// invocation that won the terminal status write gets here with a non-empty
// batch, so profiles are credited exactly once per game.
func (s *service) settleGame(ctx context.Context, g *models.Game, newPayouts map[string]int64) {
	for uid, amount := range newPayouts {
		score := 0
		if p, ok := g.Players[uid]; ok {
			score = p.Score
		}
		err := s.playerRepo.RecordGameResult(ctx, &playerRepo.RecordGameResultInput{
			UID:      uid,
			Winnings: amount,
			Score:    score,
		})
		if err != nil {
			log.Error().Err(err).
				Str("game_id", g.ID).
				Str("player_id", uid).
				Int64("amount", amount).
				Msg("failed to credit payout")
			continue
		}
		log.Info().
			Str("game_id", g.ID).
			Str("player_id", uid).
			Int64("amount", amount).
			Msg("payout credited")
	}

	if !g.IsTerminal() {
		return
	}

	for uid, p := range g.Players {
		if _, paid := g.Payouts[uid]; paid {
			// Credited above, or at an earlier cash-out
			continue
		}
		err := s.playerRepo.RecordGameResult(ctx, &playerRepo.RecordGameResultInput{
			UID:   uid,
			Score: p.Score,
		})
		if err != nil {
			log.Error().Err(err).
				Str("game_id", g.ID).
				Str("player_id", uid).
				Msg("failed to record game result")
		}
	}
}

// armWatchdog schedules a forced round close shortly after the deadline so
// a silent room still advances
func (s *service) armWatchdog(gameID string, deadline time.Time) {
	delay := deadline.Sub(s.clock.Now()) + watchdogGrace
	if delay < 0 {
		delay = 0
	}

	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.timers[gameID]; ok {
		t.Stop()
	}
	s.timers[gameID] = time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), watchdogTimeout)
		defer cancel()

		if _, err := s.FinishChallenge(ctx, &FinishChallengeInput{GameID: gameID}); err != nil {
			if errors.Is(err, ErrInvalidGameState) || errors.Is(err, ErrRoundStillOpen) {
				return
			}
			log.Warn().Err(err).Str("game_id", gameID).Msg("round watchdog failed to close round")
		}
	})
}

// cancelWatchdog stops the pending round close for a game, if any
func (s *service) cancelWatchdog(gameID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.timers[gameID]; ok {
		t.Stop()
		delete(s.timers, gameID)
	}
}
