package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	// Lookup
	ErrGameNotFound   GameError = "game not found"
	ErrPlayerNotFound GameError = "player not found"

	// Admission
	ErrJoinWindowClosed  GameError = "join window is closed"
	ErrGameNotJoinable   GameError = "game is not joinable"
	ErrAlreadyJoined     GameError = "player already joined this game"
	ErrInsufficientFunds GameError = "insufficient funds for ticket"

	// Submissions
	ErrAlreadySubmitted GameError = "player already submitted this round"
	ErrRoundClosed      GameError = "submission window is closed"
	ErrRoundStillOpen   GameError = "round is still open"
	ErrPlayerEliminated GameError = "player is eliminated"

	// Guards
	ErrNotHost          GameError = "only the host can do this"
	ErrInvalidGameState GameError = "invalid game state"
	ErrNotEnoughPlayers GameError = "not enough players to start"
	ErrAlreadyVoted     GameError = "player already voted this round"
	ErrVotesOutstanding GameError = "not all ballots are in yet"

	// Construction
	ErrNilConfig        GameError = "config cannot be nil"
	ErrNilGameRepo      GameError = "game repository cannot be nil"
	ErrNilPlayerRepo    GameError = "player repository cannot be nil"
	ErrNilChallengeSvc  GameError = "challenge service cannot be nil"
	ErrNilClock         GameError = "clock cannot be nil"
	ErrNilUUIDGenerator GameError = "UUID generator cannot be nil"
)
