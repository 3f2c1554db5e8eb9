// internal/game/types.go
//
// Core type definitions for the word-chain turn engine.
// Defines:
//   - Phase: lifecycle of a game (not started → running → ended).
//   - Rules: timing and scoring constants.
//   - Player: one admitted connection and its game state.
//   - Play: the record of one finished turn, handed to a Recorder.

package game

import (
	"context"
	"errors"
	"net"
	"time"
)

// Phase is the lifecycle state of the turn engine.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseRunning    Phase = "running"
	PhaseEnded      Phase = "ended"
)

// Rules holds the tunable game constants.
type Rules struct {
	MaxPlayers     int           // lobby capacity
	TurnTimeout    time.Duration // wait for the active player's word
	EarlyWindow    time.Duration // answers within this window earn EarlyBonus
	EarlyBonus     int
	TimeoutPenalty int // points lost on timeout (positive number)
	InvalidPenalty int // points lost on a rejected word (positive number)
	WinScore       int
	SendTimeout    time.Duration // per-recipient broadcast deadline
	PromptTimeout  time.Duration // deadline for unicast lines sent outside the lock
}

// DefaultRules returns the reference game constants.
func DefaultRules() Rules {
	return Rules{
		MaxPlayers:     5,
		TurnTimeout:    30 * time.Second,
		EarlyWindow:    5 * time.Second,
		EarlyBonus:     2,
		TimeoutPenalty: 2,
		InvalidPenalty: 1,
		WinScore:       50,
		SendTimeout:    100 * time.Millisecond,
		PromptTimeout:  time.Second,
	}
}

// Errors reported to the requesting client. Their text is the user-facing message.
var (
	ErrServerFull       = errors.New("Server full.")
	ErrNotHost          = errors.New("Only the host can start the game.")
	ErrGameInProgress   = errors.New("Game already in progress.")
	ErrNotEnoughPlayers = errors.New("Need at least 2 players.")
	ErrNotRegistered    = errors.New("Register first.")
	ErrNotYourTurn      = errors.New("Not your turn.")
	ErrNameRequired     = errors.New("Name required.")
	ErrNameTaken        = errors.New("Name already taken.")
	ErrNameInvalid      = errors.New("Name may not contain ',' or ':'.")
	ErrUnknownPlayer    = errors.New("unknown player")

	errWriteBusy = errors.New("write slot busy until deadline")
)

// Player is one admitted connection. Fields other than ID, conn, JoinedAt and
// wslot are guarded by the owning Room's mutex.
type Player struct {
	ID       string
	Name     string
	Score    int
	Host     bool
	Ready    bool
	JoinedAt time.Time

	conn  net.Conn
	wslot chan struct{} // one-token semaphore serializing writes to conn
}

func newPlayer(id string, conn net.Conn, joined time.Time) *Player {
	return &Player{ID: id, JoinedAt: joined, conn: conn, wslot: make(chan struct{}, 1)}
}

// PlayState classifies the outcome of a turn.
type PlayState string

const (
	PlayAccept  PlayState = "accept"
	PlayBonus   PlayState = "bonus"
	PlayInvalid PlayState = "invalid"
	PlayTimeout PlayState = "timeout"
)

// Play is the record of one finished turn.
type Play struct {
	GameID       string    `json:"gameId"`
	Cycle        int       `json:"cycle"`
	Player       string    `json:"player"`
	Word         string    `json:"word"`
	State        PlayState `json:"state"`
	ScoreChange  int       `json:"scoreChange"`
	CurrentScore int       `json:"currentScore"`
	At           time.Time `json:"serverTimestamp"`
}

// Recorder persists finished turns. Implementations live in the store package.
type Recorder interface {
	Record(ctx context.Context, p Play) error
}
