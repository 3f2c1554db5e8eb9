// internal/game/room.go
//
// Room is the single process-wide lobby: the connection registry and the game
// state behind one mutex. Every mutation goes through the methods in this file
// or in engine.go, so lock discipline can be audited in one place.
//
// Lock rules:
//   - r.mu guards players, every Player's mutable fields, and all game state.
//   - Broadcasts run with r.mu held so all clients see lines in the same order.
//   - The engine's prompt send and its wait for input run without r.mu.

package game

import (
	"context"
	"crypto/rand"
	"math/big"
	"net"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/internal/protocol"
)

const maxNameLen = 31

// submission is a WORD line forwarded from a connection handler to the engine.
type submission struct {
	playerID string
	turn     uint64
	word     string
	at       time.Time
}

// Room owns the registry and the game state.
type Room struct {
	rules      Rules
	validator  *Validator
	recorder   Recorder
	pickLetter func() byte
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	inbox  chan submission

	mu           sync.Mutex
	players      []*Player
	phase        Phase
	gameID       string
	letter       byte
	used         []string
	cycle        int
	turnsInCycle int
	turn         uint64
	turnPos      int
	activeID     string
	abort        chan struct{} // closed when the active player leaves mid-turn
	abortName    string        // name the active player had when it left
	done         chan struct{} // closed when the current engine exits
}

// Option customizes a Room.
type Option func(*Room)

// WithRecorder persists every finished turn.
func WithRecorder(rec Recorder) Option { return func(r *Room) { r.recorder = rec } }

// WithLetterSource overrides the random first-letter choice.
func WithLetterSource(f func() byte) Option { return func(r *Room) { r.pickLetter = f } }

// WithClock overrides time.Now for elapsed-time scoring.
func WithClock(now func() time.Time) Option { return func(r *Room) { r.now = now } }

// NewRoom creates an empty lobby.
func NewRoom(rules Rules, v *Validator, opts ...Option) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Room{
		rules:      rules,
		validator:  v,
		pickLetter: randomLetter,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
		inbox:      make(chan submission, 8),
		phase:      PhaseNotStarted,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Close stops a running engine and waits for it to exit.
func (r *Room) Close() {
	r.cancel()
	r.wg.Wait()
}

// Admit adds a connection to the registry. The first player in an empty
// registry becomes host. Returns ErrServerFull at capacity; the caller owns
// conn in that case.
func (r *Room) Admit(conn net.Conn) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= r.rules.MaxPlayers {
		return nil, ErrServerFull
	}
	p := newPlayer(uuid.NewString(), conn, r.now())
	p.Host = len(r.players) == 0
	r.players = append(r.players, p)
	log.Info().Str("player", p.ID).Bool("host", p.Host).Int("players", len(r.players)).Msg("player admitted")
	return p, nil
}

// Register sets the display name of an admitted player and marks it ready.
// Registering again renames the player.
func (r *Room) Register(id, name string) error {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	if name == "" {
		return ErrNameRequired
	}
	if strings.ContainsAny(name, ",:") {
		return ErrNameInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(id)
	if p == nil {
		return ErrUnknownPlayer
	}
	for _, o := range r.players {
		if o != p && o.Ready && o.Name == name {
			return ErrNameTaken
		}
	}
	p.Name = name
	p.Ready = true
	log.Info().Str("player", p.ID).Str("name", name).Msg("player registered")

	r.broadcastLocked(protocol.Joined(name))
	if p.Host {
		r.unicastLocked(p, protocol.MsgHost)
	}
	return nil
}

// Disconnect removes a player after its connection failed or closed.
// Later players shift down one position. If the player was taking its turn,
// the engine is told to end the game. A departing host hands the role to the
// earliest remaining player.
func (r *Room) Disconnect(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.players, func(p *Player) bool { return p.ID == id })
	if i < 0 {
		return
	}
	p := r.players[i]
	r.players = slices.Delete(r.players, i, i+1)
	_ = p.conn.Close()
	log.Info().Str("player", p.ID).Str("name", p.Name).Int("players", len(r.players)).Msg("player removed")

	if p.ID == r.activeID && r.abort != nil {
		close(r.abort)
		r.abort = nil
		r.abortName = p.Name
	}
	if p.Host && len(r.players) > 0 {
		next := r.players[0]
		next.Host = true
		r.unicastLocked(next, protocol.MsgHost)
	}
	if p.Ready {
		r.broadcastLocked(protocol.Left(p.Name))
		r.broadcastLocked(protocol.Scores(r.standingsLocked()))
	}
}

// CountReady returns the number of registered players.
func (r *Room) CountReady() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countReadyLocked()
}

func (r *Room) countReadyLocked() int {
	n := 0
	for _, p := range r.players {
		if p.Ready {
			n++
		}
	}
	return n
}

// Start launches the turn engine on behalf of requester.
// Preconditions: requester is host, no game is running, at least two players are ready.
func (r *Room) Start(requester string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(requester)
	switch {
	case p == nil:
		return ErrUnknownPlayer
	case !p.Host:
		return ErrNotHost
	case r.phase == PhaseRunning:
		return ErrGameInProgress
	case r.countReadyLocked() < 2:
		return ErrNotEnoughPlayers
	}

	for _, o := range r.players {
		o.Score = 0
	}
	r.gameID = uuid.NewString()
	r.letter = lower(r.pickLetter())
	r.cycle = 1
	r.turnsInCycle = 0
	r.turnPos = 0
	r.phase = PhaseRunning
	done := make(chan struct{})
	r.done = done

	log.Info().Str("game", r.gameID).Str("letter", string(r.letter)).Int("players", r.countReadyLocked()).Msg("game starting")
	r.broadcastLocked(protocol.GameStarting(r.letter))

	r.wg.Add(1)
	go r.run(r.ctx, done)
	return nil
}

// Done returns a channel closed when the most recently started game ends.
// It is nil before the first game.
func (r *Room) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Submit forwards a play attempt to the engine. Only the active player of a
// running game may submit; anything else is ErrNotYourTurn.
func (r *Room) Submit(id, word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(id)
	switch {
	case p == nil:
		return ErrUnknownPlayer
	case !p.Ready:
		return ErrNotRegistered
	case r.phase != PhaseRunning || r.activeID != id:
		return ErrNotYourTurn
	}
	select {
	case r.inbox <- submission{playerID: id, turn: r.turn, word: word, at: r.now()}:
	default:
		log.Warn().Str("player", p.Name).Msg("engine inbox full, submission dropped")
	}
	return nil
}

// NotifyChat relays a chat line to everyone. It is advisory: recipients are
// snapshotted under the lock and written to without it, each write bounded by
// PromptTimeout. Only immutable Player fields are read after unlocking.
func (r *Room) NotifyChat(id, text string) error {
	r.mu.Lock()
	p := r.findLocked(id)
	if p == nil || !p.Ready {
		r.mu.Unlock()
		return ErrNotRegistered
	}
	line := protocol.Chat(p.Name, text)
	recipients := slices.Clone(r.players)
	r.mu.Unlock()

	for _, q := range recipients {
		if err := q.send(line, r.rules.PromptTimeout); err != nil {
			log.Debug().Err(err).Str("player", q.ID).Msg("chat send failed")
		}
	}
	return nil
}

// PlayerView is a read-only copy of a player's public state.
type PlayerView struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Host  bool   `json:"host"`
	Ready bool   `json:"ready"`
}

// Snapshot is a consistent copy of the room for observers.
type Snapshot struct {
	Phase   Phase        `json:"phase"`
	GameID  string       `json:"gameId,omitempty"`
	Letter  string       `json:"letter,omitempty"`
	Active  string       `json:"active,omitempty"`
	Cycle   int          `json:"cycle"`
	Used    []string     `json:"used"`
	Players []PlayerView `json:"players"`
}

// Snapshot copies the current state under the lock.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Phase:   r.phase,
		GameID:  r.gameID,
		Cycle:   r.cycle,
		Used:    slices.Clone(r.used),
		Players: make([]PlayerView, 0, len(r.players)),
	}
	if s.Used == nil {
		s.Used = []string{}
	}
	if r.letter != 0 {
		s.Letter = string(r.letter)
	}
	for _, p := range r.players {
		if p.ID == r.activeID {
			s.Active = p.Name
		}
		s.Players = append(s.Players, PlayerView{Name: p.Name, Score: p.Score, Host: p.Host, Ready: p.Ready})
	}
	return s
}

func (r *Room) findLocked(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// readyLocked returns registered players in registry order.
func (r *Room) readyLocked() []*Player {
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p.Ready {
			out = append(out, p)
		}
	}
	return out
}

// randomLetter picks a lowercase ASCII letter using crypto/rand.
func randomLetter() byte {
	n, err := rand.Int(rand.Reader, big.NewInt(26))
	if err != nil {
		return 'a'
	}
	return byte('a' + n.Int64())
}
