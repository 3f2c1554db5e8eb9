// internal/game/engine.go
//
// Turn engine for one word-chain game.
//
// Each turn:
//   1. beginTurn (locked): pick the active player by position among registered
//      players and record its stable id.
//   2. prompt + await (unlocked): send PROMPT, then wait for that player's WORD,
//      the turn deadline, the player leaving, or shutdown.
//   3. settle (locked): re-find the player by id, score the outcome, broadcast,
//      check the win score and advance the position.
//   4. record (unlocked): hand the Play to the Recorder.
//
// Registry changes may happen while step 2 runs. Identity is by id, so a
// removal that shifts positions does not change who is playing.

package game

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/internal/protocol"
)

type outcomeKind int

const (
	outcomeWord outcomeKind = iota
	outcomeTimeout
	outcomeGone
	outcomeCanceled
)

type outcome struct {
	kind    outcomeKind
	word    string
	elapsed time.Duration
}

// turn is what the engine needs to know about the current turn outside the lock.
type turn struct {
	seq      uint64
	playerID string
	name     string
	letter   byte
	abort    <-chan struct{}
	player   *Player
}

func (r *Room) run(ctx context.Context, done chan struct{}) {
	defer r.wg.Done()
	defer close(done)
	defer r.finish(done)

	for {
		t, ok := r.beginTurn()
		if !ok {
			log.Info().Msg("no registered players left, game ended")
			return
		}

		start := r.now()
		if err := t.player.send(protocol.Prompt(t.letter), r.rules.PromptTimeout); err != nil {
			log.Warn().Err(err).Str("name", t.name).Msg("prompt send failed")
		}

		out := r.await(ctx, t, start)
		if out.kind == outcomeCanceled {
			log.Info().Msg("game canceled")
			return
		}

		play, over := r.settle(t, out)
		if play != nil {
			r.record(ctx, *play)
		}
		if over {
			return
		}
	}
}

// beginTurn selects the active player. It reports false when nobody is left to play.
func (r *Room) beginTurn() (turn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ready := r.readyLocked()
	if len(ready) == 0 {
		return turn{}, false
	}
	r.turnPos %= len(ready)
	p := ready[r.turnPos]

	r.turn++
	r.activeID = p.ID
	r.abort = make(chan struct{})
	r.abortName = ""

	return turn{
		seq:      r.turn,
		playerID: p.ID,
		name:     p.Name,
		letter:   r.letter,
		abort:    r.abort,
		player:   p,
	}, true
}

// await blocks until the active player submits, the deadline passes, the
// player leaves, or ctx is canceled. Submissions from other turns are dropped.
func (r *Room) await(ctx context.Context, t turn, start time.Time) outcome {
	timer := time.NewTimer(r.rules.TurnTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return outcome{kind: outcomeCanceled}
		case <-t.abort:
			return outcome{kind: outcomeGone}
		case <-timer.C:
			return outcome{kind: outcomeTimeout}
		case s := <-r.inbox:
			if s.playerID != t.playerID || s.turn != t.seq {
				continue
			}
			return outcome{kind: outcomeWord, word: s.word, elapsed: s.at.Sub(start)}
		}
	}
}

// settle applies the outcome of a turn. It returns the Play to record (nil when
// the game was aborted) and whether the game is over.
func (r *Room) settle(t turn, out outcome) (*Play, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(t.playerID)
	if out.kind == outcomeGone || p == nil {
		name := t.name
		if r.abortName != "" {
			name = r.abortName // renamed during the turn
		}
		log.Info().Str("game", r.gameID).Str("name", name).Msg("active player left, game over")
		r.broadcastLocked(protocol.GameAborted(name))
		r.phase = PhaseEnded
		return nil, true
	}

	play := &Play{GameID: r.gameID, Cycle: r.cycle, Player: p.Name, At: r.now().UTC()}

	switch out.kind {
	case outcomeTimeout:
		p.Score -= r.rules.TimeoutPenalty
		play.State = PlayTimeout
		play.ScoreChange = -r.rules.TimeoutPenalty
		r.broadcastLocked(protocol.TimedOut(p.Name, r.rules.TimeoutPenalty))
		r.broadcastLocked(protocol.Scores(r.standingsLocked()))

	case outcomeWord:
		r.scoreWordLocked(p, out, play)
	}
	play.CurrentScore = p.Score

	if p.Score >= r.rules.WinScore {
		log.Info().Str("game", r.gameID).Str("winner", p.Name).Int("score", p.Score).Msg("game won")
		r.broadcastLocked(protocol.EndGame(r.finalStandingsLocked(p)))
		r.phase = PhaseEnded
		return play, true
	}

	r.advanceLocked(p)
	return play, false
}

// scoreWordLocked validates a submitted word and applies its score.
func (r *Room) scoreWordLocked(p *Player, out outcome, play *Play) {
	word := out.word
	early := out.elapsed <= r.rules.EarlyWindow
	play.Word = word

	duplicate := IsRepeatOfLast(word, r.used)
	verdict := r.validator.Validate(word, r.letter, r.used)
	if verdict.OK && Reused(word, r.used) {
		verdict = Verdict{Reason: ReasonReused}
	}

	if verdict.OK && !duplicate {
		gained := len(word)
		play.State = PlayAccept
		if early {
			gained += r.rules.EarlyBonus
			play.State = PlayBonus
		}
		r.used = append(r.used, word)
		p.Score += gained
		play.ScoreChange = gained

		log.Debug().Str("name", p.Name).Str("word", word).Int("gained", gained).Msg("word accepted")
		r.unicastLocked(p, protocol.MsgValid)
		r.broadcastLocked(protocol.Played(p.Name, word, gained))
		r.letter = lower(word[len(word)-1])
		r.broadcastLocked(protocol.Scores(r.standingsLocked()))
		return
	}

	p.Score -= r.rules.InvalidPenalty
	play.State = PlayInvalid
	play.ScoreChange = -r.rules.InvalidPenalty

	log.Debug().Str("name", p.Name).Str("word", word).Str("reason", string(verdict.Reason)).Bool("duplicate", duplicate).Msg("word rejected")
	r.unicastLocked(p, protocol.Invalid(word, duplicate))
	r.broadcastLocked(protocol.Scores(r.standingsLocked()))
}

// advanceLocked moves the turn to the registered player after p and counts cycles.
func (r *Room) advanceLocked(p *Player) {
	ready := r.readyLocked()
	if i := slices.Index(ready, p); i >= 0 {
		r.turnPos = i + 1
	}
	r.activeID = ""
	r.abort = nil

	r.turnsInCycle++
	if r.turnsInCycle >= len(ready) {
		r.cycle++
		r.turnsInCycle = 0
	}
}

// finish marks the game ended unless a newer game has already replaced it.
func (r *Room) finish(done chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != done {
		return
	}
	r.phase = PhaseEnded
	r.activeID = ""
	r.abort = nil
}

func (r *Room) record(ctx context.Context, p Play) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, p); err != nil {
		log.Warn().Err(err).Str("game", p.GameID).Str("name", p.Player).Msg("record play")
	}
}
