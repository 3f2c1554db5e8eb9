package game

import (
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/internal/protocol"
)

// send writes one line to the player's connection. The timeout covers both
// waiting for another writer to finish and the write itself. A zero timeout
// waits as long as it takes.
func (p *Player) send(line string, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case p.wslot <- struct{}{}:
		case <-timer.C:
			return errWriteBusy
		}
	} else {
		p.wslot <- struct{}{}
	}
	defer func() { <-p.wslot }()

	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := io.WriteString(p.conn, line+"\n")
	return err
}

// Send writes a line to the player with the given deadline. Connection
// handlers use it for unicast replies such as errors.
func (p *Player) Send(line string, timeout time.Duration) error {
	return p.send(line, timeout)
}

// broadcastLocked delivers line to every admitted connection. A slow or broken
// peer costs at most SendTimeout and is logged, never reported to the caller.
// r.mu must be held.
func (r *Room) broadcastLocked(line string) {
	for _, p := range r.players {
		if err := p.send(line, r.rules.SendTimeout); err != nil {
			log.Warn().Err(err).Str("player", p.ID).Str("name", p.Name).Msg("broadcast send failed")
		}
	}
}

// unicastLocked sends line to one player with the broadcast deadline.
func (r *Room) unicastLocked(p *Player, line string) {
	if err := p.send(line, r.rules.SendTimeout); err != nil {
		log.Warn().Err(err).Str("player", p.ID).Str("name", p.Name).Msg("unicast send failed")
	}
}

// standingsLocked lists registered players in registry order.
func (r *Room) standingsLocked() []protocol.Standing {
	out := make([]protocol.Standing, 0, len(r.players))
	for _, p := range r.players {
		if p.Ready {
			out = append(out, protocol.Standing{Name: p.Name, Score: p.Score})
		}
	}
	return out
}

// finalStandingsLocked lists the winner first, then everyone else in registry order.
func (r *Room) finalStandingsLocked(winner *Player) []protocol.Standing {
	out := []protocol.Standing{{Name: winner.Name, Score: winner.Score}}
	for _, p := range r.players {
		if p.Ready && p != winner {
			out = append(out, protocol.Standing{Name: p.Name, Score: p.Score})
		}
	}
	return out
}
