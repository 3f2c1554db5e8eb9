// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when DATABASE_PATH=memory, and in tests.
//
// Characteristics:
//   - Plays are appended to a slice in arrival order.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/robalobadob/wordchain/internal/game"
)

// Store persists the play log and answers the status API's queries.
// Implementations may be backed by memory (this package) or SQLite.
type Store interface {
	// Record appends one finished turn.
	Record(ctx context.Context, p game.Play) error

	// Recent returns up to limit plays, newest first.
	Recent(ctx context.Context, limit int) ([]game.Play, error)

	// Leaderboard ranks players by points earned from accepted words.
	Leaderboard(ctx context.Context, limit int) ([]LeaderRow, error)

	Close() error
}

// LeaderRow is one leaderboard entry.
type LeaderRow struct {
	Player string `json:"player"`
	Points int    `json:"points"`
	Words  int    `json:"words"`
}

const defaultLimit = 20

// memory is an in-memory slice-backed Store.
type memory struct {
	mu    sync.RWMutex // guards plays
	plays []game.Play
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) Record(ctx context.Context, p game.Play) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays = append(m.plays, p)
	return nil
}

func (m *memory) Recent(ctx context.Context, limit int) ([]game.Play, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]game.Play, 0, min(limit, len(m.plays)))
	for i := len(m.plays) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.plays[i])
	}
	return out, nil
}

func (m *memory) Leaderboard(ctx context.Context, limit int) ([]LeaderRow, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	m.mu.RLock()
	byPlayer := map[string]*LeaderRow{}
	for _, p := range m.plays {
		if !accepted(p.State) {
			continue
		}
		row := byPlayer[p.Player]
		if row == nil {
			row = &LeaderRow{Player: p.Player}
			byPlayer[p.Player] = row
		}
		row.Points += p.ScoreChange
		row.Words++
	}
	m.mu.RUnlock()

	out := make([]LeaderRow, 0, len(byPlayer))
	for _, row := range byPlayer {
		out = append(out, *row)
	}
	// Same ordering as the SQL query: points, then words, then name.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Words != out[j].Words {
			return out[i].Words > out[j].Words
		}
		return out[i].Player < out[j].Player
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Close() error { return nil }

func accepted(s game.PlayState) bool {
	return s == game.PlayAccept || s == game.PlayBonus
}
