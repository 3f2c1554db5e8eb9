package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordchain/internal/game"
	"github.com/robalobadob/wordchain/internal/store"
)

type fakeRoom struct{ snap game.Snapshot }

func (f fakeRoom) Snapshot() game.Snapshot { return f.snap }

// failingStore returns an error from every query.
type failingStore struct{ store.Store }

func (failingStore) Recent(context.Context, int) ([]game.Play, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Leaderboard(context.Context, int) ([]store.LeaderRow, error) {
	return nil, errors.New("disk on fire")
}

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.Record(ctx, game.Play{GameID: "g1", Cycle: 1, Player: "alice", Word: "cat", State: game.PlayBonus, ScoreChange: 5, CurrentScore: 5, At: at}))
	require.NoError(t, st.Record(ctx, game.Play{GameID: "g1", Cycle: 1, Player: "bob", Word: "tiger", State: game.PlayAccept, ScoreChange: 5, CurrentScore: 5, At: at.Add(time.Second)}))
	require.NoError(t, st.Record(ctx, game.Play{GameID: "g1", Cycle: 2, Player: "alice", State: game.PlayTimeout, ScoreChange: -2, CurrentScore: 3, At: at.Add(2 * time.Second)}))

	room := fakeRoom{snap: game.Snapshot{
		Phase:  game.PhaseRunning,
		GameID: "g1",
		Letter: "r",
		Active: "alice",
		Cycle:  2,
		Used:   []string{"cat", "tiger"},
		Players: []game.PlayerView{
			{Name: "alice", Score: 3, Host: true, Ready: true},
			{Name: "bob", Score: 5, Ready: true},
		},
	}}
	return New(room, st, "http://localhost:5173"), st
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGameSnapshot(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/game")
	require.Equal(t, http.StatusOK, rec.Code)

	var got game.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, game.PhaseRunning, got.Phase)
	assert.Equal(t, "r", got.Letter)
	assert.Equal(t, []string{"cat", "tiger"}, got.Used)
	require.Len(t, got.Players, 2)
	assert.True(t, got.Players[0].Host)
}

func TestPlays(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/plays?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var plays []game.Play
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plays))
	require.Len(t, plays, 2)
	assert.Equal(t, game.PlayTimeout, plays[0].State)
	assert.Equal(t, "tiger", plays[1].Word)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/plays?limit=zero").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/plays?limit=-1").Code)
}

func TestPlaysEmptyIsArray(t *testing.T) {
	s := New(fakeRoom{}, store.NewMemoryStore(), "")
	rec := get(t, s, "/plays")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLeaderboard(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/leaderboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"player":"alice","points":5,"words":1},
		{"player":"bob","points":5,"words":1}
	]`, rec.Body.String())
}

func TestStoreErrors(t *testing.T) {
	s := New(fakeRoom{}, failingStore{}, "")
	for _, path := range []string{"/plays", "/leaderboard"} {
		rec := get(t, s, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.JSONEq(t, `{"error":"db_error"}`, rec.Body.String(), path)
	}
}

func TestNotFoundAndPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","path":"/nope"}`, rec.Body.String())

	pre := httptest.NewRecorder()
	s.Router().ServeHTTP(pre, httptest.NewRequest(http.MethodOptions, "/game", nil))
	assert.Equal(t, http.StatusNoContent, pre.Code)
}
