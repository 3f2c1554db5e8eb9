// internal/protocol/messages.go
//
// Server-to-client lines. Every function returns a line without the trailing
// newline; the sender appends it.

package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MsgHost       = "You are the host."
	MsgServerFull = "Server full."
	MsgValid      = "VALID"
)

// Standing is one scoreboard entry.
type Standing struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func Joined(name string) string       { return "Player " + name + " joined the game" }
func Left(name string) string         { return "Player " + name + " disconnected" }
func Error(msg string) string         { return "ERROR: " + msg }
func Prompt(letter byte) string       { return "PROMPT " + string(letter) }
func GameStarting(letter byte) string { return "Game starting! First letter: " + string(letter) }
func GameAborted(name string) string  { return name + " disconnected, game over" }

func Chat(name, text string) string { return fmt.Sprintf("CHAT [%s]: %s", name, text) }

// Played announces an accepted word.
func Played(name, word string, gained int) string {
	return fmt.Sprintf("%s played '%s' (+%d points)", name, word, gained)
}

// TimedOut announces a timeout; penalty is the (positive) number of points lost.
func TimedOut(name string, penalty int) string {
	return fmt.Sprintf("%s ran out of time (%d points)", name, -penalty)
}

// Invalid rejects a word. alreadyUsed selects the duplicate wording.
func Invalid(word string, alreadyUsed bool) string {
	if alreadyUsed {
		return fmt.Sprintf("INVALID Word '%s' was already used", word)
	}
	return fmt.Sprintf("INVALID Word '%s' is not valid", word)
}

// Scores renders the scoreboard line.
func Scores(s []Standing) string { return "SCORES " + joinStandings(s) }

// EndGame renders the terminal line; s[0] is the winner.
func EndGame(s []Standing) string { return "ENDGAME " + joinStandings(s) }

func joinStandings(s []Standing) string {
	var b strings.Builder
	for i, st := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(st.Name)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(st.Score))
	}
	return b.String()
}
