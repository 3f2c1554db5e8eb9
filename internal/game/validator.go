package game

import "strings"

// Reason explains why a word was rejected.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonEmpty        Reason = "empty"
	ReasonWrongLetter  Reason = "wrong_letter"
	ReasonUnknownWord  Reason = "unknown_word"
	ReasonRepeatOfLast Reason = "repeat_of_last"
	ReasonReused       Reason = "reused"
)

// Verdict is the result of validating one candidate word.
type Verdict struct {
	OK     bool
	Reason Reason
}

// Lexicon is the dictionary lookup the validator needs.
type Lexicon interface {
	Contains(word string) bool
}

// Validator applies the word rules. It holds no game state.
type Validator struct {
	dict Lexicon
}

// NewValidator returns a Validator backed by dict.
func NewValidator(dict Lexicon) *Validator {
	return &Validator{dict: dict}
}

// Validate checks word against the required letter and the last used word:
//  1. first byte, case-folded, equals letter
//  2. word is in the dictionary (dictionary decides case policy)
//  3. word is not a case-insensitive repeat of the last used word
func (v *Validator) Validate(word string, letter byte, used []string) Verdict {
	if word == "" {
		return Verdict{Reason: ReasonEmpty}
	}
	if lower(word[0]) != lower(letter) {
		return Verdict{Reason: ReasonWrongLetter}
	}
	if !v.dict.Contains(word) {
		return Verdict{Reason: ReasonUnknownWord}
	}
	if IsRepeatOfLast(word, used) {
		return Verdict{Reason: ReasonRepeatOfLast}
	}
	return Verdict{OK: true}
}

// IsRepeatOfLast reports whether word case-insensitively equals the most recent used word.
func IsRepeatOfLast(word string, used []string) bool {
	return len(used) > 0 && strings.EqualFold(used[len(used)-1], word)
}

// Reused reports whether word was played anywhere earlier in the game.
// This is the whole-history screening pass run after Validate.
func Reused(word string, used []string) bool {
	for _, u := range used {
		if strings.EqualFold(u, word) {
			return true
		}
	}
	return false
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
