// internal/words/words.go
//
// Dictionary loading for the word-chain game.
//
// Responsibilities:
//   - Load the word list from DICTIONARY_FILE or fall back to the embedded default.
//   - Expose an immutable Dictionary for read-only lookups during play.
//
// Case policy:
//   By default (CaseSensitive=true) entries are stored and looked up verbatim, while the
//   first-letter rule in the game package compares case-insensitively.
//   With CaseSensitive=false, entries and lookups are lowercased.
//
// Entries must be ASCII: the next letter is the last byte of a word and is sent
// to clients as one character. Entries with other bytes are skipped.
//
// A Dictionary is never mutated after Load returns; it needs no locking.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/wordchain/assets"
)

// ErrEmpty is returned when a word source yields no usable entries.
var ErrEmpty = errors.New("words: dictionary is empty")

// Options controls where the word list comes from and how it is matched.
type Options struct {
	Path          string // word list file; empty means embedded default
	CaseSensitive bool   // verbatim matching when true
}

// Dictionary is a read-only set of valid words.
type Dictionary struct {
	set           map[string]struct{}
	caseSensitive bool
}

// Load builds a Dictionary according to opts.
func Load(opts Options) (*Dictionary, error) {
	var (
		list []string
		err  error
	)
	if opts.Path != "" {
		list, err = readWordFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.Path, err)
		}
	} else {
		list, err = assets.DictionaryList()
		if err != nil {
			return nil, fmt.Errorf("read embedded dictionary: %w", err)
		}
	}
	d := New(list, opts.CaseSensitive)
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// New builds a Dictionary from an in-memory list.
func New(list []string, caseSensitive bool) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{}, len(list)), caseSensitive: caseSensitive}
	for _, w := range list {
		w = strings.TrimSpace(w)
		if w == "" || !isASCII(w) {
			continue
		}
		d.set[d.key(w)] = struct{}{}
	}
	return d
}

func isASCII(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// readWordFile loads one word per line, trimming CR/LF and surrounding space.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func (d *Dictionary) key(w string) string {
	if d.caseSensitive {
		return w
	}
	return strings.ToLower(w)
}

// Contains reports whether w is a dictionary word under the configured case policy.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[d.key(w)]
	return ok
}

// CaseSensitive reports the matching policy.
func (d *Dictionary) CaseSensitive() bool { return d.caseSensitive }

// Len returns the number of distinct entries.
func (d *Dictionary) Len() int { return len(d.set) }
