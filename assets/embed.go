// assets/embed.go
//
// Embedded data files shipped with the binary:
//   - dictionary.txt: fallback word list used when DICTIONARY_FILE is not set.
//   - sql/*.sql:      play log migrations, applied in lexical order.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed dictionary.txt sql/*.sql
var FS embed.FS

// readLines returns the non-blank, non-comment lines of an embedded file.
// Lines are trimmed but otherwise kept verbatim; case policy belongs to the caller.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// DictionaryList returns the embedded default dictionary.
func DictionaryList() ([]string, error) {
	return readLines("dictionary.txt")
}

// Migrations exposes the embedded sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded at build time; a missing directory is a build defect.
		panic(err)
	}
	return sub
}
