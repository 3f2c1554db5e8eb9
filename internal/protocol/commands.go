package protocol

import "strings"

// Kind identifies a client command.
type Kind int

const (
	CmdUnknown Kind = iota
	CmdRegister
	CmdStart
	CmdWord
	CmdChat
)

func (k Kind) String() string {
	switch k {
	case CmdRegister:
		return "REGISTER"
	case CmdStart:
		return "START"
	case CmdWord:
		return "WORD"
	case CmdChat:
		return "CHAT"
	default:
		return "UNKNOWN"
	}
}

// Command is a parsed client line.
type Command struct {
	Kind Kind
	Arg  string // name, word or chat text; empty for START
}

// Parse interprets one protocol line. Keywords are case-sensitive, as sent by
// the reference client; the argument is everything after the first space.
func Parse(line string) Command {
	switch {
	case strings.HasPrefix(line, "REGISTER "):
		return Command{Kind: CmdRegister, Arg: strings.TrimSpace(line[len("REGISTER "):])}
	case strings.TrimSpace(line) == "START":
		return Command{Kind: CmdStart}
	case strings.HasPrefix(line, "WORD "):
		return Command{Kind: CmdWord, Arg: strings.TrimSpace(line[len("WORD "):])}
	case strings.HasPrefix(line, "CHAT "):
		return Command{Kind: CmdChat, Arg: line[len("CHAT "):]}
	default:
		return Command{Kind: CmdUnknown, Arg: line}
	}
}
