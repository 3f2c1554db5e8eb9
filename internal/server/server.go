// internal/server/server.go
//
// TCP front end for the word-chain room.
// Responsibilities:
//   - Accept loop: admit each connection into the Room, or reply "Server full." and close.
//   - One goroutine per connection: the only reader of that socket. Each line is
//     parsed and dispatched to the Room; rejected requests get "ERROR: <reason>".
//   - Shutdown: when ctx is canceled the listener and every open connection are
//     closed, and Serve returns after all handlers exit.

package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/internal/game"
	"github.com/robalobadob/wordchain/internal/protocol"
)

// replyTimeout bounds writes made directly by the connection handler.
const replyTimeout = time.Second

// Server serves the line protocol for one Room.
type Server struct {
	room *game.Room

	mu    sync.Mutex // guards conns
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// New returns a Server bound to room.
func New(room *game.Room) *Server {
	return &Server{room: room, conns: make(map[net.Conn]struct{})}
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("game server listening")
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled. On return ln and all
// open connections are closed. A Server serves at most once.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
		s.closeConns()
	})
	defer func() {
		stop()
		_ = ln.Close()
		s.closeConns()
		s.wg.Wait()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Warn().Err(err).Msg("accept")
			continue
		}
		if !s.track(conn) {
			_ = conn.Close()
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handle(conn)
		}()
	}
}

// handle runs the read loop of one connection.
func (s *Server) handle(conn net.Conn) {
	remote := conn.RemoteAddr().String()

	p, err := s.room.Admit(conn)
	if err != nil {
		log.Info().Str("remote", remote).Err(err).Msg("connection rejected")
		_ = conn.SetWriteDeadline(time.Now().Add(replyTimeout))
		_, _ = io.WriteString(conn, protocol.MsgServerFull+"\n")
		_ = conn.Close()
		return
	}
	defer s.room.Disconnect(p.ID)

	lr := protocol.NewLineReader(conn)
	for {
		line, err := lr.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Debug().Err(err).Str("remote", remote).Msg("read failed")
			}
			return
		}
		s.dispatch(p, line)
	}
}

// dispatch applies one client line. Room errors are reported back to the sender only.
func (s *Server) dispatch(p *game.Player, line string) {
	cmd := protocol.Parse(line)

	var err error
	switch cmd.Kind {
	case protocol.CmdRegister:
		err = s.room.Register(p.ID, cmd.Arg)
	case protocol.CmdStart:
		err = s.room.Start(p.ID)
	case protocol.CmdWord:
		err = s.room.Submit(p.ID, cmd.Arg)
	case protocol.CmdChat:
		err = s.room.NotifyChat(p.ID, cmd.Arg)
	default:
		err = errUnknownCommand
	}
	if err == nil {
		return
	}

	log.Debug().Str("player", p.ID).Stringer("cmd", cmd.Kind).Err(err).Msg("request rejected")
	if werr := p.Send(protocol.Error(err.Error()), replyTimeout); werr != nil {
		log.Debug().Err(werr).Str("player", p.ID).Msg("error reply failed")
	}
}

var errUnknownCommand = errors.New("Unknown command.")

// track registers conn for shutdown. It reports false once shutdown began.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}
