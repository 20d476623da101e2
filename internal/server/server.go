// Package server implements the TCP listener and per-connection state
// machine that drive RESP requests into the keyspace evaluator.
package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/avbdev/redikit/internal/command"
	"github.com/avbdev/redikit/internal/redisconf"
	"github.com/avbdev/redikit/internal/resp"
	"github.com/avbdev/redikit/internal/store"
)

// readBufferSize is the fixed size of each socket read. A RESP batch that
// spans two reads fails with an UnexpectedEnd parse error rather than being
// reassembled; pipelines are expected to arrive within one read.
const readBufferSize = 512

// NewServer constructs a Server bound to address, serving ks against cfg
// and repl. Call Serve to begin accepting connections.
func NewServer(address string, ks *store.Keyspace, cfg *redisconf.Config, repl *redisconf.ReplicationInfo, logger zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		Address:     address,
		Logger:      logger,
		Keyspace:    ks,
		Config:      cfg,
		Replication: repl,
		activeConns: make(map[*Connection]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Listen binds the configured address. Serve calls this automatically if
// the listener has not already been created.
func (s *Server) Listen() error {
	l, err := net.Listen("tcp", s.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Address, err)
	}
	s.listener = l
	s.Logger.Info().Str("address", s.Address).Msg("listening")
	return nil
}

// Serve accepts connections until the listener closes, dispatching each to
// its own goroutine. It blocks; callers typically run it in its own
// goroutine or as the last call in main.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	defer s.listener.Close()

	for {
		netConn, err := s.listener.Accept()
		if err != nil {
			if s.inShutdown.Load() {
				return nil
			}
			s.Logger.Error().Err(err).Msg("accept error")
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(netConn)
		}()
	}
}

// Shutdown stops accepting new connections, closes every active
// connection, and waits for their goroutines to exit or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.cancel()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			return err
		}
	}

	s.mu.RLock()
	for conn := range s.activeConns {
		conn.Close()
	}
	s.mu.RUnlock()

	s.mu.Lock()
	for _, fn := range s.onShutdown {
		fn()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// OnShutdown registers a cleanup function run during Shutdown.
func (s *Server) OnShutdown(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShutdown = append(s.onShutdown, f)
}

// handleConnection runs the Reading -> Parsing -> Evaluating -> Writing
// loop for one accepted socket until EOF or a fatal I/O error.
func (s *Server) handleConnection(netConn net.Conn) {
	connCtx, cancel := context.WithCancel(s.ctx)
	conn := &Connection{
		conn:   netConn,
		writer: bufio.NewWriter(netConn),
		server: s,
		ctx:    connCtx,
		cancel: cancel,
	}
	conn.setState(StateNew)

	s.mu.Lock()
	s.activeConns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.activeConns, conn)
		s.mu.Unlock()
	}()

	conn.setState(StateActive)

	buf := make([]byte, readBufferSize)
	for {
		select {
		case <-connCtx.Done():
			return
		default:
		}

		n, err := netConn.Read(buf)
		if n == 0 {
			return // orderly close: EOF or a read error with nothing read
		}

		values, parseErr := resp.Parse(buf[:n])
		if parseErr != nil {
			if !s.writeReply(conn, resp.SimpleError([]byte(fmt.Sprintf("ERR %v", parseErr)))) {
				return
			}
			if err != nil {
				return
			}
			continue
		}

		for _, v := range values {
			req, cmdErr := command.Parse(v, time.Now())
			var reply resp.Value
			if cmdErr != nil {
				reply = resp.SimpleError([]byte(fmt.Sprintf("ERR %v", cmdErr)))
			} else {
				reply = Evaluate(req, s.Keyspace, s.Config, s.Replication)
			}
			if !s.writeReply(conn, reply) {
				return
			}
		}

		if err != nil {
			return
		}
	}
}

func (s *Server) writeReply(conn *Connection, v resp.Value) bool {
	if _, err := v.WriteTo(conn.writer); err != nil {
		s.Logger.Debug().Err(err).Msg("write error, closing connection")
		return false
	}
	if err := conn.writer.Flush(); err != nil {
		s.Logger.Debug().Err(err).Msg("flush error, closing connection")
		return false
	}
	return true
}
