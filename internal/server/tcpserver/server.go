// Package tcpserver accepts client connections and feeds raw requests to the
// dispatcher. Concurrency is bounded by a fixed-size slot pool rather than a
// goroutine per accept, so a connection flood degrades into busy replies
// instead of unbounded resource growth.
package tcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asanchezr/bancoseguro/internal/logging"
	"github.com/asanchezr/bancoseguro/internal/server/dispatcher"
)

// Handler is the dispatcher seam: one raw request in, one encoded response
// out, plus whether the connection must close.
type Handler interface {
	Handle(ctx context.Context, conn *dispatcher.Conn, raw []byte) ([]byte, bool)
	CloseConn(ctx context.Context, conn *dispatcher.Conn)
}

type Server struct {
	address     string
	handler     Handler
	logger      logging.Logger
	idleTimeout time.Duration
	maxConns    int
}

func New(address string, h Handler, l logging.Logger, idleTimeout time.Duration, maxConns int) *Server {
	return &Server{
		address:     address,
		handler:     h,
		logger:      l.With("module", "tcp_server"),
		idleTimeout: idleTimeout,
		maxConns:    maxConns,
	}
}

// Run listens on the configured address until ctx is cancelled. Each
// accepted connection takes a worker slot; when the pool is exhausted new
// connections get a busy error and are closed immediately.
func (s *Server) Run(ctx context.Context) error {

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping TCP server...")
		_ = listener.Close()
	}()

	s.logger.Info(ctx, "Starting TCP server", "address", s.address, "max_conns", s.maxConns)

	slots := make(chan struct{}, s.maxConns)
	var wg sync.WaitGroup

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.logger.Error(ctx, "accept failed", "error", err)
			continue
		}

		select {
		case slots <- struct{}{}:
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-slots }()
				s.handleConn(ctx, conn)
			}()
		default:
			s.rejectBusy(ctx, conn)
		}
	}

	wg.Wait()
	return nil
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	state := &dispatcher.Conn{RemoteAddr: conn.RemoteAddr().String()}
	log := s.logger.With("conn_id", uuid.NewString(), "remote_addr", state.RemoteAddr)
	log.Debug(ctx, "connection accepted")

	dec := json.NewDecoder(conn)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
			return
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Debug(ctx, "connection closed by peer")
			case isTimeout(err):
				// idle: the session, if any, is discarded with the connection
				log.Debug(ctx, "idle timeout, closing connection")
				s.handler.CloseConn(ctx, state)
			default:
				log.Warn(ctx, "read failed", "error", err)
			}
			return
		}

		resp, closeConn := s.handler.Handle(ctx, state, raw)

		if err := s.write(conn, resp); err != nil {
			log.Warn(ctx, "write failed", "error", err)
			return
		}
		if closeConn {
			return
		}
	}
}

func (s *Server) write(conn net.Conn, resp []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.idleTimeout)); err != nil {
		return err
	}
	_, err := conn.Write(append(resp, '\n'))
	return err
}

func (s *Server) rejectBusy(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	s.logger.Warn(ctx, "connection pool exhausted, rejecting", "remote_addr", conn.RemoteAddr().String())
	_ = s.write(conn, []byte(`{"status":"error","mensaje":"Servidor ocupado"}`))
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
