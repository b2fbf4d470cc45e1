// Package server accepts TCP connections carrying one newline-terminated
// JSON request each and writes back a single response line.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yukikurage/crossword-server/internal/constants"
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
	"github.com/yukikurage/crossword-server/internal/rpc"
	"golang.org/x/sync/semaphore"
)

var errLineTooLong = errors.New("request line too long")

// LineHandler answers one raw request line.
type LineHandler interface {
	HandleLine(ctx context.Context, line []byte) rpc.Response
}

// Options tunes connection handling. Zero fields take the defaults.
type Options struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxConnections  int
	MaxMessageBytes int
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = constants.DefaultReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = constants.DefaultWriteTimeout
	}
	if o.MaxConnections <= 0 {
		o.MaxConnections = constants.DefaultMaxConnections
	}
	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = constants.DefaultMaxMessageBytes
	}
	return o
}

// Server is the request/response listener.
type Server struct {
	handler LineHandler
	opts    Options
	log     zerolog.Logger
	slots   *semaphore.Weighted

	wg    sync.WaitGroup
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// New creates a server dispatching every request line to handler.
func New(handler LineHandler, opts Options, log zerolog.Logger) *Server {
	opts = opts.withDefaults()
	return &Server{
		handler: handler,
		opts:    opts,
		log:     log,
		slots:   semaphore.NewWeighted(int64(opts.MaxConnections)),
		conns:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes the
// listener and waits for in-flight connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Int("max_connections", s.opts.MaxConnections).Msg("Server: listening")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
			s.interruptIdle()
		case <-stop:
		}
	}()

	// Handlers finish their request even after shutdown begins.
	handlerCtx := context.WithoutCancel(ctx)

	var serveErr error
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				serveErr = fmt.Errorf("accept failed: %w", err)
			}
			break
		}

		if !s.slots.TryAcquire(1) {
			s.log.Warn().Str("remote", conn.RemoteAddr().String()).Msg("Server: connection limit reached, rejecting")
			conn.Close()
			continue
		}

		if err := s.admit(ctx, conn); err != nil {
			s.log.Error().Err(err).Msg("Server: failed to set read deadline")
			conn.Close()
			s.slots.Release(1)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.slots.Release(1)
			defer s.untrack(conn)
			s.handleConn(handlerCtx, conn)
		}()
	}

	s.wg.Wait()
	s.log.Info().Msg("Server: stopped")
	return serveErr
}

// admit arms the idle deadline and tracks conn. A connection accepted while
// shutdown is already under way may have missed interruptIdle, so its
// deadline is expired here instead.
func (s *Server) admit(ctx context.Context, conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil {
		return err
	}
	s.track(conn)
	if ctx.Err() != nil {
		if err := conn.SetReadDeadline(time.Now()); err != nil {
			s.untrack(conn)
			return err
		}
	}
	return nil
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	log := s.log.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	line, err := readLine(bufio.NewReader(conn), s.opts.MaxMessageBytes)
	var resp rpc.Response
	switch {
	case errors.Is(err, errLineTooLong):
		log.Warn().Int("limit", s.opts.MaxMessageBytes).Msg("Server: request too large")
		resp = rpc.Failure(apierrors.Protocol(fmt.Sprintf("Request exceeds %d bytes", s.opts.MaxMessageBytes))).Response()
	case err != nil:
		logReadError(log, err)
		return
	default:
		resp = s.handler.HandleLine(log.WithContext(ctx), line)
	}

	if err := s.write(conn, resp); err != nil {
		log.Warn().Err(err).Msg("Server: failed to write response")
		return
	}
	log.Debug().Str("status", resp.Status).Dur("duration", time.Since(start)).Msg("Server: connection served")
}

func (s *Server) write(conn net.Conn, resp rpc.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	data = append(data, '\n')

	if err := conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
		return err
	}
	_, err = conn.Write(data)
	return err
}

// readLine reads up to the first newline, which is not returned. Lines
// longer than limit bytes fail with errLineTooLong.
func readLine(r *bufio.Reader, limit int) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		switch {
		case err == nil:
			line = line[:len(line)-1]
			if len(line) > limit {
				return nil, errLineTooLong
			}
			return line, nil
		case len(line) > limit:
			return nil, errLineTooLong
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return nil, err
		}
	}
}

func logReadError(log zerolog.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		log.Info().Msg("Server: connection closed before a complete request")
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Info().Msg("Server: connection timed out waiting for a request")
	default:
		log.Warn().Err(err).Msg("Server: failed to read request")
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// interruptIdle expires the read deadline of every open connection so idle
// clients do not hold up shutdown. Requests already read are unaffected.
func (s *Server) interruptIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.SetReadDeadline(time.Now())
	}
}

// ActiveConnections reports how many connections are being served.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
