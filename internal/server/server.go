package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// Server accepts connections and runs one worker per connection. Each
// connection carries exactly one request and receives exactly one response
// before it is closed; there is no keep-alive.
type Server struct {
	handler *Handler
	logger  *slog.Logger

	readTimeout     time.Duration
	writeTimeout    time.Duration
	maxRequestBytes int64

	ln net.Listener
}

// Options bound how long a connection may block and how large a request
// body may be. Zero values fall back to safe defaults.
type Options struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRequestBytes int64
}

func New(handler *Handler, logger *slog.Logger, opts Options) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = 64 << 10
	}
	return &Server{
		handler:         handler,
		logger:          logger,
		readTimeout:     opts.ReadTimeout,
		writeTimeout:    opts.WriteTimeout,
		maxRequestBytes: opts.MaxRequestBytes,
	}
}

// Listen binds the listener. Serve must be called afterwards.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop until the listener is closed.
func (s *Server) Serve() error {
	if s.ln == nil {
		return errors.New("server: Serve called before Listen")
	}
	s.logger.Info("server listening", "addr", s.ln.Addr().String())

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.logger.Info("client connected", "remote", conn.RemoteAddr().String())
		go s.handleConn(conn)
	}
}

// Close stops the accept loop. In-flight connections run to completion.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// handleConn reads one request, produces one response and closes the
// connection. Any panic in a handler is caught here and surfaced as the
// generic server error so no internal detail reaches the client.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while handling request", "remote", conn.RemoteAddr().String(), "panic", r)
			s.writeResponse(conn, serverError())
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))

	req, err := readRequest(bufio.NewReader(conn), s.maxRequestBytes)
	if err != nil {
		s.logger.Warn("bad request", "remote", conn.RemoteAddr().String(), "err", err)
		s.writeResponse(conn, badRequest())
		return
	}

	s.writeResponse(conn, s.handler.route(context.Background(), req))
}

func (s *Server) writeResponse(conn net.Conn, resp response) {
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := resp.write(conn); err != nil {
		s.logger.Warn("write response failed", "remote", conn.RemoteAddr().String(), "err", err)
	}
}
