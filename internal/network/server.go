// Package network serves JSON commands over TCP. Each connection is a
// session with its own selected database; requests and responses are
// JSON objects, one per line.
package network

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/leengari/lsdb/internal/executor"
	"github.com/leengari/lsdb/internal/storage/manager"
)

// Server executes commands from TCP clients against a registry
type Server struct {
	registry *manager.Registry
	logger   *slog.Logger
	database string // selected on connect when not empty

	// mu serializes command execution; databases are not goroutine-safe
	mu sync.Mutex
}

// NewServer creates a server. database, if not empty, is selected for
// every new connection.
func NewServer(registry *manager.Registry, logger *slog.Logger, database string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{registry: registry, logger: logger, database: database}
}

// Start starts the TCP database server and blocks until it fails
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.logger.Error("Failed to bind to port", "port", port, "error", err)
		return err
	}
	defer listener.Close()

	s.logger.Info("Running on port", "port", port)
	return s.Serve(listener)
}

// Serve accepts connections on listener until it is closed
func (s *Server) Serve(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("Failed to accept connection", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	logger := s.logger.With("remote", conn.RemoteAddr().String())

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	s.mu.Lock()
	session, err := executor.NewSession(s.registry, s.database)
	s.mu.Unlock()
	if err != nil {
		logger.Error("failed to start session", "error", err)
		_ = encoder.Encode(&executor.Result{Error: err.Error()})
		return
	}

	for {
		var cmd executor.Command
		if err := decoder.Decode(&cmd); err != nil {
			if err == io.EOF {
				return // Connection closed gracefully
			}
			logger.Error("decode error", "error", err)

			// Send error back to client
			_ = encoder.Encode(&executor.Result{
				Error: fmt.Sprintf("Invalid request format: %v", err),
			})
			return
		}

		cmd.Op = strings.ToLower(strings.TrimSpace(cmd.Op))
		if cmd.Op == "exit" || cmd.Op == "\\q" {
			return
		}

		result := s.execute(session, cmd)
		if err := encoder.Encode(result); err != nil {
			logger.Error("encode error", "error", err)
			return
		}
	}
}

// execute runs one command, folding any error into the result
func (s *Server) execute(session *executor.Session, cmd executor.Command) *executor.Result {
	if cmd.Op == "" {
		return &executor.Result{Error: `missing "op"`}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := session.Run(cmd)
	if err != nil {
		return &executor.Result{Error: err.Error()}
	}
	return result
}
