package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskpet/internal/runtimepath"
)

// StatusProvider returns the latest status snapshot published by the host
// loop. It must be safe to call from any goroutine.
type StatusProvider interface {
	Status() StatusData
}

// readTimeout bounds how long a client may take to send its request line.
const readTimeout = 5 * time.Second

// Server answers control requests from the CLI and the MCP server. Reads
// are served from the published status; mutations are queued for the host
// loop.
type Server struct {
	socketPath string
	listener   net.Listener
	status     StatusProvider
	controls   chan<- Control
	stopping   atomic.Bool
}

// NewServer creates a new IPC server on the default socket path
func NewServer(status StatusProvider, controls chan<- Control) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, status, controls), nil
}

// NewServerAt creates a server listening on socketPath
func NewServerAt(socketPath string, status StatusProvider, controls chan<- Control) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		status:     status,
		controls:   controls,
	}
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping.Load() {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(readTimeout))

	// One JSON request per line, one response per connection.
	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	var resp *Response
	if req, err := ParseRequest(data); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}
	writeResponse(conn, resp)
}

func writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandShow, CommandHide, CommandToggle, CommandReload, CommandQuit:
		return s.enqueue(Control{Command: req.Command})
	case CommandSetClickThrough:
		return s.handleSetClickThrough(req.Payload)
	case CommandGetStatus:
		resp, err := NewOKResponse(s.status.Status())
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return resp
	case CommandGetQuadrant:
		resp, err := NewOKResponse(s.status.Status().Quadrant)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return resp
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleSetClickThrough(payload json.RawMessage) *Response {
	var p SetClickThroughPayload
	if len(payload) == 0 {
		return NewErrorResponse("SET_CLICK_THROUGH requires a payload")
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	return s.enqueue(Control{Command: CommandSetClickThrough, Enabled: p.Enabled})
}

// enqueue hands a control to the host loop without blocking. The loop applies
// it on its next control poll.
func (s *Server) enqueue(c Control) *Response {
	select {
	case s.controls <- c:
		log.Printf("IPC: queued %s", c.Command)
		resp, _ := NewOKResponse(nil)
		return resp
	default:
		return NewErrorResponse("daemon is busy, try again")
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.stopping.Store(true)
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
