package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskpet/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) simple(cmd CommandType) error {
	_, err := c.sendRequest(&Request{Command: cmd})
	return err
}

// Show makes the pet visible
func (c *Client) Show() error { return c.simple(CommandShow) }

// Hide hides the pet
func (c *Client) Hide() error { return c.simple(CommandHide) }

// Toggle flips the pet's visibility
func (c *Client) Toggle() error { return c.simple(CommandToggle) }

// Reload asks the daemon to re-read its config
func (c *Client) Reload() error { return c.simple(CommandReload) }

// Quit stops the daemon
func (c *Client) Quit() error { return c.simple(CommandQuit) }

// SetClickThrough toggles whole-window click-through
func (c *Client) SetClickThrough(enabled bool) error {
	payload, err := json.Marshal(SetClickThroughPayload{Enabled: enabled})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandSetClickThrough, Payload: payload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetQuadrant retrieves the pet's current quadrant
func (c *Client) GetQuadrant() (*QuadrantData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetQuadrant})
	if err != nil {
		return nil, err
	}

	var q QuadrantData
	if err := json.Unmarshal(resp.Data, &q); err != nil {
		return nil, fmt.Errorf("failed to parse quadrant data: %w", err)
	}
	return &q, nil
}
