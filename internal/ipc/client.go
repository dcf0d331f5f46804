package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/backdrop/internal/runtimepath"
)

// DefaultTimeout bounds a whole request round trip. It leaves room for the
// daemon to poll for the background host.
const DefaultTimeout = 15 * time.Second

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client. An empty socketPath selects the
// default runtime location.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		if p, err := runtimepath.SocketPath(""); err == nil {
			socketPath = p
		}
		// Keep constructor non-failing; sendRequest surfaces connection errors.
	}

	return &Client{
		socketPath: socketPath,
		timeout:    DefaultTimeout,
	}
}

// WithTimeout returns a copy of c using timeout per request.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	cp := *c
	cp.timeout = timeout
	return &cp
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
		return nil, &RemoteError{Code: resp.Code, Message: resp.Error}
	}

	return &resp, nil
}

func (c *Client) sendWindowCommand(cmd CommandType, target WindowPayload) (*WindowData, error) {
	payload, err := json.Marshal(target)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal window payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: cmd, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data WindowData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}
	return &data, nil
}

// Embed asks the daemon to put the selected window into wallpaper mode.
func (c *Client) Embed(target WindowPayload) (*WindowData, error) {
	return c.sendWindowCommand(CommandEmbed, target)
}

// Unembed asks the daemon to restore the selected window. An empty target
// restores whatever is embedded.
func (c *Client) Unembed(target WindowPayload) (*WindowData, error) {
	return c.sendWindowCommand(CommandUnembed, target)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	req := &Request{
		Command: CommandGetStatus,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	req := &Request{
		Command: CommandGetMonitors,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &monitors, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
