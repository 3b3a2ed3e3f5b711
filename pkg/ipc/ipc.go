package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// Method names understood by the daemon.
const (
	MethodOptions         = "options"
	MethodClassify        = "classify"
	MethodAvailability    = "availability"
	MethodList            = "list"
	MethodGetCurrent      = "get_current"
	MethodUseSelection    = "use_selection"
	MethodAddSelection    = "add_selection"
	MethodDeleteSelection = "delete_selection"
	MethodExport          = "export"
	MethodReload          = "reload"
)

// OptionsQuery carries the derivation inputs of an options request.
type OptionsQuery struct {
	Capability         string   `json:"capability,omitempty"`
	Filter             string   `json:"filter,omitempty"`
	Force              []string `json:"force,omitempty"`
	IgnoreAvailability bool     `json:"ignore_availability,omitempty"`
	// Path is matched against synthetic region exclusions.
	Path string `json:"path,omitempty"`
}

// Request represents an IPC request.
type Request struct {
	Method     string          `json:"method"`
	Name       string          `json:"name,omitempty"`
	Format     string          `json:"format,omitempty"`
	Region     string          `json:"region,omitempty"`
	Capability string          `json:"capability,omitempty"`
	Query      *OptionsQuery   `json:"query,omitempty"`
	Selection  json.RawMessage `json:"selection,omitempty"`
}

// Response represents an IPC response.
type Response struct {
	OK    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Classification is the payload of a classify request.
type Classification struct {
	ID        string `json:"id" yaml:"id"`
	Country   string `json:"country" yaml:"country"`
	Continent string `json:"continent,omitempty" yaml:"continent,omitempty"`
	Group     string `json:"group" yaml:"group"`
}

// Availability is the payload of an availability request. Regions is set when
// no single region was asked about.
type Availability struct {
	Capability  string   `json:"capability" yaml:"capability"`
	Region      string   `json:"region,omitempty" yaml:"region,omitempty"`
	Unavailable bool     `json:"unavailable" yaml:"unavailable"`
	Regions     []string `json:"regions,omitempty" yaml:"regions,omitempty"`
}

// rawResponse is Response with the payload left undecoded.
type rawResponse struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Conn wraps a Unix socket connection with framed JSON.
type Conn struct {
	conn net.Conn
	rw   *bufio.ReadWriter
}

// Dial connects to a Unix socket.
func Dial(socketPath string) (*Conn, error) {
	c, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: c, rw: bufio.NewReadWriter(bufio.NewReader(c), bufio.NewWriter(c))}, nil
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// SendRequest writes a framed JSON request.
func (c *Conn) SendRequest(req Request) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := c.rw.Write(append(b, '\n')); err != nil {
		return err
	}
	return c.rw.Flush()
}

// ReadResponse reads one framed JSON response.
func (c *Conn) ReadResponse(resp interface{}) error {
	line, err := c.rw.ReadBytes('\n')
	if err != nil {
		return err
	}
	if err := json.Unmarshal(line, resp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// Call sends req and decodes the payload of a successful response into out,
// which may be nil. A response with ok=false is returned as an error.
func (c *Conn) Call(req Request, out interface{}) error {
	if err := c.SendRequest(req); err != nil {
		return err
	}
	var resp rawResponse
	if err := c.ReadResponse(&resp); err != nil {
		return err
	}
	if !resp.OK {
		if resp.Error == "" {
			return errors.New("daemon request failed")
		}
		return errors.New(resp.Error)
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", req.Method, err)
	}
	return nil
}

// Call dials socketPath, performs one request and closes the connection.
func Call(socketPath string, req Request, out interface{}) error {
	c, err := Dial(socketPath)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Call(req, out)
}
