package sqlclient

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuannm99/seedsql/pkg/ast"
	"github.com/tuannm99/seedsql/server/seedwire"
)

// ParseError is a parse failure reported by the server.
type ParseError struct {
	Kind string
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

// Client is a simple synchronous client.
// It locks send/recv so Parse may be called concurrently; calls serialize.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
	id   atomic.Uint64

	// Optional per-request timeout (0 = no timeout).
	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	return DialContext(context.Background(), addr, timeout)
}

func DialContext(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

// SetRWTimeout sets a per-request read/write deadline.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.rwTimeout = d
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) Parse(sql string) (*ast.Document, error) {
	return c.ParseContext(context.Background(), sql)
}

// ParseContext sends sql to the server and returns the parsed document. A
// rejection by the parser comes back as *ParseError.
func (c *Client) ParseContext(ctx context.Context, sql string) (*ast.Document, error) {
	if c == nil || c.conn == nil {
		return nil, fmt.Errorf("sqlclient: nil client")
	}

	reqID := c.id.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// Clear deadline after request so idle connection doesn't expire.
		_ = c.conn.SetDeadline(time.Time{})
	}()

	req := seedwire.ParseRequest{ID: reqID, SQL: sql}
	if err := seedwire.WriteFrame(c.conn, req); err != nil {
		return nil, err
	}

	var resp seedwire.ParseResponse
	if err := seedwire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}

	if resp.ID != reqID {
		return nil, fmt.Errorf("sqlclient: response id mismatch: got=%d want=%d", resp.ID, reqID)
	}
	if resp.Error != "" {
		return nil, &ParseError{Kind: resp.Kind, Msg: resp.Error}
	}
	if resp.Document == nil {
		return nil, fmt.Errorf("sqlclient: response %d has no document", resp.ID)
	}
	return resp.Document, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	// Prefer context deadline if present; otherwise use rwTimeout.
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}
