// Package ami speaks just enough of the Asterisk Manager Interface to log in
// and dispatch a single action. Frames are CRLF-delimited "Key: value" blocks
// terminated by an empty line, which net/textproto handles natively.
package ami

import (
	"fmt"
	"net"
	"net/textproto"
	"sort"
	"strconv"
	"time"
)

// Action is a single manager action and its fields.
type Action struct {
	Name   string
	ID     string // ActionID, optional
	Fields map[string]string
}

// Session is the capability the announcer needs from a manager connection.
// A fake implementation stands in for a real switch in tests.
type Session interface {
	Login(username, secret string) error
	Send(a Action) error
	Close() error
}

type session struct {
	conn net.Conn
	text *textproto.Conn
}

// Connect dials the manager interface and consumes the greeting banner.
func Connect(host string, port int, timeout time.Duration) (Session, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial asterisk manager: %w", err)
	}

	text := textproto.NewConn(conn)

	// Asterisk sends a one-line banner before the first response.
	if _, err := text.ReadLine(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read manager banner: %w", err)
	}

	return &session{conn: conn, text: text}, nil
}

func (s *session) Login(username, secret string) error {
	return s.Send(Action{
		Name: "Login",
		Fields: map[string]string{
			"Username": username,
			"Secret":   secret,
		},
	})
}

// Send writes the action frame and waits for the matching response block.
func (s *session) Send(a Action) error {
	if err := s.writeAction(a); err != nil {
		return fmt.Errorf("send %s action: %w", a.Name, err)
	}

	header, err := s.text.ReadMIMEHeader()
	if err != nil {
		return fmt.Errorf("read %s response: %w", a.Name, err)
	}

	if resp := header.Get("Response"); resp != "Success" {
		return fmt.Errorf("%s action failed: %s: %s", a.Name, resp, header.Get("Message"))
	}
	return nil
}

func (s *session) writeAction(a Action) error {
	if err := s.text.PrintfLine("Action: %s", a.Name); err != nil {
		return err
	}
	if a.ID != "" {
		if err := s.text.PrintfLine("ActionID: %s", a.ID); err != nil {
			return err
		}
	}

	keys := make([]string, 0, len(a.Fields))
	for k := range a.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := s.text.PrintfLine("%s: %s", k, a.Fields[k]); err != nil {
			return err
		}
	}

	// Empty line terminates the frame.
	return s.text.PrintfLine("")
}

// Close logs off best-effort and tears down the connection.
func (s *session) Close() error {
	_ = s.writeAction(Action{Name: "Logoff"})
	return s.conn.Close()
}
