package h4

import (
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
)

const defaultSocketTimeout = time.Second

// bridgeConn is a TCP connection to an H4 bridge. An idle read returns (0, nil) once the
// deadline passes, the same as a raw HCI socket poll.
type bridgeConn struct {
	net.Conn
	timeout time.Duration
}

// Dial connects to an H4 bridge over TCP. Every read and write gets its own deadline.
func Dial(addr string, timeout time.Duration) (io.ReadWriteCloser, error) {
	if timeout <= 0 {
		timeout = defaultSocketTimeout
	}

	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "can't dial %v", addr)
	}
	return &bridgeConn{Conn: c, timeout: timeout}, nil
}

func (bc *bridgeConn) Read(b []byte) (int, error) {
	if err := bc.SetReadDeadline(time.Now().Add(bc.timeout)); err != nil {
		return 0, errors.Wrap(err, "can't set read deadline")
	}

	n, err := bc.Conn.Read(b)
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return n, nil
	}
	return n, err
}

func (bc *bridgeConn) Write(b []byte) (int, error) {
	if err := bc.SetWriteDeadline(time.Now().Add(bc.timeout)); err != nil {
		return 0, errors.Wrap(err, "can't set write deadline")
	}
	return bc.Conn.Write(b)
}
