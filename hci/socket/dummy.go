//go:build !linux
// +build !linux

package socket

import (
	"github.com/pkg/errors"
)

// Socket is unavailable off linux.
type Socket struct{}

// NewSocket is a dummy function for non-Linux platform.
func NewSocket(id int) (*Socket, error) {
	return nil, errors.New("only available on linux")
}

func (s *Socket) ID() int                     { return -1 }
func (s *Socket) Read(p []byte) (int, error)  { return 0, errors.New("only available on linux") }
func (s *Socket) Write(p []byte) (int, error) { return 0, errors.New("only available on linux") }
func (s *Socket) Close() error                { return nil }
