//go:build linux
// +build linux

// Package socket opens a raw HCI socket filtered to controller events. Unlike the user
// channel the device stays up and owned by the host stack.
package socket

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
	"golang.org/x/sys/unix"
)

func ioR(t, nr, size uintptr) uintptr {
	return (2 << 30) | (t << 8) | nr | (size << 16)
}

func ioctl(fd, op, arg uintptr) error {
	if _, _, ep := unix.Syscall(unix.SYS_IOCTL, fd, op, arg); ep != 0 {
		return ep
	}
	return nil
}

const (
	ioctlSize      = 4
	hciMaxDevices  = 16
	typHCI         = 72 // 'H'
	readTimeout    = 1000
	unixPollErrors = int16(unix.POLLHUP | unix.POLLNVAL | unix.POLLERR)
	unixPollDataIn = int16(unix.POLLIN)

	solHCI       = 0
	hciFilter    = 2
	hciEventPkt  = 0x04
	filterLength = 16
)

var hciGetDeviceList = ioR(typHCI, 210, ioctlSize) // HCIGETDEVLIST

type devListRequest struct {
	devNum     uint16
	devRequest [hciMaxDevices]struct {
		id  uint16
		opt uint32
	}
}

// Socket is a raw HCI socket as a ReadWriteCloser. Reads return H4 framed event packets.
type Socket struct {
	fd   int
	id   int
	rmu  sync.Mutex
	wmu  sync.Mutex
	done chan int
	cmu  sync.Mutex
}

// NewSocket opens hci<id>. If id is -1, the first device that binds is used.
func NewSocket(id int) (*Socket, error) {
	if id != -1 {
		return open(id)
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW, unix.BTPROTO_HCI)
	if err != nil {
		return nil, errors.Wrap(err, "can't create socket")
	}
	defer unix.Close(fd)

	req := devListRequest{devNum: hciMaxDevices}
	if err = ioctl(uintptr(fd), hciGetDeviceList, uintptr(unsafe.Pointer(&req))); err != nil {
		return nil, errors.Wrap(err, "can't get device list")
	}

	var msg string
	for i := 0; i < int(req.devNum); i++ {
		s, err := open(int(req.devRequest[i].id))
		if err == nil {
			return s, nil
		}
		msg = msg + fmt.Sprintf("(hci%d: %s)", req.devRequest[i].id, err)
	}
	return nil, errors.Errorf("no devices available: %s", msg)
}

// eventFilter passes every event code and nothing else.
func eventFilter() []byte {
	f := make([]byte, filterLength)
	binary.LittleEndian.PutUint32(f[0:], 1<<hciEventPkt)
	binary.LittleEndian.PutUint32(f[4:], 0xffffffff)
	binary.LittleEndian.PutUint32(f[8:], 0xffffffff)
	return f
}

func open(id int) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW, unix.BTPROTO_HCI)
	if err != nil {
		return nil, errors.Wrap(err, "can't create socket")
	}

	if err := unix.SetsockoptString(fd, solHCI, hciFilter, string(eventFilter())); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "can't set hci filter")
	}

	sa := unix.SockaddrHCI{Dev: uint16(id), Channel: unix.HCI_CHANNEL_RAW}
	if err := unix.Bind(fd, &sa); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "can't bind socket to hci%d", id)
	}

	btcodec.GetLogger().Debugf("raw hci socket bound to hci%d", id)
	return &Socket{fd: fd, id: id, done: make(chan int)}, nil
}

// ID is the bound device index.
func (s *Socket) ID() int {
	return s.id
}

// Read waits up to a second for data. A timeout returns 0 bytes and no error.
func (s *Socket) Read(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	var err error
	n := 0
	s.rmu.Lock()
	defer s.rmu.Unlock()
	// dont need to add unixPollErrors, they are always returned
	pfds := []unix.PollFd{{Fd: int32(s.fd), Events: unixPollDataIn}}
	unix.Poll(pfds, readTimeout)
	evts := pfds[0].Revents

	switch {
	case evts&unixPollErrors != 0:
		btcodec.GetLogger().Errorf("hci socket error: poll events 0x%04x", evts)
		return 0, io.EOF

	case evts&unixPollDataIn != 0:
		// there is data!
		n, err = unix.Read(s.fd, p)

	default:
		// no data, read timeout
		return 0, nil
	}

	// check if we are still open since the read takes a while
	if !s.isOpen() {
		return 0, io.EOF
	}
	return n, errors.Wrap(err, "can't read hci socket")
}

func (s *Socket) Write(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	n, err := unix.Write(s.fd, p)
	return n, errors.Wrap(err, "can't write hci socket")
}

func (s *Socket) Close() error {
	s.cmu.Lock()
	defer s.cmu.Unlock()

	select {
	case <-s.done:
		return nil

	default:
		close(s.done)
		s.rmu.Lock()
		err := unix.Close(s.fd)
		s.rmu.Unlock()

		return errors.Wrap(err, "can't close hci socket")
	}
}

func (s *Socket) isOpen() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}
