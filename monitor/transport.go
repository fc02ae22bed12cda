package monitor

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec/hci/h4"
	"github.com/rigado/btcodec/hci/socket"
)

type transportHci struct {
	id int
}

type transportH4Socket struct {
	addr    string
	timeout time.Duration
}

type transportH4Uart struct {
	path string
	baud uint
}

type transport struct {
	hci      *transportHci
	h4uart   *transportH4Uart
	h4socket *transportH4Socket
	src      io.ReadCloser
}

func getTransport(t transport) (io.ReadCloser, error) {
	switch {
	case t.src != nil:
		return t.src, nil

	case t.hci != nil:
		return socket.NewSocket(t.hci.id)

	case t.h4socket != nil:
		return h4.Dial(t.h4socket.addr, t.h4socket.timeout)

	case t.h4uart != nil:
		so := h4.DefaultSerialOptions()
		so.PortName = t.h4uart.path
		if t.h4uart.baud != 0 {
			so.BaudRate = t.h4uart.baud
		}
		return h4.NewSerial(so)

	default:
		return nil, errors.New("no valid transport found")
	}
}
