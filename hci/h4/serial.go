package h4

import (
	"io"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
)

// DefaultSerialOptions returns 8N1 at 1Mbaud with a short inter character timeout so reads
// return regularly.
func DefaultSerialOptions() serial.OpenOptions {
	return serial.OpenOptions{
		PortName:              "/dev/ttyACM0",
		BaudRate:              1000000,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}
}

type uart struct {
	sp io.ReadWriteCloser
}

// NewSerial opens the port and discards whatever the controller had queued.
func NewSerial(opts serial.OpenOptions) (io.ReadWriteCloser, error) {
	// force these
	opts.MinimumReadSize = 0
	opts.InterCharacterTimeout = 100

	log := btcodec.GetLogger().ChildLogger(map[string]interface{}{"port": opts.PortName})
	log.Debug("opening...")
	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %v", opts.PortName)
	}

	log.Debug("flushing...")
	b := make([]byte, 2048)
	<-time.After(time.Millisecond * 250)
	if _, err := sp.Read(b); err != nil && err != io.EOF {
		sp.Close()
		return nil, errors.Wrap(err, "can't flush uart")
	}

	log.Infof("opened at %v baud", opts.BaudRate)
	return &uart{sp: sp}, nil
}

func (u *uart) Read(p []byte) (int, error) {
	n, err := u.sp.Read(p)
	if n == 0 && err == io.EOF {
		// VTIME expiry reads as EOF on a tty
		return 0, nil
	}
	return n, err
}

func (u *uart) Write(p []byte) (int, error) {
	n, err := u.sp.Write(p)
	return n, errors.Wrap(err, "can't write uart")
}

func (u *uart) Close() error {
	return errors.Wrap(u.sp.Close(), "can't close uart")
}
