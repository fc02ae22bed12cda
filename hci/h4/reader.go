package h4

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
)

const (
	rxQueueSize = 64
	rxReadSize  = 512
)

// Reader runs a read loop over an H4 byte source and delivers whole frames.
type Reader struct {
	src          io.Reader
	frames       chan []byte
	frameTimeout time.Duration
	queueSize    int
	logger       btcodec.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// OptFrameTimeout sets how long a partial frame may wait for the rest of its bytes.
func OptFrameTimeout(d time.Duration) Option {
	return func(r *Reader) {
		r.frameTimeout = d
	}
}

// OptQueueSize sets the capacity of the frame channel.
func OptQueueSize(n int) Option {
	return func(r *Reader) {
		r.queueSize = n
	}
}

func OptLogger(l btcodec.Logger) Option {
	return func(r *Reader) {
		r.logger = l
	}
}

func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		src:          src,
		frameTimeout: DefaultFrameTimeout,
		queueSize:    rxQueueSize,
		logger:       btcodec.GetLogger().ChildLogger(map[string]interface{}{"pkg": "h4"}),
	}
	for _, o := range opts {
		o(r)
	}
	if r.queueSize < 0 {
		r.queueSize = 0
	}
	r.frames = make(chan []byte, r.queueSize)
	return r
}

// Frames is closed when Run returns.
func (r *Reader) Frames() <-chan []byte {
	return r.frames
}

// Run reads until ctx is done, the source reports io.EOF or a read fails. Sources with a read
// timeout report an idle read as (0, nil). EOF returns nil. Run must only be called once.
func (r *Reader) Run(ctx context.Context) error {
	defer close(r.frames)

	asm := NewAssembler(r.frameTimeout, func(f []byte) {
		select {
		case r.frames <- f:
		case <-ctx.Done():
		}
	})

	tmp := make([]byte, rxReadSize)
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("read loop stopped")
			return ctx.Err()
		default:
		}

		n, err := r.src.Read(tmp)
		if n > 0 {
			asm.Assemble(tmp[:n])
		}

		switch {
		case err == nil:
		case err == io.EOF:
			r.logger.Debug("h4 source closed")
			return nil
		case ctx.Err() != nil:
			// source closed on cancel
			return ctx.Err()
		default:
			r.logger.Errorf("h4 read: %v", err)
			return errors.Wrap(err, "can't read h4")
		}
	}
}
