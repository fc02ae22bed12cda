// Package monitor reads HCI events from a controller and decodes the quality reports carried
// in vendor specific events.
package monitor

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
	"github.com/rigado/btcodec/bqr"
	"github.com/rigado/btcodec/hci/evt"
	"github.com/rigado/btcodec/hci/h4"
	"github.com/rigado/btcodec/metrics"
)

type handlerFn func(b []byte) error

// Monitor decodes quality reports from an HCI event stream.
type Monitor struct {
	transport    transport
	frameTimeout time.Duration

	evth map[int]handlerFn

	reportHandler func(*bqr.Report)
	errorHandler  func(error)
	cache         btcodec.ReportCache
	metrics       *metrics.Metrics
	logger        btcodec.Logger
}

func New(opts ...Option) (*Monitor, error) {
	m := &Monitor{
		frameTimeout: h4.DefaultFrameTimeout,
		evth:         map[int]handlerFn{},
		logger:       btcodec.GetLogger().ChildLogger(map[string]interface{}{"pkg": "monitor"}),
	}
	m.evth[evt.VendorSpecificCode] = m.handleVendorSpecific

	if err := m.Option(opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}
	return m, nil
}

// Option applies opts in order.
func (m *Monitor) Option(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

// Run opens the transport and handles frames until ctx is done or the source closes.
// Decode failures go to the error handler and do not stop the loop. Cancelling ctx closes the
// source, which unblocks a pending read.
func (m *Monitor) Run(ctx context.Context) error {
	src, err := getTransport(m.transport)
	if err != nil {
		return errors.Wrap(err, "can't open transport")
	}

	var once sync.Once
	closeSrc := func() {
		once.Do(func() {
			if err := src.Close(); err != nil {
				m.logger.Debugf("close source: %v", err)
			}
		})
	}
	defer closeSrc()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		closeSrc()
	}()

	r := h4.NewReader(src, h4.OptFrameTimeout(m.frameTimeout), h4.OptLogger(m.logger))
	errc := make(chan error, 1)
	go func() {
		errc <- r.Run(ctx)
	}()

	m.logger.Info("monitoring for quality reports")
	for f := range r.Frames() {
		if m.metrics != nil {
			m.metrics.ObserveFrame()
		}
		if err := m.HandleFrame(f); err != nil {
			m.dispatchError(err)
		}
	}

	err = <-errc
	if ctx.Err() != nil {
		// read failures after cancel come from closing the source
		return nil
	}
	return err
}

// HandleFrame processes one H4 frame. ACL frames are ignored.
func (m *Monitor) HandleFrame(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty frame")
	}

	switch b[0] {
	case evt.IndicatorEvent:
		return m.handleEvt(b)
	case evt.IndicatorACL:
		return nil
	default:
		return errors.Errorf("invalid packet: 0x%02X % X", b[0], b[1:])
	}
}

func (m *Monitor) handleEvt(b []byte) error {
	p := evt.Packet(b)
	params, err := p.ParametersWErr()
	if err != nil || len(params) != len(b)-3 {
		return errors.Errorf("invalid event packet: % X", b)
	}

	if f := m.evth[int(p.Code())]; f != nil {
		return f(params)
	}
	return nil
}

func (m *Monitor) handleVendorSpecific(b []byte) error {
	vs := evt.VendorSpecific(b)
	if vs.SubeventCode() != evt.BQRSubevent {
		// other vendor events
		return nil
	}

	raw, err := vs.BQRWErr()
	if err == nil {
		err = m.handleReport(raw)
	}
	if err != nil {
		if m.metrics != nil {
			m.metrics.ObserveDecodeError(err)
		}
		return errors.Wrap(err, "quality report")
	}
	return nil
}

func (m *Monitor) handleReport(raw []byte) error {
	c, err := bqr.DecodeCommon(raw, 0)
	if err != nil {
		return err
	}

	r, err := bqr.NewBuilder(raw).SetRemoteAddress(c.Address()).Build()
	if err != nil {
		return err
	}

	if m.metrics != nil {
		m.metrics.ObserveReport(r.ReportID())
	}
	m.logger.Debugf("%v from %v", r.ReportID(), r.RemoteAddress)

	if m.cache != nil {
		rec, err := r.Record()
		if err != nil {
			return err
		}
		if err := m.cache.Store(c.Addr, rec, true); err != nil {
			m.dispatchError(errors.Wrap(err, "can't cache report"))
		}
	}

	if m.reportHandler != nil {
		m.reportHandler(r)
	}
	return nil
}

func (m *Monitor) dispatchError(e error) {
	if m.errorHandler == nil {
		m.logger.Error(e)
		return
	}
	m.errorHandler(e)
}

// SetTransportHCISocket sets HCI device for hci socket
func (m *Monitor) SetTransportHCISocket(id int) error {
	m.transport = transport{
		hci: &transportHci{id},
	}
	return nil
}

// SetTransportH4Socket sets h4 socket server
func (m *Monitor) SetTransportH4Socket(addr string, timeout time.Duration) error {
	m.transport = transport{
		h4socket: &transportH4Socket{addr, timeout},
	}
	return nil
}

// SetTransportH4Uart sets h4 uart path
func (m *Monitor) SetTransportH4Uart(path string, baud uint) error {
	m.transport = transport{
		h4uart: &transportH4Uart{path, baud},
	}
	return nil
}

func (m *Monitor) SetSource(src io.ReadCloser) error {
	if src == nil {
		return errors.New("nil source")
	}
	m.transport = transport{src: src}
	return nil
}

// SetFrameTimeout sets how long a partial frame may wait. Zero selects h4.DefaultFrameTimeout.
func (m *Monitor) SetFrameTimeout(d time.Duration) error {
	if d < 0 {
		return errors.Errorf("invalid frame timeout %v", d)
	}
	if d == 0 {
		d = h4.DefaultFrameTimeout
	}
	m.frameTimeout = d
	return nil
}

func (m *Monitor) SetReportHandler(handler func(*bqr.Report)) error {
	m.reportHandler = handler
	return nil
}

func (m *Monitor) SetErrorHandler(handler func(error)) error {
	m.errorHandler = handler
	return nil
}

func (m *Monitor) SetReportCache(c btcodec.ReportCache) error {
	m.cache = c
	return nil
}

func (m *Monitor) SetMetrics(mt *metrics.Metrics) error {
	m.metrics = mt
	return nil
}
