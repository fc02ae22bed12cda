package monitor

import (
	"io"
	"time"

	"github.com/rigado/btcodec"
	"github.com/rigado/btcodec/bqr"
	"github.com/rigado/btcodec/metrics"
)

// MonitorOption is implemented by Monitor to accept configuration options.
type MonitorOption interface {
	SetTransportHCISocket(id int) error
	SetTransportH4Socket(addr string, timeout time.Duration) error
	SetTransportH4Uart(path string, baud uint) error
	SetSource(src io.ReadCloser) error
	SetFrameTimeout(d time.Duration) error
	SetReportHandler(handler func(*bqr.Report)) error
	SetErrorHandler(handler func(error)) error
	SetReportCache(c btcodec.ReportCache) error
	SetMetrics(m *metrics.Metrics) error
}

// An Option is a configuration function, which configures the monitor.
type Option func(MonitorOption) error

// OptTransportHCISocket reads from a raw socket on hci<id>, -1 for the first device.
func OptTransportHCISocket(id int) Option {
	return func(opt MonitorOption) error {
		return opt.SetTransportHCISocket(id)
	}
}

// OptTransportH4Socket reads from an H4 bridge over TCP.
func OptTransportH4Socket(addr string, timeout time.Duration) Option {
	return func(opt MonitorOption) error {
		return opt.SetTransportH4Socket(addr, timeout)
	}
}

// OptTransportH4Uart reads from a controller on a serial port. A zero baud keeps the default.
func OptTransportH4Uart(path string, baud uint) Option {
	return func(opt MonitorOption) error {
		return opt.SetTransportH4Uart(path, baud)
	}
}

// OptSource reads H4 bytes from src, for captures and replays.
func OptSource(src io.ReadCloser) Option {
	return func(opt MonitorOption) error {
		return opt.SetSource(src)
	}
}

func OptFrameTimeout(d time.Duration) Option {
	return func(opt MonitorOption) error {
		return opt.SetFrameTimeout(d)
	}
}

// OptReportHandler sets the callback for each decoded report.
func OptReportHandler(handler func(*bqr.Report)) Option {
	return func(opt MonitorOption) error {
		return opt.SetReportHandler(handler)
	}
}

// OptErrorHandler sets error handler
func OptErrorHandler(handler func(error)) Option {
	return func(opt MonitorOption) error {
		return opt.SetErrorHandler(handler)
	}
}

// OptReportCache stores the latest report per device in c.
func OptReportCache(c btcodec.ReportCache) Option {
	return func(opt MonitorOption) error {
		return opt.SetReportCache(c)
	}
}

func OptMetrics(m *metrics.Metrics) Option {
	return func(opt MonitorOption) error {
		return opt.SetMetrics(m)
	}
}
