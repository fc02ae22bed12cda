// Package metrics exposes Prometheus counters for decoded quality reports.
package metrics

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rigado/btcodec/bqr"
	"github.com/rigado/btcodec/ltv"
)

// Decode error reasons.
const (
	ReasonTruncated       = "truncated"
	ReasonUnknownReportID = "unknown_report_id"
	ReasonMalformedLTV    = "malformed_ltv"
	ReasonOther           = "other"
)

type Metrics struct {
	Reports      *prometheus.CounterVec
	DecodeErrors *prometheus.CounterVec
	Frames       prometheus.Counter
}

// NewMetrics creates and registers the counters with reg, or the default registerer if reg
// is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		Reports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "btcodec_bqr_reports_total",
			Help: "Total number of quality reports decoded, by report id",
		}, []string{"report_id"}),
		DecodeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "btcodec_bqr_decode_errors_total",
			Help: "Total number of quality reports that failed to decode",
		}, []string{"reason"}),
		Frames: f.NewCounter(prometheus.CounterOpts{
			Name: "btcodec_hci_frames_total",
			Help: "Total number of H4 frames read from the controller",
		}),
	}
}

func (m *Metrics) ObserveReport(id bqr.ReportID) {
	m.Reports.WithLabelValues(id.String()).Inc()
}

func (m *Metrics) ObserveDecodeError(err error) {
	m.DecodeErrors.WithLabelValues(Reason(err)).Inc()
}

func (m *Metrics) ObserveFrame() {
	m.Frames.Inc()
}

// Reason maps a decode error to its label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, bqr.ErrTruncatedBuffer):
		return ReasonTruncated
	case errors.Is(err, bqr.ErrUnknownReportID):
		return ReasonUnknownReportID
	case errors.Is(err, ltv.ErrTruncated):
		return ReasonMalformedLTV
	default:
		return ReasonOther
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
