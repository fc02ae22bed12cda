package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rigado/btcodec"
	"github.com/rigado/btcodec/bqr"
	"github.com/rigado/btcodec/cache"
	"github.com/rigado/btcodec/config"
	"github.com/rigado/btcodec/metrics"
	"github.com/rigado/btcodec/monitor"
	"github.com/urfave/cli"
)

// transportOption picks the transport from flags, falling back to the config file.
func transportOption(c *cli.Context) monitor.Option {
	t := cfg.Transport
	switch {
	case c.IsSet("h4s"):
		return monitor.OptTransportH4Socket(c.String("h4s"), t.SocketTimeout)
	case c.IsSet("h4u"):
		baud := t.BaudRate
		if c.IsSet("baud") {
			baud = c.Uint("baud")
		}
		return monitor.OptTransportH4Uart(c.String("h4u"), baud)
	case c.IsSet("device"):
		return monitor.OptTransportHCISocket(c.Int("device"))
	}

	switch t.Kind {
	case config.TransportSocket:
		return monitor.OptTransportH4Socket(t.SocketAddr, t.SocketTimeout)
	case config.TransportUart:
		return monitor.OptTransportH4Uart(t.UartPath, t.BaudRate)
	default:
		return monitor.OptTransportHCISocket(t.HCIDevice)
	}
}

func monitorCommand(c *cli.Context) error {
	log := btcodec.GetLogger()
	asJSON := c.Bool("json")

	opts := []monitor.Option{
		transportOption(c),
		monitor.OptFrameTimeout(cfg.Transport.FrameTimeout),
		monitor.OptReportHandler(func(r *bqr.Report) {
			if err := printReport(r, asJSON); err != nil {
				log.Error(err)
			}
		}),
		monitor.OptErrorHandler(func(err error) {
			log.Warn(err)
		}),
	}

	if !c.Bool("no-cache") {
		opts = append(opts, monitor.OptReportCache(cache.New(cfg.CachePath)))
	}

	addr := cfg.MetricsAddr
	if c.IsSet("metrics-addr") {
		addr = c.String("metrics-addr")
	}
	if addr != "" {
		opts = append(opts, monitor.OptMetrics(metrics.NewMetrics(nil)))

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))
		go func() {
			log.Infof("serving metrics on %v", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	m, err := monitor.New(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return m.Run(ctx)
}
