package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeebo/errs"
	"github.com/zeebo/measure"
	"github.com/zeebo/measure/measurehttp"
	"github.com/zeebo/measure/measureprom"
)

// frozen is a copy of a database's rows at one point in time.
type frozen struct {
	title string
	rows  []measure.Row
}

func (f frozen) Title() string           { return f.title }
func (f frozen) Snapshot() []measure.Row { return f.rows }

// snapshots holds the copies of every database published by the goroutine
// that writes the records. The samples use records that are not safe to read
// while they run, so handlers only ever see published copies.
type snapshots struct {
	sources atomic.Pointer[[]measure.Source]
}

// publish copies every database. It must be called from the goroutine that
// runs the samples.
func (s *snapshots) publish() {
	var out []measure.Source
	for _, src := range measure.Sources() {
		out = append(out, frozen{title: src.Title(), rows: src.Snapshot()})
	}
	s.sources.Store(&out)
}

// Sources returns the last published copies.
func (s *snapshots) Sources() []measure.Source {
	if p := s.sources.Load(); p != nil {
		return *p
	}
	return nil
}

// newMux returns the handler serving the reports and the metrics of the
// sources.
func newMux(sources func() []measure.Source) (*http.ServeMux, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(measureprom.Collector{Sources: sources}); err != nil {
		return nil, Error.Wrap(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", measurehttp.Handler{
		Sources: sources,
		Logf: func(format string, args ...interface{}) {
			log.Warn().Msgf(format, args...)
		},
	})
	return mux, nil
}

// serve runs the samples every interval and serves the reports on the
// configured address until the context is canceled.
func serve(ctx context.Context, cfg config, r runner) (err error) {
	var snaps snapshots
	snaps.publish()

	mux, err := newMux(snaps.Sources)
	if err != nil {
		return err
	}
	srv := &http.Server{Addr: cfg.addr, Handler: mux}

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()
	log.Info().Str("addr", cfg.addr).Msg("serving reports")

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errs.Combine(err, Error.Wrap(srv.Shutdown(shutdownCtx)))
	}()

	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	for {
		if err := r.samples(cfg.loops); err != nil {
			log.Warn().Err(err).Msg("samples failed")
		}
		snaps.publish()

		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return nil
		case err := <-done:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return Error.Wrap(err)
		case <-ticker.C:
		}
	}
}
