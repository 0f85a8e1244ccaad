// Package metrics exports simulation state as Prometheus metrics
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sheikhrachel/lifegrid/driver"
)

// Collector records controller notifications. It implements driver.Observer
type Collector struct {
	registry *prometheus.Registry

	generation prometheus.Gauge
	living     prometheus.Gauge
	gridSize   prometheus.Gauge
	speed      prometheus.Gauge
	steps      prometheus.Counter
	resets     prometheus.Counter
}

var _ driver.Observer = (*Collector)(nil)

// NewCollector registers the lifegrid metrics on a fresh registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		generation: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lifegrid_generation",
			Help: "Generations advanced since the last reset",
		}),
		living: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lifegrid_living_cells",
			Help: "Number of live cells in the current generation",
		}),
		gridSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lifegrid_grid_size",
			Help: "Dimension of the square grid",
		}),
		speed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lifegrid_speed_tps",
			Help: "Target steps per second while playing",
		}),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "lifegrid_steps_total",
			Help: "Total generation advances",
		}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "lifegrid_resets_total",
			Help: "Total edits that replaced or modified the grid outside a step",
		}),
	}
}

// Registry returns the registry the metrics live in
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) OnStep(st driver.Status) {
	c.steps.Inc()
	c.set(st)
}

func (c *Collector) OnReset(st driver.Status) {
	c.resets.Inc()
	c.set(st)
}

func (c *Collector) set(st driver.Status) {
	c.generation.Set(float64(st.Generation))
	c.living.Set(float64(st.Living))
	c.gridSize.Set(float64(st.Size))
	c.speed.Set(float64(st.Speed))
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return errors.Wrapf(err, "[Serve] metrics listener on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
