/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package stat emits per-entity metrics (servers, escapers, resolvers) as
// prometheus counters/gauges/histograms - adapted from the shape the
// teacher's prometheus package test suite documents (SlowTime, duration
// buckets, ListMetric) - tagged with daemon_group, stat_id, entity and
// static tags. A statsd/UDP sink (stat/statsd.go) built on
// github.com/VictoriaMetrics/metrics covers the same data for deployments
// that scrape over UDP instead of a Prometheus /metrics endpoint.
package stat

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var DefaultSlowTime = int32(5)

var defaultDurationBuckets = []float64{0.1, 0.3, 1.2, 5, 10}

// Tags are the label set every emitted metric carries: the daemon group,
// a stat identifier (e.g. "task.duration", "icap.verdict"), the entity
// name (server/escaper/resolver), plus whatever static tags the caller
// configured for this daemon instance.
type Tags struct {
	DaemonGroup string
	StatID      string
	Entity      string
	Static      map[string]string
}

func (t Tags) labelNames() []string {
	names := []string{"daemon_group", "stat_id", "entity"}
	for k := range t.Static {
		names = append(names, k)
	}
	return names
}

func (t Tags) labelValues() prometheus.Labels {
	lv := prometheus.Labels{"daemon_group": t.DaemonGroup, "stat_id": t.StatID, "entity": t.Entity}
	for k, v := range t.Static {
		lv[k] = v
	}
	return lv
}

// Registry wraps a prometheus.Registerer with the named-metric lookup
// the teacher's Prometheus interface exposes (ListMetric), and a
// slow-request threshold (GetSlowTime/SetSlowTime) used to flag requests
// whose total_time exceeds it.
type Registry struct {
	mu        sync.RWMutex
	reg       *prometheus.Registry
	counters  map[string]*prometheus.CounterVec
	gauges    map[string]*prometheus.GaugeVec
	hists     map[string]*prometheus.HistogramVec
	slowTime  int32
	durations []float64
}

func NewRegistry() *Registry {
	return &Registry{
		reg:       prometheus.NewRegistry(),
		counters:  make(map[string]*prometheus.CounterVec),
		gauges:    make(map[string]*prometheus.GaugeVec),
		hists:     make(map[string]*prometheus.HistogramVec),
		slowTime:  DefaultSlowTime,
		durations: append([]float64{}, defaultDurationBuckets...),
	}
}

func (r *Registry) Registerer() prometheus.Registerer { return r.reg }
func (r *Registry) Gatherer() prometheus.Gatherer      { return r.reg }

func (r *Registry) GetSlowTime() int32  { return r.slowTime }
func (r *Registry) SetSlowTime(v int32) { r.slowTime = v }

func (r *Registry) GetDuration() []float64 { return r.durations }
func (r *Registry) SetDuration(buckets []float64) {
	if len(buckets) > 0 {
		r.durations = buckets
	}
}

// ListMetric returns the names of every counter/gauge/histogram registered
// so far.
func (r *Registry) ListMetric() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for n := range r.counters {
		names = append(names, n)
	}
	for n := range r.gauges {
		names = append(names, n)
	}
	for n := range r.hists {
		names = append(names, n)
	}
	return names
}

// IncCounter increments (creating if necessary) the counter named name,
// labeled by tags.
func (r *Registry) IncCounter(name string, tags Tags) {
	r.counter(name, tags).With(tags.labelValues()).Inc()
}

// SetGauge sets (creating if necessary) the gauge named name, labeled by
// tags.
func (r *Registry) SetGauge(name string, tags Tags, value float64) {
	r.gauge(name, tags).With(tags.labelValues()).Set(value)
}

// ObserveDuration records an elapsed duration into the histogram named
// name, labeled by tags.
func (r *Registry) ObserveDuration(name string, tags Tags, d time.Duration) {
	r.histogram(name, tags).With(tags.labelValues()).Observe(d.Seconds())
}

func (r *Registry) counter(name string, tags Tags) *prometheus.CounterVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, tags.labelNames())
	r.reg.MustRegister(c)
	r.counters[name] = c
	return c
}

func (r *Registry) gauge(name string, tags Tags) *prometheus.GaugeVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name}, tags.labelNames())
	r.reg.MustRegister(g)
	r.gauges[name] = g
	return g
}

func (r *Registry) histogram(name string, tags Tags) *prometheus.HistogramVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.hists[name]; ok {
		return h
	}
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Buckets: r.durations}, tags.labelNames())
	r.reg.MustRegister(h)
	r.hists[name] = h
	return h
}
