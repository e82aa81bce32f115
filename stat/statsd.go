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

package stat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// StatsdSink emits the same entity metrics over a VictoriaMetrics metrics
// set, which this module's go.mod already carries indirectly alongside
// prometheus/client_golang - the lighter-weight client for deployments
// that push metrics rather than expose a scrape endpoint, grounded on
// original_source/g3statsd's push-based model.
type StatsdSink struct {
	set *metrics.Set

	mu     sync.Mutex
	gauges map[string]*float64
}

func NewStatsdSink() *StatsdSink {
	return &StatsdSink{set: metrics.NewSet(), gauges: make(map[string]*float64)}
}

func metricKey(name string, tags Tags) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(`{daemon_group="`)
	b.WriteString(tags.DaemonGroup)
	b.WriteString(`",stat_id="`)
	b.WriteString(tags.StatID)
	b.WriteString(`",entity="`)
	b.WriteString(tags.Entity)
	b.WriteString(`"`)
	for k, v := range tags.Static {
		fmt.Fprintf(&b, `,%s="%s"`, k, v)
	}
	b.WriteString("}")
	return b.String()
}

func (s *StatsdSink) IncCounter(name string, tags Tags) {
	s.set.GetOrCreateCounter(metricKey(name, tags)).Inc()
}

// SetGauge records value for a callback-driven VictoriaMetrics gauge: the
// library reads gauges through a user-supplied function rather than a
// settable field, so the last value is kept behind a pointer the callback
// closes over.
func (s *StatsdSink) SetGauge(name string, tags Tags, value float64) {
	key := metricKey(name, tags)

	s.mu.Lock()
	v, ok := s.gauges[key]
	if !ok {
		v = new(float64)
		s.gauges[key] = v
		s.set.GetOrCreateGauge(key, func() float64 { return *v })
	}
	*v = value
	s.mu.Unlock()
}

func (s *StatsdSink) ObserveDuration(name string, tags Tags, d time.Duration) {
	s.set.GetOrCreateHistogram(metricKey(name, tags)).Update(d.Seconds())
}

// WritePrometheus renders every collected metric in Prometheus text
// exposition format, for deployments that still want to scrape this sink.
func (s *StatsdSink) WritePrometheus(w interface{ Write([]byte) (int, error) }) {
	s.set.WritePrometheus(w)
}
