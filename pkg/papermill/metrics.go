/*
Copyright 2026 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package papermill

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics describes a single run. The tool exits once the job is done, so
// metrics are pushed to a Pushgateway instead of being scraped.
type Metrics struct {
	Registry *prometheus.Registry

	duration prometheus.Gauge
	runs     *prometheus.CounterVec
}

// NewMetrics registers the run metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papermill_job_duration_seconds",
			Help: "Time from submitting the notebook job until it finished or waiting gave up.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "papermill_job_runs_total",
			Help: "Number of notebook job runs by result.",
		}, []string{
			// SUCCESS, FAILURE or ERROR, lower cased
			"result",
		}),
	}
	m.Registry.MustRegister(m.duration, m.runs)
	return m
}

// Observe records the duration and result of a run.
func (m *Metrics) Observe(d time.Duration, result string) {
	if m == nil {
		return
	}
	m.duration.Set(d.Seconds())
	m.runs.WithLabelValues(strings.ToLower(result)).Inc()
}

// Push sends the registry to the Pushgateway at url, grouped by job name.
func (m *Metrics) Push(url, jobName string) error {
	if err := push.New(url, createdBy).
		Gatherer(m.Registry).
		Grouping("job_name", jobName).
		Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
