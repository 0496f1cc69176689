/*
Copyright 2026 Alexandre Mahdhaoui

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

// Package metrics exposes Prometheus collectors describing inventory collections.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
)

const namespace = "vsphere_inventory"

const (
	// ResultSuccess labels a collection without any per-item error.
	ResultSuccess = "success"
	// ResultPartial labels a collection where at least one host or VM could not be collected.
	ResultPartial = "partial"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	collections    *prometheus.CounterVec
	collectionErrs *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
	hosts          prometheus.Gauge
	vms            prometheus.Gauge
	lastCollection prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		collections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_total",
			Help:      "Number of completed inventory collections by result.",
		}, []string{"result"}),
		collectionErrs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_errors_total",
			Help:      "Number of hosts or VMs that could not be collected by error kind.",
		}, []string{"kind"}),
		callDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Duration of remote calls to the management endpoint by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		hosts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hosts",
			Help:      "Number of hosts in the last collection.",
		}),
		vms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vms",
			Help:      "Number of non-template VMs in the last collection.",
		}),
		lastCollection: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_collection_timestamp_seconds",
			Help:      "Unix time of the last completed collection.",
		}),
	}
}

// ObserveCall records the duration of one remote call.
func (m *Metrics) ObserveCall(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.callDuration.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

// ObserveSnapshot records the outcome of a completed collection.
func (m *Metrics) ObserveSnapshot(snapshot types.Snapshot) {
	if m == nil {
		return
	}

	result := ResultSuccess
	if snapshot.HasErrors() {
		result = ResultPartial
	}

	m.collections.WithLabelValues(result).Inc()

	for _, e := range snapshot.Errors {
		m.collectionErrs.WithLabelValues(string(e.Kind)).Inc()
	}

	m.hosts.Set(float64(len(snapshot.Hosts)))
	m.vms.Set(float64(len(snapshot.VMs)))
	m.lastCollection.Set(float64(snapshot.CollectedAt.Unix()))
}
