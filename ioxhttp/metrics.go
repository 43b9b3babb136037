// Copyright 2024 The ChronoFrame Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ioxhttp

import "github.com/prometheus/client_golang/prometheus"

// Registry owns the prometheus collectors backing the write endpoint's
// request and ingest accounting, the Go-native counterpart of the
// original's "http_requests" and "ingest_bytes" metrics.
type Registry struct {
	requests    *prometheus.CounterVec
	ingestBytes *prometheus.CounterVec
}

// NewRegistry builds and registers the write-path collectors against
// reg. These are counters, not gauges: unlike chunk storage, a
// completed request is never "returned."
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsdb",
			Subsystem: "write",
			Name:      "requests_total",
			Help:      "Write requests handled, by status (ok, client_error, server_error).",
		}, []string{"status"}),
		ingestBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsdb",
			Subsystem: "write",
			Name:      "ingest_bytes_total",
			Help:      "Line-protocol body bytes accepted, by database and status.",
		}, []string{"db", "status"}),
	}
	reg.MustRegister(r.requests, r.ingestBytes)
	return r
}

func (r *Registry) recordRequest(status string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(status).Inc()
}

func (r *Registry) recordIngestBytes(db, status string, n int) {
	if r == nil {
		return
	}
	r.ingestBytes.WithLabelValues(db, status).Add(float64(n))
}
