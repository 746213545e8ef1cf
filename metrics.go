// Copyright 2025 the DAAM authors.
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

package daam

import "github.com/prometheus/client_golang/prometheus"

var (
	experimentSaveOps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daam",
			Subsystem: "store",
			Name:      "experiment_save_ops_total",
			Help:      "The total number of experiment saves.",
		},
	)
	experimentLoadOps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daam",
			Subsystem: "store",
			Name:      "experiment_load_ops_total",
			Help:      "The total number of experiment loads.",
		},
	)
	maskMergeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daam",
			Subsystem: "store",
			Name:      "mask_merge_ops_total",
			Help:      "The total number of masks merged while loading, by source kind.",
		},
		[]string{"kind"},
	)
	parseCacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daam",
			Subsystem: "parse",
			Name:      "cache_ops_total",
			Help:      "The total number of prompt parse cache lookups, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		experimentSaveOps,
		experimentLoadOps,
		maskMergeOps,
		parseCacheOps,
	)
}

func recordExperimentSave() { experimentSaveOps.Inc() }
func recordExperimentLoad() { experimentLoadOps.Inc() }

func recordMaskMerge(kind string) { maskMergeOps.WithLabelValues(kind).Inc() }

func recordParseCacheHit()  { parseCacheOps.WithLabelValues("hit").Inc() }
func recordParseCacheMiss() { parseCacheOps.WithLabelValues("miss").Inc() }
