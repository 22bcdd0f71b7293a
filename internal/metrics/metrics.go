// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exposes Prometheus collectors for the registry, compiler,
// template instantiator, and object heap, following the teacher's
// go.mod dependency on github.com/prometheus/client_golang.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kraklabs/angelgo/pkg/compiler"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/runtime"
	"github.com/kraklabs/angelgo/pkg/template"
)

// Collector holds every metric the engine reports. One Collector is created
// per process and threaded through the compile driver and the CallContext
// wiring that needs it.
type Collector struct {
	registryTypes     prometheus.Gauge
	registryFunctions prometheus.Gauge

	compileDuration *prometheus.HistogramVec
	compileErrors   *prometheus.CounterVec

	templateCacheSize prometheus.Gauge
	templateHits      prometheus.Counter
	templateMisses    prometheus.Counter

	heapLive        prometheus.Gauge
	heapAllocated   prometheus.Counter
	heapFreed       prometheus.Counter
	heapAllocatedAt uint64
	heapFreedAt     uint64

	nativeCalls *prometheus.CounterVec
}

// New registers every collector against reg and returns the Collector. Pass
// prometheus.NewRegistry() for isolated tests, or nil to use the default
// global registry (the usual case for `angelgo serve`).
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		registryTypes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "angelgo", Subsystem: "registry", Name: "types",
			Help: "Number of types currently registered.",
		}),
		registryFunctions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "angelgo", Subsystem: "registry", Name: "functions",
			Help: "Number of functions currently registered.",
		}),
		compileDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "angelgo", Subsystem: "compiler", Name: "pass_duration_seconds",
			Help:    "Wall-clock time spent in each compile pass.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pass"}),
		compileErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angelgo", Subsystem: "compiler", Name: "errors_total",
			Help: "Compilation errors observed, by error kind.",
		}, []string{"kind"}),
		templateCacheSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "angelgo", Subsystem: "template", Name: "cache_size",
			Help: "Number of template instances currently cached.",
		}),
		templateHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "angelgo", Subsystem: "template", Name: "cache_hits_total",
			Help: "Template instantiation requests served from cache.",
		}),
		templateMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "angelgo", Subsystem: "template", Name: "cache_misses_total",
			Help: "Template instantiation requests that built a fresh instance.",
		}),
		heapLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "angelgo", Subsystem: "heap", Name: "live_objects",
			Help: "Number of live (allocated, not yet freed) heap objects.",
		}),
		heapAllocated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "angelgo", Subsystem: "heap", Name: "allocations_total",
			Help: "Cumulative heap allocations.",
		}),
		heapFreed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "angelgo", Subsystem: "heap", Name: "frees_total",
			Help: "Cumulative heap frees.",
		}),
		nativeCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "angelgo", Subsystem: "runtime", Name: "native_calls_total",
			Help: "Native function invocations, by function name.",
		}, []string{"function"}),
	}
}

// ObserveCompilePass records the duration of one compile pass ("pass1",
// "pass2a", "pass2b").
func (c *Collector) ObserveCompilePass(pass string, d time.Duration) {
	c.compileDuration.WithLabelValues(pass).Observe(d.Seconds())
}

// ObserveCompileErrors increments the error counter for each error in
// result, labeled by its CompilationErrorKind.
func (c *Collector) ObserveCompileErrors(result *compiler.CompilationResult) {
	for _, e := range result.Errors {
		c.compileErrors.WithLabelValues(e.Kind.String()).Inc()
	}
}

// SampleRegistry updates the registry size gauges from reg's current Stats.
func (c *Collector) SampleRegistry(reg *registry.Registry) {
	st := reg.Stats()
	c.registryTypes.Set(float64(st.Types))
	c.registryFunctions.Set(float64(st.Functions))
}

// SampleTemplate updates the template cache size gauge from inst's current
// CacheSize.
func (c *Collector) SampleTemplate(inst *template.Instantiator) {
	c.templateCacheSize.Set(float64(inst.CacheSize()))
}

// ObserveTemplateLookup records whether an Instantiate call was served from
// cache (hit) or built a fresh instance (miss).
func (c *Collector) ObserveTemplateLookup(hit bool) {
	if hit {
		c.templateHits.Inc()
		return
	}
	c.templateMisses.Inc()
}

// SampleHeap updates the heap gauges/counters from h's current Stats. The
// Counters only ever increase, so this adds the delta since the last sample
// rather than Set-ing an absolute value.
func (c *Collector) SampleHeap(h *runtime.ObjectHeap) {
	st := h.Stats()
	c.heapLive.Set(float64(st.Live))
	if d := st.Allocated - c.heapAllocatedAt; d > 0 {
		c.heapAllocated.Add(float64(d))
		c.heapAllocatedAt = st.Allocated
	}
	if d := st.Freed - c.heapFreedAt; d > 0 {
		c.heapFreed.Add(float64(d))
		c.heapFreedAt = st.Freed
	}
}

// Wire installs this Collector's observers onto c's pass timing and inst's
// cache-lookup hit/miss tracking, so both report automatically as they run
// rather than needing to be polled.
func (col *Collector) Wire(c *compiler.Compiler, inst *template.Instantiator) {
	c.SetPassObserver(col.ObserveCompilePass)
	inst.SetLookupObserver(col.ObserveTemplateLookup)
}

// InstrumentNative wraps fn so every invocation increments the native-call
// counter under name before delegating.
func (c *Collector) InstrumentNative(name string, fn runtime.NativeFunc) runtime.NativeFunc {
	counter := c.nativeCalls.WithLabelValues(name)
	return func(ctx *runtime.CallContext) error {
		counter.Inc()
		return fn(ctx)
	}
}
