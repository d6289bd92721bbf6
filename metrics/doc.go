// SPDX-License-Identifier: EPL-2.0

// Package metrics exposes Prometheus instrumentation for the extractor:
// extraction results and wall time, decoded and dropped frames, produced PCM
// bytes, and dequeue timeouts on either side of the codec.
//
// Metrics are registered on the registerer given to New, so tests and
// embedding programs can keep them off the global default registry.
package metrics
