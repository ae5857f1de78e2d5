package fsuipc

import (
	"sync/atomic"
	"time"
)

// LatencyBuckets defines the latency histogram buckets in nanoseconds.
// Buckets cover from 1us to 10s with logarithmic spacing.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics tracks operational statistics for a session
type Metrics struct {
	// Operation counters
	ReadOps    atomic.Uint64 // Total scheduled reads
	WriteOps   atomic.Uint64 // Total scheduled writes
	ProcessOps atomic.Uint64 // Total process calls

	// Byte counters
	ReadBytes  atomic.Uint64 // Total bytes scheduled for reading
	WriteBytes atomic.Uint64 // Total bytes scheduled for writing

	// Error counters
	ReadErrors    atomic.Uint64 // Read scheduling errors
	WriteErrors   atomic.Uint64 // Write scheduling errors
	ProcessErrors atomic.Uint64 // Process errors

	// Record bookkeeping
	RecordsReleased atomic.Uint64 // Records synced back to callers
	RecordsFailed   atomic.Uint64 // Records whose release failed

	// Pending request statistics
	PendingTotal atomic.Uint64 // Cumulative pending depth samples
	PendingCount atomic.Uint64 // Number of pending depth measurements
	MaxPending   atomic.Uint32 // Maximum observed pending depth

	// Performance tracking
	TotalLatencyNs atomic.Uint64 // Cumulative operation latency in nanoseconds
	OpCount        atomic.Uint64 // Total operations (for average latency calculation)

	// Latency histogram buckets (cumulative counts)
	// Each bucket[i] contains the count of operations with latency <= LatencyBuckets[i]
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	// Session lifecycle
	StartTime atomic.Int64 // Session start timestamp (UnixNano)
	StopTime  atomic.Int64 // Session stop timestamp (UnixNano)
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordRead records a scheduled read
func (m *Metrics) RecordRead(bytes uint64, latencyNs uint64, success bool) {
	m.ReadOps.Add(1)
	if success {
		m.ReadBytes.Add(bytes)
	} else {
		m.ReadErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

// RecordWrite records a scheduled write
func (m *Metrics) RecordWrite(bytes uint64, latencyNs uint64, success bool) {
	m.WriteOps.Add(1)
	if success {
		m.WriteBytes.Add(bytes)
	} else {
		m.WriteErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

// RecordProcess records a process call
func (m *Metrics) RecordProcess(latencyNs uint64, success bool) {
	m.ProcessOps.Add(1)
	if !success {
		m.ProcessErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

// RecordFlush records the outcome of releasing pending records
func (m *Metrics) RecordFlush(released, failed uint64) {
	m.RecordsReleased.Add(released)
	m.RecordsFailed.Add(failed)
}

// RecordPending records the current number of pending records
func (m *Metrics) RecordPending(depth uint32) {
	m.PendingTotal.Add(uint64(depth))
	m.PendingCount.Add(1)

	// Update max pending depth atomically
	for {
		current := m.MaxPending.Load()
		if depth <= current {
			break
		}
		if m.MaxPending.CompareAndSwap(current, depth) {
			break
		}
	}
}

// recordLatency records operation latency and updates histogram
func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)

	// Update histogram buckets (cumulative)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the session as stopped
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time copy of Metrics with derived values
type MetricsSnapshot struct {
	// Operations
	ReadOps    uint64 `json:"read_ops"`
	WriteOps   uint64 `json:"write_ops"`
	ProcessOps uint64 `json:"process_ops"`

	// Bytes scheduled
	ReadBytes  uint64 `json:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes"`

	// Error counts
	ReadErrors    uint64 `json:"read_errors"`
	WriteErrors   uint64 `json:"write_errors"`
	ProcessErrors uint64 `json:"process_errors"`

	// Records
	RecordsReleased uint64 `json:"records_released"`
	RecordsFailed   uint64 `json:"records_failed"`

	// Pending statistics
	AvgPending float64 `json:"avg_pending"`
	MaxPending uint32  `json:"max_pending"`

	// Performance
	AvgLatencyNs uint64 `json:"avg_latency_ns"`
	UptimeNs     uint64 `json:"uptime_ns"`

	// Latency percentiles (in nanoseconds)
	LatencyP50Ns  uint64 `json:"latency_p50_ns"`
	LatencyP99Ns  uint64 `json:"latency_p99_ns"`
	LatencyP999Ns uint64 `json:"latency_p999_ns"`

	// Histogram bucket counts (cumulative)
	LatencyHistogram [numLatencyBuckets]uint64 `json:"latency_histogram"`

	// Computed statistics
	ProcessRate float64 `json:"process_rate"` // Process calls per second
	TotalOps    uint64  `json:"total_ops"`
	TotalBytes  uint64  `json:"total_bytes"`
	ErrorRate   float64 `json:"error_rate"` // Percentage of failed operations
}

// Snapshot creates a point-in-time snapshot of metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		ReadOps:         m.ReadOps.Load(),
		WriteOps:        m.WriteOps.Load(),
		ProcessOps:      m.ProcessOps.Load(),
		ReadBytes:       m.ReadBytes.Load(),
		WriteBytes:      m.WriteBytes.Load(),
		ReadErrors:      m.ReadErrors.Load(),
		WriteErrors:     m.WriteErrors.Load(),
		ProcessErrors:   m.ProcessErrors.Load(),
		RecordsReleased: m.RecordsReleased.Load(),
		RecordsFailed:   m.RecordsFailed.Load(),
		MaxPending:      m.MaxPending.Load(),
	}

	snap.TotalOps = snap.ReadOps + snap.WriteOps + snap.ProcessOps
	snap.TotalBytes = snap.ReadBytes + snap.WriteBytes

	pendingTotal := m.PendingTotal.Load()
	pendingCount := m.PendingCount.Load()
	if pendingCount > 0 {
		snap.AvgPending = float64(pendingTotal) / float64(pendingCount)
	}

	totalLatencyNs := m.TotalLatencyNs.Load()
	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = totalLatencyNs / opCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}

	if snap.UptimeNs > 0 {
		snap.ProcessRate = float64(snap.ProcessOps) / (float64(snap.UptimeNs) / 1e9)
	}

	totalErrors := snap.ReadErrors + snap.WriteErrors + snap.ProcessErrors
	if snap.TotalOps > 0 {
		snap.ErrorRate = float64(totalErrors) / float64(snap.TotalOps) * 100.0
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	if opCount > 0 {
		snap.LatencyP50Ns = m.calculatePercentile(0.50)
		snap.LatencyP99Ns = m.calculatePercentile(0.99)
		snap.LatencyP999Ns = m.calculatePercentile(0.999)
	}

	return snap
}

// calculatePercentile estimates the latency at the given percentile (0.0-1.0)
// using linear interpolation between histogram buckets.
func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	totalOps := m.OpCount.Load()
	if totalOps == 0 {
		return 0
	}

	targetCount := uint64(float64(totalOps) * percentile)

	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}

	// If we get here, the latency exceeds all buckets
	return LatencyBuckets[numLatencyBuckets-1]
}

// Reset resets all metrics counters (useful for testing)
func (m *Metrics) Reset() {
	m.ReadOps.Store(0)
	m.WriteOps.Store(0)
	m.ProcessOps.Store(0)
	m.ReadBytes.Store(0)
	m.WriteBytes.Store(0)
	m.ReadErrors.Store(0)
	m.WriteErrors.Store(0)
	m.ProcessErrors.Store(0)
	m.RecordsReleased.Store(0)
	m.RecordsFailed.Store(0)
	m.PendingTotal.Store(0)
	m.PendingCount.Store(0)
	m.MaxPending.Store(0)
	m.TotalLatencyNs.Store(0)
	m.OpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// Observer interface allows pluggable metrics collection
type Observer interface {
	// ObserveRead is called for each scheduled read
	ObserveRead(bytes uint64, latencyNs uint64, success bool)

	// ObserveWrite is called for each scheduled write
	ObserveWrite(bytes uint64, latencyNs uint64, success bool)

	// ObserveProcess is called for each process call
	ObserveProcess(latencyNs uint64, success bool)

	// ObserveFlush is called after pending records have been released
	ObserveFlush(released, failed uint64)

	// ObservePending is called with the pending depth after each store
	ObservePending(depth uint32)
}

// NoOpObserver is a no-op implementation of Observer
type NoOpObserver struct{}

func (NoOpObserver) ObserveRead(uint64, uint64, bool)  {}
func (NoOpObserver) ObserveWrite(uint64, uint64, bool) {}
func (NoOpObserver) ObserveProcess(uint64, bool)       {}
func (NoOpObserver) ObserveFlush(uint64, uint64)       {}
func (NoOpObserver) ObservePending(uint32)             {}

// MetricsObserver implements Observer using the built-in Metrics
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records to the given metrics
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveRead(bytes uint64, latencyNs uint64, success bool) {
	o.metrics.RecordRead(bytes, latencyNs, success)
}

func (o *MetricsObserver) ObserveWrite(bytes uint64, latencyNs uint64, success bool) {
	o.metrics.RecordWrite(bytes, latencyNs, success)
}

func (o *MetricsObserver) ObserveProcess(latencyNs uint64, success bool) {
	o.metrics.RecordProcess(latencyNs, success)
}

func (o *MetricsObserver) ObserveFlush(released, failed uint64) {
	o.metrics.RecordFlush(released, failed)
}

func (o *MetricsObserver) ObservePending(depth uint32) {
	o.metrics.RecordPending(depth)
}

// Compile-time interface check
var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
