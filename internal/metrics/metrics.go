package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barista-systems/ecamctl/internal/logging"
)

// Prometheus collectors.
var (
	FramesRx = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frames_rx_total",
		Help: "Total received frames that passed the frame check and decoded into a response.",
	})
	FramesTx = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frames_tx_total",
		Help: "Total frames written to the driver.",
	})
	ChecksumFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checksum_failures_total",
		Help: "Total frames dropped by the frame check (bad length or CRC mismatch).",
	})
	ReframerResyncs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reframer_resyncs_total",
		Help: "Total times the reframer discarded leading garbage bytes to find the next sync byte.",
	})
	BroadcastDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadcast_drops_total",
		Help: "Total packet-tap subscribers evicted for falling behind the broadcast.",
	})
	ConnectionLive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "connection_live",
		Help: "1 if the named device's connection is currently alive, else 0.",
	}, []string{"device_id"})
	ReadinessLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "readiness_latency_seconds",
		Help:    "Time from Connection construction to the first MonitorV2 state being observed.",
		Buckets: prometheus.DefBuckets,
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by error class.",
	}, []string{"where"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality), mirroring
// internal/connection's classify() outputs.
const (
	ErrLabelTimeout   = "timeout"
	ErrLabelTransport = "transport"
	ErrLabelIO        = "io"
	ErrLabelUnknown   = "unknown"
	ErrLabelNotFound  = "not_found"
)

// StartHTTP serves Prometheus metrics at /metrics and a readiness probe at
// /ready.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters, cheap to read without scraping Prometheus
// in-process (used by `ecamctl monitor --trace` summaries).
var (
	localFramesRx   uint64
	localFramesTx   uint64
	localChecksum   uint64
	localResyncs    uint64
	localBroadcast  uint64
	localErrors     uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	FramesRx         uint64
	FramesTx         uint64
	ChecksumFailures uint64
	ReframerResyncs  uint64
	BroadcastDrops   uint64
	Errors           uint64
}

func Snap() Snapshot {
	return Snapshot{
		FramesRx:         atomic.LoadUint64(&localFramesRx),
		FramesTx:         atomic.LoadUint64(&localFramesTx),
		ChecksumFailures: atomic.LoadUint64(&localChecksum),
		ReframerResyncs:  atomic.LoadUint64(&localResyncs),
		BroadcastDrops:   atomic.LoadUint64(&localBroadcast),
		Errors:           atomic.LoadUint64(&localErrors),
	}
}

func IncFramesRx() {
	FramesRx.Inc()
	atomic.AddUint64(&localFramesRx, 1)
}

func IncFramesTx() {
	FramesTx.Inc()
	atomic.AddUint64(&localFramesTx, 1)
}

func IncChecksumFailure() {
	ChecksumFailures.Inc()
	atomic.AddUint64(&localChecksum, 1)
}

func IncReframerResync() {
	ReframerResyncs.Inc()
	atomic.AddUint64(&localResyncs, 1)
}

func IncBroadcastDrop() {
	BroadcastDrops.Inc()
	atomic.AddUint64(&localBroadcast, 1)
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

// SetConnectionLive records a device's liveness as a gauge so dashboards
// can alert on a BLE session dropping.
func SetConnectionLive(deviceID string, live bool) {
	v := 0.0
	if live {
		v = 1.0
	}
	ConnectionLive.WithLabelValues(deviceID).Set(v)
}

// ObserveReadinessLatency records the time-to-first-state for a Connection.
func ObserveReadinessLatency(seconds float64) {
	ReadinessLatency.Observe(seconds)
}

// InitBuildInfo sets the build info gauge (should be called once at startup).
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	for _, lbl := range []string{ErrLabelTimeout, ErrLabelTransport, ErrLabelIO, ErrLabelUnknown, ErrLabelNotFound} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}
