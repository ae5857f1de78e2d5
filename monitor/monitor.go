// Package monitor serves the state of a session over HTTP.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	fsuipc "github.com/ehrlich-b/go-fsuipc"
	"github.com/ehrlich-b/go-fsuipc/internal/logging"
)

// Source is what the monitor reports on; *fsuipc.Session satisfies it.
type Source interface {
	Info() fsuipc.SessionInfo
	MetricsSnapshot() fsuipc.MetricsSnapshot
}

// Value is the latest sample of a named value.
type Value struct {
	Name    string    `json:"name"`
	Value   any       `json:"value"`
	Updated time.Time `json:"updated"`
}

// Monitor keeps the latest value per name and exposes it with the session
// info and metrics.
type Monitor struct {
	source Source
	logger *logging.Logger

	mu     sync.RWMutex
	values map[string]Value
}

// New creates a monitor reporting on source.
func New(source Source) *Monitor {
	return &Monitor{
		source: source,
		logger: logging.Default(),
		values: make(map[string]Value),
	}
}

// Update records the latest value of name.
func (m *Monitor) Update(name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = Value{Name: name, Value: value, Updated: time.Now()}
}

// Values returns the latest values sorted by name.
func (m *Monitor) Values() []Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Value, 0, len(m.values))
	for _, v := range m.values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Handler returns the API router.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/session", m.session).Methods(http.MethodGet)
	r.HandleFunc("/api/metrics", m.metrics).Methods(http.MethodGet)
	r.HandleFunc("/api/values", m.listValues).Methods(http.MethodGet)
	r.HandleFunc("/api/values/{name}", m.value).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.resource).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves the API on addr until ctx is done.
func (m *Monitor) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	m.logger.Info("monitor listening", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (m *Monitor) session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.source.Info())
}

func (m *Monitor) metrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.source.MetricsSnapshot())
}

func (m *Monitor) listValues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.Values())
}

func (m *Monitor) value(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.mu.RLock()
	v, ok := m.values[name]
	m.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown value " + name})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) resource(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var rsp resourceRsp
	if cpu, err := proc.CPUPercent(); err == nil {
		rsp.CPUPercent = cpu
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		rsp.MemorySize = mem.RSS
	}
	writeJSON(w, http.StatusOK, rsp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Default().WithError(err).Warn("failed to write response")
	}
}
