package queue

import (
	"github.com/ehrlich-b/go-fsuipc/internal/logging"
)

// FlushReport summarises one FlushAll pass.
type FlushReport struct {
	Released int
	Failed   int
	Errors   []error
}

// OK reports whether every record was released.
func (r FlushReport) OK() bool { return r.Failed == 0 }

// Registry keeps armed records in insertion order until the batch they
// belong to has been processed.
type Registry struct {
	pending []*Record
	logger  *logging.Logger
}

// NewRegistry creates an empty registry. A nil logger uses the default.
func NewRegistry(logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{logger: logger}
}

// SetLogger replaces the registry logger.
func (g *Registry) SetLogger(logger *logging.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Add appends r. Nil records are ignored; duplicates are not detected.
func (g *Registry) Add(r *Record) {
	if r == nil {
		return
	}
	g.pending = append(g.pending, r)
}

// Len returns the number of pending records.
func (g *Registry) Len() int {
	return len(g.pending)
}

// FlushAll releases every pending record in insertion order and empties the
// registry. A record that fails to release is dropped all the same and does
// not stop the rest.
func (g *Registry) FlushAll() FlushReport {
	var report FlushReport
	if len(g.pending) == 0 {
		return report
	}

	g.logger.FlushStart(len(g.pending))
	for i, r := range g.pending {
		if err := r.Release(); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, err)
			g.logger.WithRequest(r.Op().String(), r.Offset(), r.Size()).WithError(err).Warn("failed to release request")
		} else {
			report.Released++
		}
		g.pending[i] = nil
	}
	g.pending = g.pending[:0]
	g.logger.FlushDone(report.Released, report.Failed)
	return report
}
