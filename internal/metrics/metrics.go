// Package metrics counts what happened during a conversion run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Reasons a value produced no triple.
const (
	ReasonNumberRange = "number_range"
	ReasonInvalidIRI  = "invalid_iri"
	ReasonSkippedKey  = "skipped_key"
	ReasonUnrooted    = "unrooted"
)

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Documents      int
	DocumentErrors int
	Triples        int
	Duplicates     int
	Skipped        map[string]int
}

// SkippedTotal returns the number of skipped values over all reasons.
func (s Stats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Recorder tracks run counters on its own Prometheus registry.
type Recorder struct {
	registry       *prometheus.Registry
	documents      prometheus.Counter
	documentErrors prometheus.Counter
	triples        prometheus.Counter
	duplicates     prometheus.Counter
	skipped        *prometheus.CounterVec

	stats Stats
}

// NewRecorder creates a Recorder with all counters registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "json2rdf",
			Name:      "documents_total",
			Help:      "Top-level JSON documents converted.",
		}),
		documentErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "json2rdf",
			Name:      "document_errors_total",
			Help:      "Top-level JSON documents skipped because they could not be parsed.",
		}),
		triples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "json2rdf",
			Name:      "triples_total",
			Help:      "Distinct triples added to the graph.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "json2rdf",
			Name:      "duplicate_triples_total",
			Help:      "Triples emitted that were already in the graph.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "json2rdf",
			Name:      "skipped_values_total",
			Help:      "JSON values that produced no triple, by reason.",
		}, []string{"reason"}),
		stats: Stats{Skipped: make(map[string]int)},
	}
	r.registry.MustRegister(r.documents, r.documentErrors, r.triples, r.duplicates, r.skipped)
	return r
}

// DocumentConverted records a successfully parsed document.
func (r *Recorder) DocumentConverted() {
	r.documents.Inc()
	r.stats.Documents++
}

// DocumentFailed records a document that could not be parsed.
func (r *Recorder) DocumentFailed() {
	r.documentErrors.Inc()
	r.stats.DocumentErrors++
}

// TripleEmitted records an emitted triple; added is false for duplicates.
func (r *Recorder) TripleEmitted(added bool) {
	if added {
		r.triples.Inc()
		r.stats.Triples++
		return
	}
	r.duplicates.Inc()
	r.stats.Duplicates++
}

// ValueSkipped records a value dropped for reason.
func (r *Recorder) ValueSkipped(reason string) {
	r.skipped.WithLabelValues(reason).Inc()
	r.stats.Skipped[reason]++
}

// Snapshot returns a copy of the current counters.
func (r *Recorder) Snapshot() Stats {
	s := r.stats
	s.Skipped = make(map[string]int, len(r.stats.Skipped))
	for k, v := range r.stats.Skipped {
		s.Skipped[k] = v
	}
	return s
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes the counters to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
