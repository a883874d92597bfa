package handler

import "github.com/prometheus/client_golang/prometheus"

// UploadMetrics counts processed files by kind and outcome.
type UploadMetrics struct {
	files *prometheus.CounterVec
}

// NewUploadMetrics creates the upload counters and registers them.
func NewUploadMetrics(reg prometheus.Registerer) (*UploadMetrics, error) {
	m := &UploadMetrics{
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upload_files_total",
				Help: "Total number of uploaded files processed, by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
	}
	if err := reg.Register(m.files); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one request's per-file outcomes. Nil-safe so handlers can
// run without metrics in tests.
func (m *UploadMetrics) Observe(kind string, successes, failures int) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(kind, "success").Add(float64(successes))
	m.files.WithLabelValues(kind, "failure").Add(float64(failures))
}
