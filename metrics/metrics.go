// Package metrics provides Prometheus instrumentation for drivepathfs.
package metrics

import (
	"context"
	"io"
	"time"

	"github.com/Jumpaku/go-drivepathfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels of remote calls.
const (
	OpList         = "list"
	OpCreateFolder = "create_folder"
	OpCreateFile   = "create_file"
	OpDelete       = "delete"
	OpDownload     = "download"
)

// Metrics holds the collectors for remote store calls.
type Metrics struct {
	remoteRequestsTotal   *prometheus.CounterVec
	remoteRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		remoteRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drivepathfs_remote_requests_total",
				Help: "Total number of remote store requests",
			},
			[]string{"op", "status"},
		),
		remoteRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drivepathfs_remote_request_duration_seconds",
				Help:    "Remote store request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

// RegisterIndexSize registers a gauge reporting the number of folders held by index.
func RegisterIndexSize(reg prometheus.Registerer, index *drivepathfs.Index) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drivepathfs_index_folders",
			Help: "Number of folders in the folder index",
		},
		func() float64 { return float64(index.Len()) },
	))
}

// Store wraps next so that every call is counted and timed.
func (m *Metrics) Store(next drivepathfs.Store) drivepathfs.Store {
	return &instrumentedStore{next: next, metrics: m}
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.remoteRequestsTotal.WithLabelValues(op, status).Inc()
	m.remoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

type instrumentedStore struct {
	next    drivepathfs.Store
	metrics *Metrics
}

func (s *instrumentedStore) ListObjects(ctx context.Context, query drivepathfs.Query, pageToken string) (page drivepathfs.Page, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpList, start, err) }()
	return s.next.ListObjects(ctx, query, pageToken)
}

func (s *instrumentedStore) CreateFolder(ctx context.Context, name string, parentID string) (id string, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpCreateFolder, start, err) }()
	return s.next.CreateFolder(ctx, name, parentID)
}

func (s *instrumentedStore) CreateFile(ctx context.Context, name string, parentID string, content io.Reader, mimeType string) (id string, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpCreateFile, start, err) }()
	return s.next.CreateFile(ctx, name, parentID, content, mimeType)
}

func (s *instrumentedStore) DeleteObject(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpDelete, start, err) }()
	return s.next.DeleteObject(ctx, id)
}

func (s *instrumentedStore) DownloadObject(ctx context.Context, id string) (content io.ReadCloser, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpDownload, start, err) }()
	return s.next.DownloadObject(ctx, id)
}
