package middleware

import (
	"context"
	"io"
	"time"

	"github.com/remotefs/remotefs"
	"github.com/remotefs/remotefs/metrics"
)

type metricsFs struct {
	next    remotefs.Fs
	backend string
}

// Metrics returns fsys wrapped so every operation feeds the Prometheus
// collectors in the metrics package: an operation counter, a duration
// histogram, an error counter labelled by taxonomy kind, byte counters
// on the streams and the active-session gauge. backend labels every
// series, so several wrapped drivers stay distinguishable on one
// registry.
func Metrics(fsys remotefs.Fs, backend string) remotefs.Fs {
	return &metricsFs{next: fsys, backend: backend}
}

// kindLabel maps taxonomy kinds onto stable label tokens. Kind.String
// renders prose for humans; labels want identifiers.
func kindLabel(err error) string {
	switch remotefs.KindOf(err) {
	case remotefs.KindNotConnected:
		return "not_connected"
	case remotefs.KindConnectionFailed:
		return "connection_failed"
	case remotefs.KindAuthFailed:
		return "auth_failed"
	case remotefs.KindNotFound:
		return "not_found"
	case remotefs.KindPermissionDenied:
		return "permission_denied"
	case remotefs.KindAlreadyExists:
		return "already_exists"
	case remotefs.KindNotADirectory:
		return "not_a_directory"
	case remotefs.KindIsADirectory:
		return "is_a_directory"
	case remotefs.KindUnsupported:
		return "unsupported"
	case remotefs.KindIO:
		return "io"
	case remotefs.KindBadPath:
		return "bad_path"
	default:
		return "protocol"
	}
}

func (m *metricsFs) observe(op string, start time.Time, err error) {
	metrics.OperationsTotal.WithLabelValues(m.backend, op).Inc()
	metrics.OperationDuration.WithLabelValues(m.backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(m.backend, op, kindLabel(err)).Inc()
	}
}

func (m *metricsFs) Connect(ctx context.Context) error {
	start := time.Now()
	err := m.next.Connect(ctx)
	m.observe("connect", start, err)
	if err == nil {
		metrics.ActiveSessions.Inc()
	}
	return err
}

func (m *metricsFs) Disconnect(ctx context.Context) error {
	start := time.Now()
	wasConnected := m.next.IsConnected()
	err := m.next.Disconnect(ctx)
	m.observe("disconnect", start, err)
	if err == nil && wasConnected {
		metrics.ActiveSessions.Dec()
	}
	return err
}

func (m *metricsFs) IsConnected() bool {
	return m.next.IsConnected()
}

func (m *metricsFs) Pwd(ctx context.Context) (string, error) {
	start := time.Now()
	wd, err := m.next.Pwd(ctx)
	m.observe("pwd", start, err)
	return wd, err
}

func (m *metricsFs) ChangeDir(ctx context.Context, dir string) (string, error) {
	start := time.Now()
	wd, err := m.next.ChangeDir(ctx, dir)
	m.observe("change_dir", start, err)
	return wd, err
}

func (m *metricsFs) Stat(ctx context.Context, path string) (*remotefs.Entry, error) {
	start := time.Now()
	entry, err := m.next.Stat(ctx, path)
	m.observe("stat", start, err)
	return entry, err
}

func (m *metricsFs) Exists(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := m.next.Exists(ctx, path)
	m.observe("exists", start, err)
	return ok, err
}

func (m *metricsFs) ListDir(ctx context.Context, path string) ([]remotefs.Entry, error) {
	start := time.Now()
	entries, err := m.next.ListDir(ctx, path)
	m.observe("list_dir", start, err)
	return entries, err
}

func (m *metricsFs) CreateDir(ctx context.Context, path string, recursive bool) error {
	start := time.Now()
	err := m.next.CreateDir(ctx, path, recursive)
	m.observe("create_dir", start, err)
	return err
}

func (m *metricsFs) RemoveDir(ctx context.Context, path string) error {
	start := time.Now()
	err := m.next.RemoveDir(ctx, path)
	m.observe("remove_dir", start, err)
	return err
}

func (m *metricsFs) RemoveDirAll(ctx context.Context, path string) error {
	start := time.Now()
	err := m.next.RemoveDirAll(ctx, path)
	m.observe("remove_dir_all", start, err)
	return err
}

func (m *metricsFs) RemoveFile(ctx context.Context, path string) error {
	start := time.Now()
	err := m.next.RemoveFile(ctx, path)
	m.observe("remove_file", start, err)
	return err
}

func (m *metricsFs) Rename(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := m.next.Rename(ctx, src, dst)
	m.observe("rename", start, err)
	return err
}

func (m *metricsFs) Copy(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := m.next.Copy(ctx, src, dst)
	m.observe("copy", start, err)
	return err
}

func (m *metricsFs) OpenRead(ctx context.Context, path string) (io.ReadCloser, error) {
	start := time.Now()
	r, err := m.next.OpenRead(ctx, path)
	m.observe("open_read", start, err)
	if err != nil {
		return nil, err
	}
	return &countingReader{inner: r, backend: m.backend}, nil
}

func (m *metricsFs) OpenWrite(ctx context.Context, path string, appendMode bool) (io.WriteCloser, error) {
	start := time.Now()
	w, err := m.next.OpenWrite(ctx, path, appendMode)
	m.observe("open_write", start, err)
	if err != nil {
		return nil, err
	}
	return &countingWriter{inner: w, backend: m.backend}, nil
}

func (m *metricsFs) SetStat(ctx context.Context, path string, meta remotefs.Metadata) error {
	start := time.Now()
	err := m.next.SetStat(ctx, path, meta)
	m.observe("set_stat", start, err)
	return err
}

func (m *metricsFs) Symlink(ctx context.Context, path, target string) error {
	start := time.Now()
	err := m.next.Symlink(ctx, path, target)
	m.observe("symlink", start, err)
	return err
}

func (m *metricsFs) Exec(ctx context.Context, command string) (*remotefs.ExecResult, error) {
	start := time.Now()
	result, err := m.next.Exec(ctx, command)
	m.observe("exec", start, err)
	return result, err
}

// countingReader adds everything read to the per-backend byte counter.
type countingReader struct {
	inner   io.ReadCloser
	backend string
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 {
		metrics.BytesRead.WithLabelValues(r.backend).Add(float64(n))
	}
	return n, err
}

func (r *countingReader) Close() error {
	return r.inner.Close()
}

// countingWriter adds everything written to the per-backend byte counter.
type countingWriter struct {
	inner   io.WriteCloser
	backend string
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)
	if n > 0 {
		metrics.BytesWritten.WithLabelValues(w.backend).Add(float64(n))
	}
	return n, err
}

func (w *countingWriter) Close() error {
	return w.inner.Close()
}
