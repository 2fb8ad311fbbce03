package middleware

import (
	"context"
	"io"
	"sync"

	"github.com/remotefs/remotefs"
)

type serialFs struct {
	mu   sync.Mutex
	next remotefs.Fs
}

// Serialize returns fsys wrapped behind a mutex, making one session
// shareable between goroutines. The contract itself provides no
// locking, so a bare driver shared across goroutines races on its
// session state; this wrapper is the external serialization such
// callers need when opening independent sessions is too expensive.
//
// Exclusion is per call: each operation, and each read, write and close
// on a returned stream, holds the mutex for its own duration only.
// Goroutines therefore interleave between calls, and the discipline of
// finishing a stream before issuing unrelated operations on the same
// session still falls to the caller.
func Serialize(fsys remotefs.Fs) remotefs.Fs {
	return &serialFs{next: fsys}
}

func (s *serialFs) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Connect(ctx)
}

func (s *serialFs) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Disconnect(ctx)
}

func (s *serialFs) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.IsConnected()
}

func (s *serialFs) Pwd(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Pwd(ctx)
}

func (s *serialFs) ChangeDir(ctx context.Context, dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.ChangeDir(ctx, dir)
}

func (s *serialFs) Stat(ctx context.Context, path string) (*remotefs.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Stat(ctx, path)
}

func (s *serialFs) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Exists(ctx, path)
}

func (s *serialFs) ListDir(ctx context.Context, path string) ([]remotefs.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.ListDir(ctx, path)
}

func (s *serialFs) CreateDir(ctx context.Context, path string, recursive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.CreateDir(ctx, path, recursive)
}

func (s *serialFs) RemoveDir(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.RemoveDir(ctx, path)
}

func (s *serialFs) RemoveDirAll(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.RemoveDirAll(ctx, path)
}

func (s *serialFs) RemoveFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.RemoveFile(ctx, path)
}

func (s *serialFs) Rename(ctx context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Rename(ctx, src, dst)
}

func (s *serialFs) Copy(ctx context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Copy(ctx, src, dst)
}

func (s *serialFs) OpenRead(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.next.OpenRead(ctx, path)
	if err != nil {
		return nil, err
	}
	return &serialReader{mu: &s.mu, inner: r}, nil
}

func (s *serialFs) OpenWrite(ctx context.Context, path string, appendMode bool) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.next.OpenWrite(ctx, path, appendMode)
	if err != nil {
		return nil, err
	}
	return &serialWriter{mu: &s.mu, inner: w}, nil
}

func (s *serialFs) SetStat(ctx context.Context, path string, meta remotefs.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.SetStat(ctx, path, meta)
}

func (s *serialFs) Symlink(ctx context.Context, path, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Symlink(ctx, path, target)
}

func (s *serialFs) Exec(ctx context.Context, command string) (*remotefs.ExecResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Exec(ctx, command)
}

// serialReader shares the session mutex so stream reads exclude other
// operations on the wrapped session.
type serialReader struct {
	mu    *sync.Mutex
	inner io.ReadCloser
}

func (r *serialReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.Read(p)
}

func (r *serialReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inner.Close()
}

// serialWriter shares the session mutex so stream writes exclude other
// operations on the wrapped session.
type serialWriter struct {
	mu    *sync.Mutex
	inner io.WriteCloser
}

func (w *serialWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inner.Write(p)
}

func (w *serialWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inner.Close()
}
