// Package middleware wraps any remotefs.Fs with cross-cutting behavior:
// structured logging, Prometheus metrics, rate limiting and session
// serialization. Wrappers compose in any order, delegate every operation
// unchanged and add no filesystem semantics of their own.
package middleware

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/remotefs/remotefs"
)

type loggingFs struct {
	next    remotefs.Fs
	logger  *zap.Logger
	session string
}

// Logging returns fsys wrapped so every operation is logged: successes
// at debug, failures at warn with their taxonomy kind, session
// lifecycle at info. Each successful Connect mints a session id that is
// stamped on every line until the next Connect, which ties interleaved
// logs from multiple sessions back together.
func Logging(fsys remotefs.Fs, logger *zap.Logger) remotefs.Fs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loggingFs{next: fsys, logger: logger}
}

func (l *loggingFs) observe(op string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("session_id", l.session),
		zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		fields = append(fields,
			zap.String("kind", remotefs.KindOf(err).String()),
			zap.Error(err))
		l.logger.Warn(op+" failed", fields...)
		return
	}
	l.logger.Debug(op, fields...)
}

func (l *loggingFs) Connect(ctx context.Context) error {
	start := time.Now()
	if err := l.next.Connect(ctx); err != nil {
		l.observe("connect", start, err)
		return err
	}
	l.session = uuid.NewString()
	l.logger.Info("session connected",
		zap.String("session_id", l.session),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (l *loggingFs) Disconnect(ctx context.Context) error {
	start := time.Now()
	if err := l.next.Disconnect(ctx); err != nil {
		l.observe("disconnect", start, err)
		return err
	}
	l.logger.Info("session disconnected", zap.String("session_id", l.session))
	return nil
}

func (l *loggingFs) IsConnected() bool {
	return l.next.IsConnected()
}

func (l *loggingFs) Pwd(ctx context.Context) (string, error) {
	start := time.Now()
	wd, err := l.next.Pwd(ctx)
	l.observe("pwd", start, err)
	return wd, err
}

func (l *loggingFs) ChangeDir(ctx context.Context, dir string) (string, error) {
	start := time.Now()
	wd, err := l.next.ChangeDir(ctx, dir)
	l.observe("change_dir", start, err, zap.String("dir", dir))
	return wd, err
}

func (l *loggingFs) Stat(ctx context.Context, path string) (*remotefs.Entry, error) {
	start := time.Now()
	entry, err := l.next.Stat(ctx, path)
	l.observe("stat", start, err, zap.String("path", path))
	return entry, err
}

func (l *loggingFs) Exists(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := l.next.Exists(ctx, path)
	l.observe("exists", start, err, zap.String("path", path))
	return ok, err
}

func (l *loggingFs) ListDir(ctx context.Context, path string) ([]remotefs.Entry, error) {
	start := time.Now()
	entries, err := l.next.ListDir(ctx, path)
	l.observe("list_dir", start, err,
		zap.String("path", path),
		zap.Int("entries", len(entries)))
	return entries, err
}

func (l *loggingFs) CreateDir(ctx context.Context, path string, recursive bool) error {
	start := time.Now()
	err := l.next.CreateDir(ctx, path, recursive)
	l.observe("create_dir", start, err,
		zap.String("path", path),
		zap.Bool("recursive", recursive))
	return err
}

func (l *loggingFs) RemoveDir(ctx context.Context, path string) error {
	start := time.Now()
	err := l.next.RemoveDir(ctx, path)
	l.observe("remove_dir", start, err, zap.String("path", path))
	return err
}

func (l *loggingFs) RemoveDirAll(ctx context.Context, path string) error {
	start := time.Now()
	err := l.next.RemoveDirAll(ctx, path)
	l.observe("remove_dir_all", start, err, zap.String("path", path))
	return err
}

func (l *loggingFs) RemoveFile(ctx context.Context, path string) error {
	start := time.Now()
	err := l.next.RemoveFile(ctx, path)
	l.observe("remove_file", start, err, zap.String("path", path))
	return err
}

func (l *loggingFs) Rename(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := l.next.Rename(ctx, src, dst)
	l.observe("rename", start, err,
		zap.String("src", src),
		zap.String("dst", dst))
	return err
}

func (l *loggingFs) Copy(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := l.next.Copy(ctx, src, dst)
	l.observe("copy", start, err,
		zap.String("src", src),
		zap.String("dst", dst))
	return err
}

func (l *loggingFs) OpenRead(ctx context.Context, path string) (io.ReadCloser, error) {
	start := time.Now()
	r, err := l.next.OpenRead(ctx, path)
	l.observe("open_read", start, err, zap.String("path", path))
	return r, err
}

func (l *loggingFs) OpenWrite(ctx context.Context, path string, appendMode bool) (io.WriteCloser, error) {
	start := time.Now()
	w, err := l.next.OpenWrite(ctx, path, appendMode)
	l.observe("open_write", start, err,
		zap.String("path", path),
		zap.Bool("append", appendMode))
	return w, err
}

func (l *loggingFs) SetStat(ctx context.Context, path string, meta remotefs.Metadata) error {
	start := time.Now()
	err := l.next.SetStat(ctx, path, meta)
	l.observe("set_stat", start, err, zap.String("path", path))
	return err
}

func (l *loggingFs) Symlink(ctx context.Context, path, target string) error {
	start := time.Now()
	err := l.next.Symlink(ctx, path, target)
	l.observe("symlink", start, err,
		zap.String("path", path),
		zap.String("target", target))
	return err
}

func (l *loggingFs) Exec(ctx context.Context, command string) (*remotefs.ExecResult, error) {
	start := time.Now()
	result, err := l.next.Exec(ctx, command)
	l.observe("exec", start, err)
	return result, err
}
