package middleware

import (
	"context"
	"io"

	"golang.org/x/time/rate"

	"github.com/remotefs/remotefs"
)

type rateLimitFs struct {
	next    remotefs.Fs
	limiter *rate.Limiter
}

// RateLimit returns fsys wrapped behind a token bucket: every remote
// operation waits for a token before reaching the driver, which keeps a
// chatty caller, the find engine included, from hammering a shared
// server. A nil limiter disables limiting and returns fsys unchanged.
//
// Waiting honors ctx, so cancellation during the wait surfaces the
// context's error without touching the driver. IsConnected is a local
// query and is never throttled, and stream reads and writes are not
// individually limited, only the opens.
func RateLimit(fsys remotefs.Fs, limiter *rate.Limiter) remotefs.Fs {
	if limiter == nil {
		return fsys
	}
	return &rateLimitFs{next: fsys, limiter: limiter}
}

func (r *rateLimitFs) wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

func (r *rateLimitFs) Connect(ctx context.Context) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.Connect(ctx)
}

func (r *rateLimitFs) Disconnect(ctx context.Context) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.Disconnect(ctx)
}

func (r *rateLimitFs) IsConnected() bool {
	return r.next.IsConnected()
}

func (r *rateLimitFs) Pwd(ctx context.Context) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	return r.next.Pwd(ctx)
}

func (r *rateLimitFs) ChangeDir(ctx context.Context, dir string) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	return r.next.ChangeDir(ctx, dir)
}

func (r *rateLimitFs) Stat(ctx context.Context, path string) (*remotefs.Entry, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Stat(ctx, path)
}

func (r *rateLimitFs) Exists(ctx context.Context, path string) (bool, error) {
	if err := r.wait(ctx); err != nil {
		return false, err
	}
	return r.next.Exists(ctx, path)
}

func (r *rateLimitFs) ListDir(ctx context.Context, path string) ([]remotefs.Entry, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ListDir(ctx, path)
}

func (r *rateLimitFs) CreateDir(ctx context.Context, path string, recursive bool) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.CreateDir(ctx, path, recursive)
}

func (r *rateLimitFs) RemoveDir(ctx context.Context, path string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.RemoveDir(ctx, path)
}

func (r *rateLimitFs) RemoveDirAll(ctx context.Context, path string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.RemoveDirAll(ctx, path)
}

func (r *rateLimitFs) RemoveFile(ctx context.Context, path string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.RemoveFile(ctx, path)
}

func (r *rateLimitFs) Rename(ctx context.Context, src, dst string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.Rename(ctx, src, dst)
}

func (r *rateLimitFs) Copy(ctx context.Context, src, dst string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.Copy(ctx, src, dst)
}

func (r *rateLimitFs) OpenRead(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.OpenRead(ctx, path)
}

func (r *rateLimitFs) OpenWrite(ctx context.Context, path string, appendMode bool) (io.WriteCloser, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.OpenWrite(ctx, path, appendMode)
}

func (r *rateLimitFs) SetStat(ctx context.Context, path string, meta remotefs.Metadata) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.SetStat(ctx, path, meta)
}

func (r *rateLimitFs) Symlink(ctx context.Context, path, target string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.next.Symlink(ctx, path, target)
}

func (r *rateLimitFs) Exec(ctx context.Context, command string) (*remotefs.ExecResult, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Exec(ctx, command)
}
