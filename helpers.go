package remotefs

import (
	"context"
	"errors"
	"io"
)

// ReadFile reads the whole remote file at path through fsys.
func ReadFile(ctx context.Context, fsys Fs, path string) ([]byte, error) {
	r, err := fsys.OpenRead(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, asContractErr(err)
	}
	return data, nil
}

// WriteFile replaces the remote file at path with data, creating it when
// absent.
func WriteFile(ctx context.Context, fsys Fs, path string, data []byte) error {
	return writeAll(ctx, fsys, path, data, false)
}

// AppendFile appends data to the remote file at path, creating it when
// absent.
func AppendFile(ctx context.Context, fsys Fs, path string, data []byte) error {
	return writeAll(ctx, fsys, path, data, true)
}

func writeAll(ctx context.Context, fsys Fs, path string, data []byte, appendMode bool) error {
	w, err := fsys.OpenWrite(ctx, path, appendMode)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return asContractErr(err)
	}
	// Close failures matter here: drivers may defer the actual flush or
	// upload until Close.
	if err := w.Close(); err != nil {
		return asContractErr(err)
	}
	return nil
}

// asContractErr keeps classified errors intact and folds anything a raw
// stream produced into KindIO.
func asContractErr(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return WrapError(KindIO, err)
}
