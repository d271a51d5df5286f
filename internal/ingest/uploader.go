package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Transfer is one artifact to hand off. Remote is the destination path as the
// uploader understands it.
type Transfer struct {
	Local  string
	Remote string
}

// Uploader delivers converted artifacts to the downstream system.
type Uploader interface {
	Upload(ctx context.Context, transfers []Transfer) error
}

// DirUploader delivers into local directories, typically a share mounted by
// the downstream system. Each file is written to a temporary name in the
// destination directory and renamed into place, so readers never see a
// partial file.
type DirUploader struct{}

// Upload implements Uploader. It stops at the first failure.
func (DirUploader) Upload(ctx context.Context, transfers []Transfer) error {
	for _, t := range transfers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyAtomic(t.Local, t.Remote); err != nil {
			return fmt.Errorf("upload %s: %w", filepath.Base(t.Local), err)
		}
	}
	return nil
}

func copyAtomic(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
