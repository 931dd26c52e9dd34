package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Filesystem stores objects as files below a root directory. Keys are
// resolved with RESOLVE_IN_ROOT so they can never escape it.
type Filesystem struct {
	root string
	dfd  int
}

func NewFilesystem(root string) (*Filesystem, error) {
	dfd, err := unix.Open(root, unix.O_DIRECTORY|unix.O_PATH|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &Filesystem{
		root: root,
		dfd:  dfd,
	}, nil
}

func (f *Filesystem) Close() error {
	return unix.Close(f.dfd)
}

func (f *Filesystem) Put(_ context.Context, key string, body io.Reader, _ string) (int64, error) {
	file, err := f.openFile(key, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return written, err
}

func (f *Filesystem) Get(_ context.Context, key string) (io.ReadCloser, error) {
	file, err := f.openFile(key, os.O_RDONLY, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return file, err
}

func (f *Filesystem) Delete(_ context.Context, key string) error {
	// unlinkat has no RESOLVE_IN_ROOT, so open the parent through the root first
	parent, err := f.openFile(filepath.Dir(key), unix.O_DIRECTORY|unix.O_PATH, 0)
	if err != nil {
		return err
	}
	defer parent.Close()

	err = unix.Unlinkat(int(parent.Fd()), filepath.Base(key), 0)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (f *Filesystem) openFile(name string, flag int, perm fs.FileMode) (*os.File, error) {
	for {
		how := unix.OpenHow{
			Flags:   uint64(flag) | unix.O_CLOEXEC,
			Mode:    uint64(perm),
			Resolve: unix.RESOLVE_IN_ROOT,
		}
		fd, err := unix.Openat2(f.dfd, name, &how)
		if err != nil {
			// need to check for EINTR - Go issues 11180, 39237
			// also EAGAIN in case of unsafe race
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return nil, err
		}

		return os.NewFile(uintptr(fd), filepath.Join(f.root, name)), nil
	}
}
