package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/USA-RedDragon/obs-remote/internal/storage"
)

func TestFilesystemRoundTrip(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	fs, err := storage.NewFilesystem(root)
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	defer fs.Close()
	ctx := context.Background()

	size, err := fs.Put(ctx, "shot.png", bytes.NewReader([]byte("image bytes")), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if size != int64(len("image bytes")) {
		t.Errorf("unexpected size %d", size)
	}
	if _, err := os.Stat(filepath.Join(root, "shot.png")); err != nil {
		t.Errorf("file not written below the root: %v", err)
	}

	body, err := fs.Get(ctx, "shot.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, err := io.ReadAll(body)
	_ = body.Close()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("unexpected contents %q", data)
	}

	if err := fs.Delete(ctx, "shot.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Get(ctx, "shot.png"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := fs.Delete(ctx, "shot.png"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFilesystemStaysInRoot(t *testing.T) {
	t.Parallel()
	parent := t.TempDir()
	root := filepath.Join(parent, "screenshots")
	if err := os.Mkdir(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(parent, "secret"), []byte("nope"), 0600); err != nil {
		t.Fatal(err)
	}

	fs, err := storage.NewFilesystem(root)
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	defer fs.Close()

	if _, err := fs.Get(context.Background(), "../secret"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a key outside the root, got %v", err)
	}
	if _, err := fs.Put(context.Background(), "../escape", bytes.NewReader(nil), ""); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape")); !errors.Is(err, os.ErrNotExist) {
		t.Error("Put escaped the root directory")
	}
}
