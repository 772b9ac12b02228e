package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if _, err := fs.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := fs.Set(ctx, "token", "tok123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	reopened, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	got, err := reopened.Get(ctx, "token")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "tok123" {
		t.Errorf("Get() = %q, want tok123", got)
	}

	if err := reopened.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := reopened.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrNotFound", err)
	}
	if err := reopened.Remove(ctx, "missing"); err != nil {
		t.Errorf("Remove() of missing key error = %v", err)
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := os.WriteFile(fs.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := fs.Get(ctx, "user"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get() error = %v, want ErrCorrupt", err)
	}

	if err := fs.Set(ctx, "token", "tok123"); err != nil {
		t.Fatalf("Set() over corrupt document error = %v", err)
	}
	if got, err := fs.Get(ctx, "token"); err != nil || got != "tok123" {
		t.Errorf("Get() after recovery = %q, %v", got, err)
	}
}

func TestFileStoreRemoveReplacesCorruptDocument(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := fs.Remove(ctx, "user"); err != nil {
		t.Fatalf("Remove() over corrupt document error = %v", err)
	}
	if _, err := fs.Get(ctx, "user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrNotFound", err)
	}
}

func TestNewFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore("", zerolog.Nop()); err == nil {
		t.Error("NewFileStore(\"\") expected error")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.Set(ctx, "user", "{}"); err != nil {
		t.Fatal(err)
	}
	if v, err := m.Get(ctx, "user"); err != nil || v != "{}" {
		t.Errorf("Get() = %q, %v", v, err)
	}
	_ = m.Remove(ctx, "user")
	if _, err := m.Get(ctx, "user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove error = %v", err)
	}
}
