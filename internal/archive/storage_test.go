package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/coachlab/coachlab/pkg/config"
)

func TestLocalStoragePutGet(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"record":{}}`)
	if err := s.Put(ctx, "sessions/2026/01/02/abc.json", data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "sessions/2026/01/02/abc.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Get = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "sessions", "2026", "01", "02", "abc.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	_, err := s.Get(context.Background(), "sessions/missing.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	for _, key := range []string{"../outside.json", "/etc/passwd", "a/../../b"} {
		if err := s.Put(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestNewBlobStoreLocal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBlobStore(context.Background(), config.StorageConfig{Backend: config.BackendLocal, LocalPath: dir})
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	local, ok := store.(*LocalStorage)
	if !ok {
		t.Fatalf("expected *LocalStorage, got %T", store)
	}
	if local.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", local.BaseDir, dir)
	}
}

func TestNewBlobStoreUnknown(t *testing.T) {
	if _, err := NewBlobStore(context.Background(), config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewS3StorageWithEndpoint(t *testing.T) {
	s, err := NewS3Storage(context.Background(), S3Config{
		Bucket:    "transcripts",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	if err != nil {
		t.Fatalf("NewS3Storage: %v", err)
	}
	if s.bucket != "transcripts" {
		t.Errorf("bucket = %q, want transcripts", s.bucket)
	}
}
