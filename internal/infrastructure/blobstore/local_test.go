package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

func TestLocalStoreSaveAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	payload := []byte("receipt-bytes")
	token, err := store.Save(context.Background(), bytes.NewReader(payload), int64(len(payload)), "image/png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(token, ".png") {
		t.Fatalf("token = %q, want .png suffix", token)
	}

	rc, contentType, err := store.Open(context.Background(), token)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	if contentType != "image/png" {
		t.Fatalf("contentType = %q, want image/png", contentType)
	}
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestLocalStoreRejectsUnsupportedType(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	_, err = store.Save(context.Background(), strings.NewReader("x"), 1, "text/html")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLocalStoreRejectsOversizedReceipt(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	_, err = store.Save(context.Background(), strings.NewReader("way past the limit"), 18, "image/jpeg")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("declared size: err = %v, want ErrInvalidInput", err)
	}

	// Lying about the size must not help.
	_, err = store.Save(context.Background(), strings.NewReader("way past the limit"), 4, "image/jpeg")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("streamed size: err = %v, want ErrInvalidInput", err)
	}
}

func TestLocalStoreOpenRejectsForgedTokens(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if _, _, err := store.Open(context.Background(), "../etc/passwd"); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("traversal token: err = %v, want ErrInvalidInput", err)
	}
	if _, _, err := store.Open(context.Background(), "deadbeef.png"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("unknown token: err = %v, want ErrNotFound", err)
	}
}

func TestLocalStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	payload := []byte("receipt-bytes")
	token, err := store.Save(context.Background(), bytes.NewReader(payload), int64(len(payload)), "image/png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(context.Background(), token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Open(context.Background(), token); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("Open after delete err = %v, want %v", err, usecase.ErrNotFound)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("len(entries) = %d, want empty directory", len(entries))
	}

	// Deleting an already-gone token is not an error.
	if err := store.Delete(context.Background(), token); err != nil {
		t.Fatalf("repeat Delete: %v", err)
	}
	if err := store.Delete(context.Background(), "../etc/passwd"); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("forged token err = %v, want %v", err, usecase.ErrInvalidInput)
	}
}
