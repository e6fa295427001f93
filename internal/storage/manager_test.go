// manager_test.go - Tests for storage layer
package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func createTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestNewLocalStore(t *testing.T) {
	t.Run("creates upload directory", func(t *testing.T) {
		uploadDir := filepath.Join(t.TempDir(), "uploads")

		if _, err := NewLocalStore(uploadDir, 0); err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
			t.Error("Expected upload directory to be created")
		}
	})
}

func TestLocalStore_Save(t *testing.T) {
	t.Run("saves plain text", func(t *testing.T) {
		store := createTestStore(t)
		content := "MAC  Rate\n-----\n"

		info, err := store.Save("report.log", strings.NewReader(content))
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected ID to be set")
		}
		if info.Name != "report.log" {
			t.Errorf("Expected name 'report.log', got %v", info.Name)
		}
		if info.Size != int64(len(content)) {
			t.Errorf("Expected size %d, got %d", len(content), info.Size)
		}
		if info.Encoding != "" {
			t.Errorf("Expected no encoding, got %q", info.Encoding)
		}

		text, err := store.ReadText(info.ID)
		if err != nil {
			t.Fatalf("ReadText failed: %v", err)
		}
		if text != content {
			t.Errorf("Expected %q, got %q", content, text)
		}
	})

	t.Run("saves empty file", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.Save("empty.txt", strings.NewReader(""))
		if err != nil {
			t.Fatalf("Failed to save empty file: %v", err)
		}
		if info.Size != 0 {
			t.Errorf("Expected size 0, got %d", info.Size)
		}
	})

	t.Run("decompresses gzip", func(t *testing.T) {
		store := createTestStore(t)
		content := "aa:bb:cc:dd:ee:ff 10.0 NA 3 NA 1 -40\n"

		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte(content))
		zw.Close()

		info, err := store.Save("report.log.gz", &buf)
		if err != nil {
			t.Fatalf("Failed to save gzip file: %v", err)
		}
		if info.Encoding != "gzip" {
			t.Errorf("Expected encoding gzip, got %q", info.Encoding)
		}
		text, _ := store.ReadText(info.ID)
		if text != content {
			t.Errorf("Expected %q, got %q", content, text)
		}
	})

	t.Run("decompresses zstd", func(t *testing.T) {
		store := createTestStore(t)
		content := strings.Repeat("aa:bb:cc:dd:ee:ff 10.0 NA 3 NA 1 -40\n", 50)

		var buf bytes.Buffer
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		zw.Write([]byte(content))
		zw.Close()

		info, err := store.Save("report.log.zst", &buf)
		if err != nil {
			t.Fatalf("Failed to save zstd file: %v", err)
		}
		if info.Encoding != "zstd" {
			t.Errorf("Expected encoding zstd, got %q", info.Encoding)
		}
		if info.Size != int64(len(content)) {
			t.Errorf("Expected decompressed size %d, got %d", len(content), info.Size)
		}
	})

	t.Run("rejects corrupt gzip", func(t *testing.T) {
		store := createTestStore(t)
		_, err := store.Save("bad.gz", bytes.NewReader([]byte{0x1f, 0x8b, 0x00}))
		if !errors.Is(err, ErrBadEncoding) {
			t.Errorf("Expected ErrBadEncoding for corrupt gzip header, got %v", err)
		}
	})

	t.Run("rejects corrupt zstd body", func(t *testing.T) {
		store := createTestStore(t)
		data := append([]byte{0x28, 0xb5, 0x2f, 0xfd}, bytes.Repeat([]byte{0xff}, 32)...)
		_, err := store.Save("bad.zst", bytes.NewReader(data))
		if !errors.Is(err, ErrBadEncoding) {
			t.Errorf("Expected ErrBadEncoding for corrupt zstd stream, got %v", err)
		}
		list, _ := store.List(0)
		if len(list) != 0 {
			t.Errorf("Expected no stored files, got %d", len(list))
		}
	})

	t.Run("enforces max size", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir(), 4)
		if err != nil {
			t.Fatal(err)
		}
		_, err = store.Save("big.log", strings.NewReader("0123456789"))
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("Expected ErrTooLarge, got %v", err)
		}
		list, _ := store.List(10)
		if len(list) != 0 {
			t.Errorf("Expected no stored files, got %d", len(list))
		}
	})
}

func TestLocalStore_GetAndDelete(t *testing.T) {
	store := createTestStore(t)
	info, err := store.Save("a.log", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(info.ID)
	if err != nil || got.Name != "a.log" {
		t.Fatalf("Get returned %v, %v", got, err)
	}

	if err := store.Delete(info.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(info.ID); err == nil {
		t.Error("Expected error after delete")
	}
	if _, err := store.ReadText(info.ID); err == nil {
		t.Error("Expected ReadText error after delete")
	}
	if err := store.Delete(info.ID); err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestLocalStore_List(t *testing.T) {
	store := createTestStore(t)
	for _, name := range []string{"one.log", "two.log", "three.log"} {
		if _, err := store.Save(name, strings.NewReader(name)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	list, err := store.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(list))
	}
	if list[0].Name != "three.log" {
		t.Errorf("Expected newest first, got %s", list[0].Name)
	}

	all, _ := store.List(0)
	if len(all) != 3 {
		t.Errorf("Expected 3 files with no limit, got %d", len(all))
	}
}

func TestReadAllLimit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr error
	}{
		{"unbounded", "0123456789", 0, nil},
		{"at limit", "0123", 4, nil},
		{"over limit", "01234", 4, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadAllLimit(strings.NewReader(tt.input), tt.limit)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if err == nil && string(data) != tt.input {
				t.Errorf("Expected %q, got %q", tt.input, data)
			}
		})
	}
}

func TestReadAllLimit_ExpandingGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(bytes.Repeat([]byte("x"), 1<<20))
	zw.Close()

	content, _, closeFn, err := Decompress(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	if _, err := ReadAllLimit(content, 1024); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}
