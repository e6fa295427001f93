package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/parent-node-finder/backend/internal/models"
)

var (
	// ErrTooLarge is returned when decompressed content exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrBadEncoding is returned for a corrupt gzip or zstd stream.
	ErrBadEncoding = errors.New("invalid compressed stream")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Store defines the interface for uploaded log storage.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
	Get(id string) (*models.FileInfo, error)
	List(limit int) ([]*models.FileInfo, error)
	Delete(id string) error
	ReadText(id string) (string, error)
}

// LocalStore implements Store using the local filesystem. Compressed
// uploads are stored decompressed.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	maxSize   int64
	files     map[string]*models.FileInfo
}

// NewLocalStore creates a new LocalStore. maxSize bounds the decompressed
// size of a single file; zero means unbounded.
func NewLocalStore(uploadDir string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
		maxSize:   maxSize,
		files:     make(map[string]*models.FileInfo),
	}, nil
}

// Save writes r to the upload directory, transparently decompressing
// gzip and zstd streams.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	content, encoding, closeFn, err := Decompress(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	if s.maxSize > 0 {
		content = io.LimitReader(content, s.maxSize+1)
	}

	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, content)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if s.maxSize > 0 && size > s.maxSize {
		os.Remove(path)
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, s.maxSize)
	}

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       size,
		Encoding:   encoding,
		UploadedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = info

	return info, nil
}

// Decompress sniffs r and wraps it in a gzip or zstd reader when the
// stream starts with the matching magic bytes. The returned encoding is
// empty for plain text. Corrupt compressed data, at open or while reading,
// yields an error wrapping ErrBadEncoding.
func Decompress(r io.Reader) (io.Reader, string, func(), error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, "", nil, fmt.Errorf("%w: gzip: %v", ErrBadEncoding, err)
		}
		return &decodeReader{r: zr, encoding: "gzip"}, "gzip", func() { zr.Close() }, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, "", nil, fmt.Errorf("%w: zstd: %v", ErrBadEncoding, err)
		}
		return &decodeReader{r: zr, encoding: "zstd"}, "zstd", zr.Close, nil
	}
	return br, "", func() {}, nil
}

// decodeReader tags decompression failures with ErrBadEncoding.
type decodeReader struct {
	r        io.Reader
	encoding string
}

func (d *decodeReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %s: %v", ErrBadEncoding, d.encoding, err)
	}
	return n, err
}

// ReadAllLimit reads r to the end. A limit of zero or less means unbounded;
// otherwise reading more than limit bytes fails with ErrTooLarge.
func ReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// Get retrieves file metadata by ID.
func (s *LocalStore) Get(id string) (*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}

	return info, nil
}

// List returns the most recent files.
func (s *LocalStore) List(limit int) ([]*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		list = append(list, info)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// Delete removes a file from storage.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("file not found: %s", id)
	}

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.files, id)
	return nil
}

// ReadText returns the stored content of a file.
func (s *LocalStore) ReadText(id string) (string, error) {
	s.mu.RLock()
	_, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}

	data, err := os.ReadFile(filepath.Join(s.uploadDir, id))
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}
