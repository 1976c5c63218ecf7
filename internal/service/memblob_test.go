package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"freemusic/internal/storage"
)

// memBlobStore is an in-memory storage.Service double for façade tests.
type memBlobStore struct {
	mu         sync.Mutex
	objects    map[string]memBlob
	failPut    bool
	failDelete bool
}

type memBlob struct {
	data     []byte
	filename string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: map[string]memBlob{}}
}

func (m *memBlobStore) Put(_ context.Context, id string, r io.Reader, filename string) error {
	if m.failPut {
		return errors.New("blob store unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[id] = memBlob{data: data, filename: filename}
	return nil
}

func (m *memBlobStore) Get(_ context.Context, id string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.objects[id]
	if !ok {
		return nil, "", storage.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(blob.data)), blob.filename, nil
}

func (m *memBlobStore) Delete(_ context.Context, id string) error {
	if m.failDelete {
		return errors.New("blob store unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, id) // absent ids are a no-op, like S3
	return nil
}

func (m *memBlobStore) List(_ context.Context) ([]storage.BlobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	infos := make([]storage.BlobInfo, 0, len(m.objects))
	for id, blob := range m.objects {
		infos = append(infos, storage.BlobInfo{ID: id, Size: int64(len(blob.data))})
	}
	return infos, nil
}

func (m *memBlobStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

var _ storage.Service = (*memBlobStore)(nil)
