package inmemory

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// BlobStore keeps document payloads in process memory. It backs development
// runs and tests; contents are lost on restart.
type BlobStore struct {
	mu      sync.RWMutex
	objects map[string]blob
}

type blob struct {
	data        []byte
	contentType string
}

func NewBlobStore() *BlobStore {
	return &BlobStore{
		objects: make(map[string]blob),
	}
}

func (s *BlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("blob %s: read %d bytes, expected %d", key, len(data), size)
	}

	s.mu.Lock()
	s.objects[key] = blob{data: data, contentType: contentType}
	s.mu.Unlock()
	return nil
}

func (s *BlobStore) URL(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("blob %s not found", key)
	}
	return "memory://" + key, nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored payload.
func (s *BlobStore) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	item, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, "", false
	}
	data := make([]byte, len(item.data))
	copy(data, item.data)
	return data, item.contentType, true
}

func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
