package storage

import (
	"context"
	"sync"

	"github.com/tobsdb/pdb/pkg"
)

// memoryStore keeps encoded documents for the lifetime of the process.
type memoryStore struct {
	blobs  pkg.Map[string, []byte]
	locker sync.Mutex
}

func NewMemoryProvider() Provider {
	return &blobProvider{store: &memoryStore{blobs: pkg.Map[string, []byte]{}}}
}

func (s *memoryStore) GetLocker() *sync.Mutex { return &s.locker }

func (s *memoryStore) String() string { return "memory" }

func (s *memoryStore) get(_ context.Context, key string) (data []byte, ok bool, _ error) {
	pkg.LockWrap(s, func() {
		data, ok = s.blobs[key]
	})
	return data, ok, nil
}

func (s *memoryStore) put(_ context.Context, key string, data []byte) error {
	pkg.LockWrap(s, func() {
		s.blobs.Set(key, append([]byte{}, data...))
	})
	return nil
}
