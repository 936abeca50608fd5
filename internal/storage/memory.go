package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryUploader keeps uploads in process. FailFolders makes uploads into the
// named folders fail, for exercising partial-failure paths.
type MemoryUploader struct {
	mu          sync.Mutex
	objects     map[string][]byte
	FailFolders map[string]error
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{objects: make(map[string][]byte), FailFolders: make(map[string]error)}
}

func (u *MemoryUploader) Upload(_ context.Context, folder, filename string, data []byte) (Asset, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.FailFolders[folder]; err != nil {
		return Asset{}, err
	}
	key := objectKey(folder, filename)
	u.objects[key] = append([]byte(nil), data...)
	return Asset{URL: "memory://" + key, Key: key}, nil
}

func (u *MemoryUploader) Delete(_ context.Context, asset Asset) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.objects[asset.Key]; !ok {
		return fmt.Errorf("object %q not found", asset.Key)
	}
	delete(u.objects, asset.Key)
	return nil
}

// Keys returns the stored object keys.
func (u *MemoryUploader) Keys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	keys := make([]string, 0, len(u.objects))
	for k := range u.objects {
		keys = append(keys, k)
	}
	return keys
}
