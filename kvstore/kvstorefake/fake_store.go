// Package kvstorefake provides an in-memory Store for tests.
package kvstorefake

import (
	"sync"

	"github.com/kdmobility/go-fleet-client/kvstore"
)

type FakeStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewFakeStore() *FakeStore {
	return &FakeStore{values: map[string]string{}}
}

func (f *FakeStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", kvstore.NotFoundErr
	}
	return v, nil
}

func (f *FakeStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *FakeStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

// Len reports the number of stored keys.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.values)
}

var _ kvstore.Store = (*FakeStore)(nil)
