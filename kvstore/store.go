// Package kvstore provides the durable key-value substrate the session layer
// persists credentials to. It mirrors the semantics of a browser local store:
// string keys, string values, synchronous writes.
package kvstore

import "errors"

var NotFoundErr = errors.New("key not found")

// Store is the persistence contract used by the session manager.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
