package kvstore

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// SealedStore wraps another Store and encrypts values at rest with
// ChaCha20-Poly1305. Keys are left in the clear; only values are sealed.
type SealedStore struct {
	inner Store
	key   []byte
}

// NewSealedStore requires a 32 byte key.
func NewSealedStore(inner Store, key []byte) (*SealedStore, error) {
	if inner == nil {
		return nil, errors.New("[NewSealedStore] inner store is required")
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.Errorf("[NewSealedStore] key must be %d bytes", chacha20poly1305.KeySize)
	}
	return &SealedStore{inner: inner, key: key}, nil
}

func (ss *SealedStore) Get(key string) (string, error) {
	sealed, err := ss.inner.Get(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrap(err, "[SealedStore.Get] decode")
	}

	aead, err := chacha20poly1305.New(ss.key)
	if err != nil {
		return "", errors.Wrap(err, "[SealedStore.Get] cipher")
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("[SealedStore.Get] sealed value too short")
	}

	nonce, box := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		return "", errors.Wrap(err, "[SealedStore.Get] open")
	}
	return string(plain), nil
}

func (ss *SealedStore) Set(key, value string) error {
	aead, err := chacha20poly1305.New(ss.key)
	if err != nil {
		return errors.Wrap(err, "[SealedStore.Set] cipher")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[SealedStore.Set] nonce")
	}

	box := aead.Seal(nonce, nonce, []byte(value), nil)
	return ss.inner.Set(key, base64.StdEncoding.EncodeToString(box))
}

func (ss *SealedStore) Delete(key string) error {
	return ss.inner.Delete(key)
}

var _ Store = (*SealedStore)(nil)
