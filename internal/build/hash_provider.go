package build

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// HashProvider computes content hashes for generated pages and copied
// assets. File hashes are cached by path, size and modification time so an
// unchanged file is never re-read.
type HashProvider struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewHashProvider creates an empty provider.
func NewHashProvider() *HashProvider {
	return &HashProvider{cache: make(map[string]string)}
}

// HashBytes returns the hex blake2b-256 digest of data.
func (hp *HashProvider) HashBytes(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the digest of the file at path.
func (hp *HashProvider) HashFile(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s:%d:%d", path, stat.ModTime().UnixNano(), stat.Size())

	hp.mu.RLock()
	hash, ok := hp.cache[key]
	hp.mu.RUnlock()
	if ok {
		return hash, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	hash = hex.EncodeToString(h.Sum(nil))

	hp.mu.Lock()
	hp.cache[key] = hash
	hp.mu.Unlock()
	return hash, nil
}

// Len is the number of cached file hashes.
func (hp *HashProvider) Len() int {
	hp.mu.RLock()
	defer hp.mu.RUnlock()
	return len(hp.cache)
}
