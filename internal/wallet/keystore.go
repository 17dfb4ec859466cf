package wallet

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const (
	keychainService = "squad"

	// EnvKeyringPassword unlocks the file keyring without a prompt.
	EnvKeyringPassword = "SQUAD_KEYRING_PASSWORD"
)

// ErrKeyNotFound is returned when no key is stored under a reference.
var ErrKeyNotFound = errors.New("key not found")

// Keys persists private keys by reference.
type Keys interface {
	Store(name, hexKey string) (ref string, err error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
}

// Keystore stores keys in the OS keychain, falling back to an encrypted file
// keyring under dir.
type Keystore struct {
	ring keyring.Keyring
}

// OpenKeystore opens the keychain. dir holds the file-backend keyring used
// when no desktop keychain is reachable.
func OpenKeystore(dir string) (*Keystore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		},
		FileDir:          dir,
		FilePasswordFunc: filePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Keystore{ring: ring}, nil
}

func filePassword(prompt string) (string, error) {
	if pw := os.Getenv(EnvKeyringPassword); pw != "" {
		return pw, nil
	}
	return keyring.TerminalPrompt(prompt)
}

// Store saves hexKey for a wallet name and returns its reference.
func (k *Keystore) Store(name, hexKey string) (string, error) {
	ref := keychainService + "." + name
	if err := k.ring.Set(keyring.Item{Key: ref, Data: []byte(hexKey), Label: "squad wallet " + name}); err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Retrieve fetches a private key by its reference.
func (k *Keystore) Retrieve(ref string) (string, error) {
	item, err := k.ring.Get(ref)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, ref)
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored key. Missing keys are not an error.
func (k *Keystore) Delete(ref string) error {
	err := k.ring.Remove(ref)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !os.IsNotExist(err) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// MemoryKeys keeps keys in memory. Used by tests and watch-only sessions.
type MemoryKeys struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKeys creates an empty in-memory key store.
func NewMemoryKeys() *MemoryKeys {
	return &MemoryKeys{data: make(map[string]string)}
}

func (k *MemoryKeys) Store(name, hexKey string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ref := keychainService + "." + name
	k.data[ref] = hexKey
	return ref, nil
}

func (k *MemoryKeys) Retrieve(ref string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.data[ref]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, ref)
	}
	return v, nil
}

func (k *MemoryKeys) Delete(ref string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, ref)
	return nil
}

// normaliseHexKey trims whitespace and an optional 0x prefix.
func normaliseHexKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}
