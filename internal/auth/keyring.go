package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/99designs/keyring"
)

const (
	// ServiceName is the keyring service name for novem
	ServiceName = "novem-cli"
	// EnvVarName is the environment variable that overrides every other token source
	EnvVarName = "NOVEM_TOKEN"
	// CredentialsDirEnvVarName controls where the file keyring backend lives.
	CredentialsDirEnvVarName = "NOVEM_CREDENTIALS_DIR"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for non-interactive setups.
	KeyringPasswordEnvVarName = "NOVEM_KEYRING_PASSWORD"
	// DBUSSessionAddressEnvVarName is used to detect Linux headless mode.
	DBUSSessionAddressEnvVarName = "DBUS_SESSION_BUS_ADDRESS"
)

// ErrNoToken is returned when no token is stored for a profile.
var ErrNoToken = errors.New("no token stored")

// TokenMetadata is what the keyring holds for each profile.
type TokenMetadata struct {
	Token     string    `json:"token"`
	TokenName string    `json:"token_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// KeyringProvider defines an interface for keyring operations
type KeyringProvider interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

type osKeyring struct {
	ring keyring.Keyring
}

func keyringFileDir() string {
	if dir := strings.TrimSpace(os.Getenv(CredentialsDirEnvVarName)); dir != "" {
		return filepath.Join(dir, ServiceName, "keyring")
	}
	configDir, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(configDir) == "" {
		configDir = os.Getenv("HOME")
	}
	return filepath.Join(configDir, ServiceName, "keyring")
}

func keyringFilePassword() string {
	if password := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVarName)); password != "" {
		return password
	}
	return ServiceName
}

func shouldForceFileBackend(goos string, dbusAddr string) bool {
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func newOSKeyring() (KeyringProvider, error) {
	cfg := keyring.Config{
		ServiceName:                    ServiceName,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		FileDir:                        keyringFileDir(),
		FilePasswordFunc:               func(_ string) (string, error) { return keyringFilePassword(), nil },
	}
	if shouldForceFileBackend(runtime.GOOS, os.Getenv(DBUSSessionAddressEnvVarName)) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &osKeyring{ring: ring}, nil
}

func (k *osKeyring) Get(key string) (keyring.Item, error) { return k.ring.Get(key) }
func (k *osKeyring) Set(item keyring.Item) error          { return k.ring.Set(item) }
func (k *osKeyring) Remove(key string) error              { return k.ring.Remove(key) }

// defaultProvider can be overridden in tests via SetProviderFunc.
var defaultProvider func() (KeyringProvider, error) = newOSKeyring

func itemKey(profile string) string {
	return "token:" + profile
}

// StoreToken saves the token for profile. CreatedAt is preserved when the
// same token is stored again.
func StoreToken(profile string, meta TokenMetadata) error {
	if meta.Token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	provider, err := defaultProvider()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	if existing, err := loadMetadata(provider, profile); err == nil && existing.Token == meta.Token {
		meta.CreatedAt = existing.CreatedAt
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal token metadata: %w", err)
	}
	err = provider.Set(keyring.Item{
		Key:   itemKey(profile),
		Label: fmt.Sprintf("novem token (%s)", profile),
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// GetTokenMetadata returns what is stored for profile.
func GetTokenMetadata(profile string) (*TokenMetadata, error) {
	provider, err := defaultProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return loadMetadata(provider, profile)
}

func loadMetadata(provider KeyringProvider, profile string) (*TokenMetadata, error) {
	item, err := provider.Get(itemKey(profile))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	var meta TokenMetadata
	if err := json.Unmarshal(item.Data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token metadata: %w", err)
	}
	if meta.Token == "" {
		return nil, ErrNoToken
	}
	return &meta, nil
}

// DeleteToken removes the stored token for profile. Missing tokens are not an error.
func DeleteToken(profile string) error {
	provider, err := defaultProvider()
	if err != nil {
		return nil
	}
	err = provider.Remove(itemKey(profile))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
