// Package cursorstore persists poller watermarks and latches as JSON values
// keyed by string, one namespace per watching workflow node.
package cursorstore

import (
	"context"
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/pkg/errors"
)

// ErrKeyEmpty is returned when an empty key is used.
var ErrKeyEmpty = errors.New("cursor key is empty")

// Store is a durable key-value mapping from string key to JSON-serializable value.
type Store interface {
	// Get decodes the value stored under key into value.
	//
	// Returns:
	// - bool: false if the key does not exist.
	// - error: an error if the read or decoding fails.
	Get(ctx context.Context, key string, value interface{}) (bool, error)

	// Set encodes value and stores it under key.
	Set(ctx context.Context, key string, value interface{}) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Type selects the Store implementation.
type Type string

const (
	TypeMemory   Type = "memory"
	TypeBadger   Type = "badger"
	TypePostgres Type = "postgres"
)

// Config selects and configures a Store.
//
// Fields:
// - Type: the store implementation.
// - Namespace: isolates the keys of one watching workflow node.
// - Directory: the Badger data directory.
// - DSN: the Postgres connection string.
type Config struct {
	Type      Type   `yaml:"type"`
	Namespace string `yaml:"namespace"`
	Directory string `yaml:"directory"`
	DSN       string `yaml:"dsn"`
}

// NewFromConfig constructs a Store based on configuration.
func NewFromConfig(ctx context.Context, cfg Config) (Store, error) {
	switch Type(strings.ToLower(string(cfg.Type))) {
	case TypeMemory, "":
		return NewMemoryStore(), nil
	case TypeBadger:
		return NewBadgerStore(cfg.Directory, cfg.Namespace)
	case TypePostgres:
		return NewPostgresStore(ctx, cfg.DSN, cfg.Namespace)
	default:
		return nil, errors.Wrapf(zkerrors.ErrInvalidParameter, "unsupported cursor store type %q", cfg.Type)
	}
}

func checkKey(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	return nil
}
